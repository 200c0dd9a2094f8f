// conf/defaults.go default values for settings
package conf

import (
	"github.com/spf13/viper"
)

// Sets default values for the configuration.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	viper.SetDefault("main.name", "inatdiff")
	viper.SetDefault("main.log.enabled", true)
	viper.SetDefault("main.log.path", "logs/inatdiff.log")

	viper.SetDefault("inat.baseurl", "https://api.inaturalist.org/v1")
	viper.SetDefault("inat.useragent", "")
	viper.SetDefault("inat.timeout", 30)
	// 1.2s keeps us at ~50 requests/minute, under the published 60-100/min ceiling
	viper.SetDefault("inat.ratelimit", 1.2)
	viper.SetDefault("inat.maxattempts", 3)

	viper.SetDefault("diff.period", "this month")
	viper.SetDefault("diff.lookbackyears", 20)
	viper.SetDefault("diff.verbose", false)

	viper.SetDefault("output.format", "text")
	viper.SetDefault("output.speciesdisplaylimit", 20)
	viper.SetDefault("output.file", "")

	viper.SetDefault("mcp.cachettl", "15m")
	viper.SetDefault("mcp.resultlimit", 50)
}
