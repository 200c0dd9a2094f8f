package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tphakala/inatdiff-go/cmd/listspecies"
	mcpcmd "github.com/tphakala/inatdiff-go/cmd/mcp"
	"github.com/tphakala/inatdiff-go/cmd/newspecies"
	"github.com/tphakala/inatdiff-go/cmd/query"
	"github.com/tphakala/inatdiff-go/internal/conf"
	"github.com/tphakala/inatdiff-go/internal/logging"
)

// RootCommand creates and returns the root command
func RootCommand(settings *conf.Settings) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "inatdiff",
		Short: "Find species newly observed in a geographic region",
		Long: `inatdiff queries iNaturalist observation data to detect species that
appear in a region during a time period but have no observations in the
years before it. Queries run against the live API with conservative
rate limiting, so large regions can take minutes.`,
		SilenceUsage: true,
	}

	// Set up the global flags for the root command.
	flagsErr := setupFlags(rootCmd, settings)

	subcommands := []*cobra.Command{
		newspecies.Command(settings),
		listspecies.Command(settings),
		query.Command(settings),
		mcpcmd.Command(settings),
	}
	rootCmd.AddCommand(subcommands...)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if flagsErr != nil {
			return flagsErr
		}
		if settings.Debug {
			logging.SetLevel(slog.LevelDebug)
		}
		// Flags write straight into the settings struct, so re-validate
		// before any subcommand runs.
		return conf.ValidateSettings(settings)
	}

	return rootCmd
}

// setupFlags defines flags that are global to the command line interface
func setupFlags(rootCmd *cobra.Command, settings *conf.Settings) error {
	rootCmd.PersistentFlags().BoolVarP(&settings.Debug, "debug", "d", viper.GetBool("debug"), "Enable debug output")
	rootCmd.PersistentFlags().BoolVarP(&settings.Diff.Verbose, "verbose", "v", viper.GetBool("diff.verbose"), "Surface place resolution and progress detail")
	rootCmd.PersistentFlags().Float64Var(&settings.INat.RateLimit, "rate-limit", viper.GetFloat64("inat.ratelimit"), "Minimum seconds between consecutive API requests")
	rootCmd.PersistentFlags().IntVar(&settings.Diff.LookbackYears, "lookback-years", viper.GetInt("diff.lookbackyears"), "Historical window length in years")
	rootCmd.PersistentFlags().StringVarP(&settings.Output.Format, "format", "f", viper.GetString("output.format"), "Console output format: text, json or markdown")
	rootCmd.PersistentFlags().StringVarP(&settings.Output.File, "output", "o", viper.GetString("output.file"), "Path to save the raw result, .json or .yaml")
	rootCmd.PersistentFlags().IntVar(&settings.Output.SpeciesDisplayLimit, "limit", viper.GetInt("output.speciesdisplaylimit"), "Species shown before console output is truncated")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		return fmt.Errorf("error binding flags: %v", err)
	}

	return nil
}
