// mcp.go mcp command code
package mcp

import (
	"github.com/spf13/cobra"

	"github.com/tphakala/inatdiff-go/internal/conf"
	mcpserver "github.com/tphakala/inatdiff-go/internal/mcp"
)

// Command creates the mcp command, which serves the query tools over
// stdio for MCP clients.
func Command(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run the Model Context Protocol tool server on stdio",
		Long: `Expose the new-species query tools to MCP clients such as desktop AI
assistants. The protocol runs over stdin/stdout, so all diagnostics go
to stderr and the service log file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return mcpserver.Serve(settings)
		},
	}
}
