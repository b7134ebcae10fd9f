package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/macropower/leads/pkg/mcp"
)

func NewMCPCmd(root *RootArgs) *cobra.Command {
	var address string

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the MCP tools",
		Long: `Serve the list_customers, get_customer, and dashboard_stats tools to MCP
clients. Without an address the server speaks over stdin and stdout.`,
		Example: `  # Serve over stdio, e.g. from an MCP client configuration:
  leads mcp

  # Serve over streamable HTTP:
  leads mcp --address localhost:8081`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := root.newApp()
			if err != nil {
				return err
			}

			s, err := mcp.NewServer(address, a.client, a.statsLoader(),
				mcp.WithDefaultLimit(a.cfg.Table.PageSize))
			if err != nil {
				return fmt.Errorf("create MCP server: %w", err)
			}

			return s.Serve(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&address, "address", "", "Serve over HTTP at this address instead of stdio")

	return cmd
}
