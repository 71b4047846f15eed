package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ironsheep/yellow-detect/internal/detection"
	"github.com/ironsheep/yellow-detect/internal/guidance"
	"github.com/ironsheep/yellow-detect/internal/server"
)

func (a *app) newMCPCmd() *cobra.Command {
	var (
		band     detection.Config
		g        guidance.Config
		hueUnits *string
	)

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve detection tools over MCP on stdin/stdout",
		Long: `Runs an MCP server speaking JSON-RPC 2.0 over stdin/stdout.

Configure it in your MCP client (e.g., Claude Desktop). The band and
guidance flags set the defaults that tool calls start from.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			band.HueUnits = detection.HueUnits(*hueUnits)
			if err := band.Validate(); err != nil {
				return err
			}
			if err := g.Validate(); err != nil {
				return err
			}

			opts := []server.Option{
				server.WithVersion(Version),
				server.WithDetectionConfig(band),
				server.WithGuidanceConfig(g),
			}
			if a.logger != nil {
				opts = append(opts, server.WithLogger(a.logger))
			}

			srv := server.New(opts...)
			if err := srv.Serve(cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		},
	}

	hueUnits = bandFlags(cmd.Flags(), &band)
	guidanceFlags(cmd, &g)
	return cmd
}
