// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/article-engine/internal/mcpserver"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the write_article tool over MCP stdio",
	Long: `Mcp starts an MCP server over stdin/stdout exposing one tool, write_article,
which takes a topic and returns the refined post. Logs go to stderr so they
never mix with the protocol stream.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, _, err := buildPipeline(cmd.Context())
		if err != nil {
			return err
		}
		return mcpserver.NewServer(p, version, logger.Named("mcp")).Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
