// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/article-engine/internal/tui"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Open the interactive terminal interface",
	Long: `Ui opens a terminal interface: type a topic, press enter, and watch the
research, first draft, and SEO-optimized post appear as each stage finishes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Logs would draw over the alternate screen.
		logger = zap.NewNop()

		p, _, err := buildPipeline(cmd.Context())
		if err != nil {
			return err
		}
		return tui.Run(cmd.Context(), p)
	},
}

func init() {
	rootCmd.AddCommand(uiCmd)
}
