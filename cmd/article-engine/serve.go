// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/article-engine/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the article pipeline over HTTP",
	Long: `Serve starts an HTTP server with two routes:

  POST /v1/articles  {"topic": "..."}  runs the pipeline and returns the report
                                       (200 on success, 502 when a stage failed)
  GET  /healthz                        liveness probe

Runs are serialized. The server shuts down gracefully on SIGINT or SIGTERM.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			viper.Set("serve.addr", addr)
		}

		p, cfg, err := buildPipeline(cmd.Context())
		if err != nil {
			return err
		}
		return server.New(p, logger.Named("server")).ListenAndServe(cmd.Context(), cfg.Serve.Addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (overrides serve.addr)")

	rootCmd.AddCommand(serveCmd)
}
