// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the article-engine CLI. Each front-end
// is a subcommand: write, serve, mcp, and ui. All of them share one pipeline
// built from configuration at startup.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/article-engine/internal/config"
	"github.com/pdiddy/article-engine/internal/secrets"
	"github.com/pdiddy/article-engine/internal/telemetry"
	"github.com/pdiddy/article-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// store resolves credentials from the environment and .secrets/.
	store *secrets.Store

	// logger is built in PersistentPreRunE from --verbose.
	logger = zap.NewNop()

	// shutdownTracer flushes spans when tracing is enabled.
	shutdownTracer func(context.Context) error
)

// rootCmd is the base command for the article-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "article-engine",
	Short: "Research a topic, draft a blog post, and refine it for SEO",
	Long: `article-engine writes blog posts in three stages: web research through a
search provider, a first draft from the research, and an SEO refinement of the
draft. Each stage feeds the next; the first failure stops the run.

Front-ends are subcommands: write runs once from the command line, serve
exposes an HTTP API, mcp serves an MCP tool over stdio, and ui opens an
interactive terminal interface.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		l, err := newLogger(verbose)
		if err != nil {
			return fmt.Errorf("building logger: %w", err)
		}
		logger = l

		if err := secrets.LoadDotEnv(".env"); err != nil {
			return err
		}
		files, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		store = secrets.NewStore(files)
		if keys := store.FileKeys(); len(keys) > 0 {
			logger.Debug("loaded secrets", zap.Strings("keys", keys))
		}

		trace, _ := cmd.Flags().GetBool("trace")
		if trace || viper.GetBool("telemetry.enabled") {
			shutdown, err := telemetry.InitTracer("article-engine", os.Stderr, logger)
			if err != nil {
				return err
			}
			shutdownTracer = shutdown
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./article-engine.yaml or ~/.config/article-engine/article-engine.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().Bool("trace", false, "export OpenTelemetry spans to stderr")
}

func initConfig() {
	config.SetDefaults(viper.GetViper(), version)

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("article-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "article-engine"))
		}
	}

	viper.SetEnvPrefix("ARTICLE_ENGINE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger writes JSON logs to stderr at info level, or debug when verbose.
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = true
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}

// execute runs cmd and then flushes spans and logs. Cobra skips post-run
// hooks when RunE fails, so the flush happens here on every path.
func execute(ctx context.Context, cmd *cobra.Command) error {
	err := cmd.ExecuteContext(ctx)
	flush()
	return err
}

func flush() {
	if shutdownTracer != nil {
		if err := shutdownTracer(context.Background()); err != nil {
			logger.Warn("flushing spans", zap.Error(err))
		}
		shutdownTracer = nil
	}
	_ = logger.Sync()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := execute(ctx, rootCmd)
	stop()
	if err != nil {
		// Stage failures already read "Error: ...".
		var failure *types.Failure
		if errors.As(err, &failure) {
			fmt.Fprintln(os.Stderr, failure.Error())
		} else {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
