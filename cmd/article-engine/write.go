// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/article-engine/internal/pipeline"
	"github.com/pdiddy/article-engine/pkg/types"
)

var writeCmd = &cobra.Command{
	Use:   "write <topic>",
	Short: "Write one blog post for a topic",
	Long: `Write runs research, draft, and SEO refinement for the topic and prints the
final post. Arguments are joined with spaces to form the topic.

The text format prints the post, or the failure message when a stage failed.
The json and yaml formats print a report with every stage output and the
parsed title and meta description. The exit status is non-zero on failure.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWrite,
}

func init() {
	writeCmd.Flags().String("format", "text", "output format: text, json, or yaml")
	writeCmd.Flags().Bool("stages", false, "print each intermediate stage output as it completes (text format)")
	writeCmd.Flags().Int("max-tokens", 0, "override generation.max_tokens for this run")

	rootCmd.AddCommand(writeCmd)
}

func runWrite(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	showStages, _ := cmd.Flags().GetBool("stages")
	maxTokens, _ := cmd.Flags().GetInt("max-tokens")

	switch format {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("unknown format %q (use text, json, or yaml)", format)
	}

	p, _, err := buildPipeline(cmd.Context(), pipeline.WithMaxTokens(maxTokens))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	var hooks pipeline.Hooks
	if showStages && format == "text" {
		hooks.StageFinished = func(o types.StageOutput) {
			if o.OK() && o.Stage != types.StageRefine {
				fmt.Fprintf(out, "=== %s ===\n%s\n\n", o.Stage, strings.TrimSpace(o.Text))
			}
		}
	}

	topic := strings.Join(args, " ")
	report := p.RunReported(cmd.Context(), topic, hooks)

	if err := printReport(out, format, report); err != nil {
		return err
	}
	if report.Failed() {
		return report.Final.Failure
	}
	return nil
}

// printReport writes the report in the requested format.
func printReport(w io.Writer, format string, report *pipeline.Report) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return err
		}
		return enc.Close()
	default:
		if report.Failed() {
			return nil
		}
		_, err := fmt.Fprintln(w, report.Final.Text)
		return err
	}
}
