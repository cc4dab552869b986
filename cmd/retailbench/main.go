// Command retailbench runs scripted retail evaluations of conversational
// agents and reports the results.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/retailbench/retailbench/internal/executor"
	"github.com/retailbench/retailbench/internal/models"
	"github.com/retailbench/retailbench/internal/report"
	"github.com/retailbench/retailbench/internal/scenario"
)

func main() {
	root := &cobra.Command{
		Use:           "retailbench",
		Short:         "Evaluate conversational agents against scripted retail scenarios",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(runCmd(), scenariosCmd(), reportCmd())

	if err := root.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   "run <batch.yaml>",
		Short: "Run an evaluation batch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configureLogging(logLevel)

			// Manual signal handling so a second interrupt still kills the
			// process while trials drain.
			ctx, cancel := context.WithCancel(cmd.Context())
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
			defer func() {
				signal.Stop(sigChan)
				cancel()
			}()
			go func() {
				sig := <-sigChan
				slog.Info("interrupt received, shutting down gracefully...", "signal", sig)
				cancel()
			}()

			result, err := executor.RunFromConfig(ctx, args[0])
			if err != nil {
				return err
			}

			printSummary(cmd, result)

			if result.Cancelled {
				return fmt.Errorf("batch cancelled before all trials ran")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	return cmd
}

func printSummary(cmd *cobra.Command, result *models.BatchResult) {
	out := cmd.OutOrStdout()
	performance := result.Performance()

	fmt.Fprintf(out, "\nEvaluation: %s\n", result.EvaluationID)
	fmt.Fprintf(out, "Total conversations: %d\n", result.TotalConversations)
	fmt.Fprintf(out, "Success rate: %.2f%%\n", performance.OverallSuccessRate*100)
	fmt.Fprintf(out, "Avg turns: %.1f\n", performance.AvgTurns)
	fmt.Fprintf(out, "Duration: %.2fs\n", result.DurationSec)

	for _, model := range result.Models {
		summary := result.ByModel[model]
		fmt.Fprintf(out, "  %s: %d/%d successful, %d violations, %d errored\n",
			model, summary.Successes, summary.TotalTrials, summary.TotalViolations, summary.FailedTrials)
	}
}

func scenariosCmd() *cobra.Command {
	var dirs []string

	cmd := &cobra.Command{
		Use:   "scenarios",
		Short: "List available evaluation scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog := scenario.Builtin()
			for _, dir := range dirs {
				loaded, err := scenario.LoadDir(dir)
				if err != nil {
					return err
				}
				for _, s := range loaded {
					if err := catalog.Add(s); err != nil {
						return err
					}
				}
			}

			out := cmd.OutOrStdout()
			for _, s := range catalog.Summaries() {
				fmt.Fprintf(out, "%s  [%s]  %s\n", s.ID, s.Complexity, s.Title)
				if len(s.ExpectedTools) > 0 {
					fmt.Fprintf(out, "    tools: %s\n", strings.Join(s.ExpectedTools, ", "))
				}
				if len(s.PolicyFocus) > 0 {
					fmt.Fprintf(out, "    policy focus: %s\n", strings.Join(s.PolicyFocus, ", "))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&dirs, "dir", nil, "additional scenario directories to load")
	return cmd
}

func reportCmd() *cobra.Command {
	var detailed bool
	var jsonOut string

	cmd := &cobra.Command{
		Use:   "report <result.json>",
		Short: "Render a saved batch result as a readable report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading batch result: %w", err)
			}
			var result models.BatchResult
			if err := json.Unmarshal(raw, &result); err != nil {
				return fmt.Errorf("decoding batch result: %w", err)
			}

			if jsonOut != "" {
				if err := report.SaveJSON(&result, jsonOut); err != nil {
					return err
				}
			}

			if detailed {
				fmt.Fprintln(cmd.OutOrStdout(), report.Detailed(&result))
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), report.Summary(&result))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&detailed, "detailed", false, "include per-trial breakdowns")
	cmd.Flags().StringVar(&jsonOut, "json", "", "also write the enriched JSON export to this path")
	return cmd
}

func configureLogging(level string) {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})))
}
