package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/spec-kit/support-agent/internal/auth"
	"github.com/spec-kit/support-agent/internal/evaluation"
	"github.com/spec-kit/support-agent/internal/guardrail"
)

var (
	casesPath  string
	apiURL     string
	reportPath string
	maxWords   int
	apiKey     string
	timeout    time.Duration
	bcryptCost int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Replay test tickets against the suggest API",
		Long:  `Posts every case of a JSONL file to /suggest, checks policy, length, forbidden phrases, Sie-form and review flags, and writes a CSV report.`,
		RunE:  runEvaluate,
	}
	rootCmd.Flags().StringVar(&casesPath, "cases", "eval/test_tickets.jsonl", "JSONL case file")
	rootCmd.Flags().StringVar(&apiURL, "api", "http://127.0.0.1:8000/suggest", "Suggest endpoint URL")
	rootCmd.Flags().StringVar(&reportPath, "report", "eval/report.csv", "CSV report path")
	rootCmd.Flags().IntVar(&maxWords, "max-words", guardrail.DefaultWordLimit, "Word limit per reply")
	rootCmd.Flags().StringVar(&apiKey, "api-key", os.Getenv("API_KEY"), "API key sent as X-API-Key")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 60*time.Second, "Per-request timeout")

	rootCmd.AddCommand(newHashKeyCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newHashKeyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hash-key <key>",
		Short: "Print a bcrypt hash for API_KEY_HASH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := auth.HashAPIKey(args[0], bcryptCost)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
	cmd.Flags().IntVar(&bcryptCost, "cost", 0, "bcrypt cost (default library cost)")
	return cmd
}

func runEvaluate(cmd *cobra.Command, _ []string) error {
	f, err := os.Open(casesPath)
	if err != nil {
		return fmt.Errorf("test file not found: %w", err)
	}
	defer f.Close()

	cases, err := evaluation.LoadCases(f)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	evaluator := evaluation.NewEvaluator(evaluation.NewHTTPClient(apiURL, apiKey, timeout), maxWords)
	results := evaluator.Run(context.Background(), cases, out)

	if err := os.MkdirAll(filepath.Dir(reportPath), 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	report, err := os.Create(reportPath)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer report.Close()
	if err := evaluation.WriteCSV(report, results); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	evaluation.Summarize(results).Print(out, reportPath)
	return nil
}
