package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/dukerupert/taxreport/internal"
	"github.com/dukerupert/taxreport/internal/billing"
	"github.com/dukerupert/taxreport/internal/console"
	"github.com/dukerupert/taxreport/internal/report"
)

var concurrency int

func main() {
	root := &cobra.Command{
		Use:           "taxreport",
		Short:         "Generate quarterly sales tax reports from Stripe invoices",
		RunE:          runGenerate,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().IntVarP(&concurrency, "concurrency", "c", 0,
		"maximum parallel invoice lookups (defaults to WORKER_CONCURRENCY)")

	root.AddCommand(&cobra.Command{
		Use:   "generate",
		Short: "Generate the report for the previous fiscal quarter",
		Long: "Fetches paid invoices for the previous fiscal quarter, resolves each " +
			"invoice's taxing state, and writes a tab-delimited report to stdout " +
			"grouped by state with subtotals and a grand total.",
		RunE: runGenerate,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		console.Errorf("%v", err)
		os.Exit(1)
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Logs go to stderr; stdout carries only the report.
	logger := internal.NewLogger(os.Stderr, cfg.Env, cfg.LogLevel)

	provider, err := billing.NewStripeProvider(cfg.Stripe.APIKey)
	if err != nil {
		return fmt.Errorf("stripe client initialization failed: %w", err)
	}

	workers := cfg.Concurrency
	if concurrency > 0 {
		workers = concurrency
	}

	gen := report.NewGenerator(provider, logger, report.Options{Concurrency: workers})

	console.Statusf("Generating report for the previous fiscal quarter")
	doc, stats, err := gen.Run(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Print(doc)

	console.Successf("%s: %d invoices, %d rows, %d skipped",
		stats.Quarter.Label(), stats.Invoices, stats.Rows, stats.Skipped)
	if stats.FeesMissing > 0 {
		console.Warnf("%d invoice(s) reported without a verified processing fee", stats.FeesMissing)
	}
	return nil
}
