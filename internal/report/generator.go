package report

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/dukerupert/taxreport/internal/billing"
)

// Options configures a report run.
type Options struct {
	// Concurrency bounds the per-invoice enrichment pool.
	Concurrency int

	// Now supplies the clock; defaults to time.Now.
	Now func() time.Time
}

// Stats summarizes a completed run for end-of-run reporting.
type Stats struct {
	Quarter     Quarter
	Invoices    int
	Rows        int
	Skipped     int
	FeesMissing int
}

// Generator runs the full report pipeline: previous-quarter window,
// paid-invoice listing, bounded concurrent enrichment, and rendering.
type Generator struct {
	provider billing.Provider
	logger   *slog.Logger
	opts     Options
}

// NewGenerator creates a report generator.
func NewGenerator(provider billing.Provider, logger *slog.Logger, opts Options) *Generator {
	// Set defaults
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Generator{
		provider: provider,
		logger:   logger,
		opts:     opts,
	}
}

// Run produces the report document for the previous fiscal quarter.
// A listing failure aborts the run; per-invoice failures only degrade or
// skip that invoice. Rendering starts only after every invoice finished,
// so the document is always emitted as a complete unit.
func (g *Generator) Run(ctx context.Context) (string, Stats, error) {
	quarter := PreviousQuarter(g.opts.Now())
	stats := Stats{Quarter: quarter}

	g.logger.Info("fetching paid invoices",
		"quarter", quarter.Label(),
		"start", quarter.Start.Format(time.DateOnly),
		"end", quarter.LastDay().Format(time.DateOnly),
	)

	invoices, err := g.provider.ListPaidInvoices(ctx, quarter.Start, quarter.End)
	if err != nil {
		return "", stats, err
	}
	stats.Invoices = len(invoices)
	g.logger.Info("retrieved invoices", "count", len(invoices))

	var (
		mu   sync.Mutex
		rows []Row
		wg   sync.WaitGroup
	)

	// Semaphore for concurrency control; each invoice's enrichment is
	// independent, so fetch order carries no meaning. Ordering is imposed
	// later by the builder.
	sem := make(chan struct{}, g.opts.Concurrency)

	for _, inv := range invoices {
		wg.Add(1)
		sem <- struct{}{}
		go func(inv *billing.Invoice) {
			defer wg.Done()
			defer func() { <-sem }()

			row, feeKnown, err := g.enrich(ctx, inv)

			mu.Lock()
			defer mu.Unlock()

			var skip *SkipError
			if errors.As(err, &skip) {
				stats.Skipped++
				g.logger.Warn("skipping invoice", "invoice", skip.InvoiceID, "reason", skip.Reason)
				return
			}
			if err != nil {
				stats.Skipped++
				g.logger.Warn("skipping invoice", "invoice", inv.ID, "error", err)
				return
			}
			if !feeKnown {
				stats.FeesMissing++
			}
			rows = append(rows, row)
		}(inv)
	}
	wg.Wait()

	stats.Rows = len(rows)
	g.logger.Info("report complete",
		"quarter", quarter.Label(),
		"rows", stats.Rows,
		"skipped", stats.Skipped,
		"fees_missing", stats.FeesMissing,
	)

	return Build(rows), stats, nil
}

// enrich resolves one invoice's related records and builds its row.
// The customer fetch may fail without sinking the invoice: the embedded
// invoice address can still resolve the state. A broken fee chain reports
// a zero fee (feeKnown=false distinguishes it from a verified zero).
func (g *Generator) enrich(ctx context.Context, inv *billing.Invoice) (Row, bool, error) {
	var cust *billing.Customer
	if inv.CustomerID != "" {
		c, err := g.provider.GetCustomer(ctx, inv.CustomerID)
		if err != nil {
			g.logger.Warn("customer lookup failed",
				"invoice", inv.ID,
				"customer", inv.CustomerID,
				"error", err,
			)
		} else {
			cust = c
		}
	}

	var (
		ch       *billing.Charge
		feeCents int64
		feeKnown bool
	)
	if inv.ChargeID != "" {
		charge, err := g.provider.GetCharge(ctx, inv.ChargeID)
		if err != nil {
			g.logger.Debug("charge lookup failed", "invoice", inv.ID, "charge", inv.ChargeID, "error", err)
		} else {
			ch = charge
			if charge.BalanceTransactionID != "" {
				bt, err := g.provider.GetBalanceTransaction(ctx, charge.BalanceTransactionID)
				if err != nil {
					g.logger.Debug("balance transaction lookup failed",
						"invoice", inv.ID,
						"balance_transaction", charge.BalanceTransactionID,
						"error", err,
					)
				} else {
					feeCents = bt.FeeCents
					feeKnown = true
				}
			}
		}
	}
	if !feeKnown {
		g.logger.Debug("fee unavailable, reporting zero", "invoice", inv.ID)
	}

	state, source := ResolveState(inv, cust, ch)
	row, err := NewRow(inv, cust, state, feeCents)
	if err != nil {
		return Row{}, feeKnown, err
	}

	g.logger.Debug("invoice enriched",
		"invoice", inv.ID,
		"state", state,
		"state_source", source.String(),
	)
	return row, feeKnown, nil
}
