package report_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/dukerupert/taxreport/internal/billing"
	"github.com/dukerupert/taxreport/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fixedClock pins the run inside January 2026 so every test reports Q4 2025.
func fixedClock() time.Time {
	return time.Date(2026, time.January, 10, 12, 0, 0, 0, time.UTC)
}

func fixtureProvider() *billing.MockProvider {
	m := billing.NewMockProvider()

	m.Invoices = []*billing.Invoice{
		{
			// Fully resolvable: state from customer profile, fee verified.
			ID:         "in_ca",
			CustomerID: "cus_ca",
			ChargeID:   "ch_ca",
			TaxCents:   1700,
			PaidAt:     time.Date(2025, time.October, 15, 8, 0, 0, 0, time.UTC),
			Lines: []billing.LineItem{
				{Type: billing.LineItemTypeSubscription, AmountCents: 20000, Quantity: 5},
			},
		},
		{
			// No state anywhere: must be skipped and counted.
			ID:           "in_nostate",
			CustomerID:   "cus_nostate",
			CustomerName: "Stateless Co",
			TaxCents:     100,
			PaidAt:       time.Date(2025, time.November, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			// Charge exists but its balance transaction cannot be resolved:
			// fee degrades to zero, row is still included.
			ID:              "in_feeless",
			CustomerID:      "cus_missing_profile",
			CustomerName:    "Feeless Inc",
			CustomerAddress: &billing.Address{State: "TX"},
			ChargeID:        "ch_feeless",
			TaxCents:        840,
			PaidAt:          time.Date(2025, time.November, 20, 0, 0, 0, 0, time.UTC),
			Lines: []billing.LineItem{
				{Type: billing.LineItemTypeSubscription, AmountCents: 10500, Quantity: 1},
			},
		},
		{
			// Customer fetch fails, but the embedded invoice address resolves.
			ID:              "in_custfail",
			CustomerID:      "cus_gone",
			CustomerName:    "Resilient LLC",
			CustomerAddress: &billing.Address{State: "TX"},
			ChargeID:        "ch_custfail",
			TaxCents:        1680,
			PaidAt:          time.Date(2025, time.December, 5, 0, 0, 0, 0, time.UTC),
			Lines: []billing.LineItem{
				{Type: billing.LineItemTypeSubscription, AmountCents: 21000, Quantity: 2},
			},
		},
	}

	m.Customers["cus_ca"] = &billing.Customer{
		ID:      "cus_ca",
		Name:    "Acme Corp",
		Address: &billing.Address{State: "CA"},
	}
	m.Customers["cus_nostate"] = &billing.Customer{ID: "cus_nostate", Name: "Stateless Co"}
	m.Customers["cus_missing_profile"] = &billing.Customer{ID: "cus_missing_profile", Name: "Feeless Inc"}
	// cus_gone intentionally absent.

	m.Charges["ch_ca"] = &billing.Charge{ID: "ch_ca", BalanceTransactionID: "txn_ca"}
	m.Charges["ch_feeless"] = &billing.Charge{ID: "ch_feeless", BalanceTransactionID: "txn_missing"}
	m.Charges["ch_custfail"] = &billing.Charge{ID: "ch_custfail", BalanceTransactionID: "txn_custfail"}

	m.BalanceTransactions["txn_ca"] = &billing.BalanceTransaction{ID: "txn_ca", FeeCents: 690}
	m.BalanceTransactions["txn_custfail"] = &billing.BalanceTransaction{ID: "txn_custfail", FeeCents: 533}
	// txn_missing intentionally absent.

	return m
}

func Test_Generator_Run(t *testing.T) {
	gen := report.NewGenerator(fixtureProvider(), discardLogger(), report.Options{
		Concurrency: 4,
		Now:         fixedClock,
	})

	doc, stats, err := gen.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Q4 2025", stats.Quarter.Label())
	assert.Equal(t, 4, stats.Invoices)
	assert.Equal(t, 3, stats.Rows)
	assert.Equal(t, 1, stats.Skipped, "the stateless invoice is skipped, not reported")
	assert.Equal(t, 1, stats.FeesMissing, "broken fee chain is counted")

	assert.Contains(t, doc, "CALIFORNIA (CA)")
	assert.Contains(t, doc, "TEXAS (TX)")
	assert.NotContains(t, doc, "Stateless Co")

	// Broken fee chain yields a 0.00 fee but keeps the row.
	assert.Contains(t, doc, "11/20/2025\tFeeless Inc\t1\t105.00\t8.40\t113.40\t0.00")

	// Customer fetch failure still resolves via the embedded invoice address.
	assert.Contains(t, doc, "12/05/2025\tResilient LLC\t2\t210.00\t16.80\t226.80\t5.33")
}

func Test_Generator_QuarterWindowPassedToProvider(t *testing.T) {
	m := fixtureProvider()
	gen := report.NewGenerator(m, discardLogger(), report.Options{Now: fixedClock})

	_, _, err := gen.Run(context.Background())

	require.NoError(t, err)
	require.NotEmpty(t, m.Calls())
	// [2025-10-01T00:00Z, 2026-01-01T00:00Z)
	assert.Equal(t, "ListPaidInvoices(1759276800, 1767225600)", m.Calls()[0])
}

func Test_Generator_ConcurrencyDoesNotChangeOutput(t *testing.T) {
	var docs []string
	for _, workers := range []int{1, 4, 16} {
		gen := report.NewGenerator(fixtureProvider(), discardLogger(), report.Options{
			Concurrency: workers,
			Now:         fixedClock,
		})
		doc, _, err := gen.Run(context.Background())
		require.NoError(t, err)
		docs = append(docs, doc)
	}

	assert.Equal(t, docs[0], docs[1])
	assert.Equal(t, docs[0], docs[2])
}

func Test_Generator_ListFailureAbortsRun(t *testing.T) {
	m := billing.NewMockProvider()
	m.ListPaidInvoicesFunc = func(ctx context.Context, start, end time.Time) ([]*billing.Invoice, error) {
		return nil, errors.New("stripe: api unreachable")
	}

	gen := report.NewGenerator(m, discardLogger(), report.Options{Now: fixedClock})

	doc, _, err := gen.Run(context.Background())

	require.Error(t, err)
	assert.Empty(t, doc, "no partial report on transport failure")
}

func Test_Generator_NoInvoicesStillProducesDocument(t *testing.T) {
	gen := report.NewGenerator(billing.NewMockProvider(), discardLogger(), report.Options{Now: fixedClock})

	doc, stats, err := gen.Run(context.Background())

	require.NoError(t, err)
	assert.Zero(t, stats.Rows)
	assert.True(t, strings.HasPrefix(doc, "TOTAL\t"), "grand-total-only document: %q", doc)
}
