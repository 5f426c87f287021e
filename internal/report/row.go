package report

import (
	"fmt"
	"time"

	"github.com/dukerupert/taxreport/internal/billing"
)

// unknownCustomer is the display-name placeholder when neither the invoice
// nor the fetched customer carries a name. A tax report still needs the row.
const unknownCustomer = "(unknown customer)"

// Row is one normalized report line. All amounts are kept in minor units
// (cents) until rendering so that accumulation never touches floating point.
type Row struct {
	Date         time.Time
	Customer     string
	Users        int64
	LicenseCents int64
	TaxCents     int64
	TotalCents   int64
	FeeCents     int64
	State        string
}

// SkipError marks an invoice that cannot contribute a row.
type SkipError struct {
	InvoiceID string
	Reason    string
}

func (e *SkipError) Error() string {
	return fmt.Sprintf("invoice %s skipped: %s", e.InvoiceID, e.Reason)
}

// NewRow converts one invoice (plus its resolved state and processing fee)
// into a report row, or returns a SkipError when the state is unresolved.
//
// Only subscription-tagged line items contribute to the user count and
// license revenue. An invoice with no subscription lines but a resolved
// state still yields a degenerate row: tax collected on it must appear in
// the report. Total is always derived as licenses + tax.
func NewRow(inv *billing.Invoice, cust *billing.Customer, state string, feeCents int64) (Row, error) {
	if state == "" {
		return Row{}, &SkipError{
			InvoiceID: inv.ID,
			Reason:    "no state in customer profile, billing details, or invoice address",
		}
	}

	var users, licenseCents int64
	for _, line := range inv.Lines {
		if line.Type != billing.LineItemTypeSubscription {
			continue
		}
		users += line.Quantity
		licenseCents += line.AmountCents
	}

	return Row{
		Date:         inv.EffectivePaidAt(),
		Customer:     displayName(inv, cust),
		Users:        users,
		LicenseCents: licenseCents,
		TaxCents:     inv.TaxCents,
		TotalCents:   licenseCents + inv.TaxCents,
		FeeCents:     feeCents,
		State:        state,
	}, nil
}

// displayName picks the customer name for the row: the invoice's embedded
// name, then the fetched customer's name, then a placeholder.
func displayName(inv *billing.Invoice, cust *billing.Customer) string {
	if inv.CustomerName != "" {
		return inv.CustomerName
	}
	if cust != nil && cust.Name != "" {
		return cust.Name
	}
	return unknownCustomer
}
