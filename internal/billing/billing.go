package billing

import (
	"context"
	"time"
)

// Provider defines the read-side interface to the payment processor.
// The report only ever reads: a paid-invoice listing plus point lookups
// for the records hanging off each invoice.
type Provider interface {
	// ListPaidInvoices returns every paid invoice created in [start, end).
	// The listing is fully drained before returning; a partial page is an error.
	ListPaidInvoices(ctx context.Context, start, end time.Time) ([]*Invoice, error)

	// GetCustomer retrieves a customer by ID.
	GetCustomer(ctx context.Context, id string) (*Customer, error)

	// GetCharge retrieves a charge by ID. The charge carries the
	// balance-transaction reference and the billing-details address.
	GetCharge(ctx context.Context, id string) (*Charge, error)

	// GetBalanceTransaction retrieves a balance transaction by ID.
	// Its fee is the processing fee for the associated charge.
	GetBalanceTransaction(ctx context.Context, id string) (*BalanceTransaction, error)
}

// Address represents a postal address on a payment record.
type Address struct {
	Line1      string
	Line2      string
	City       string
	State      string
	PostalCode string
	Country    string
}

// LineItemType tags an invoice line item.
type LineItemType string

const (
	LineItemTypeSubscription LineItemType = "subscription"
	LineItemTypeInvoiceItem  LineItemType = "invoiceitem"
)

// LineItem is a single invoice line. Amounts are in minor units (cents).
type LineItem struct {
	ID          string
	Type        LineItemType
	AmountCents int64
	Quantity    int64
}

// Invoice is one paid invoice as fetched from the payment processor.
// Immutable once fetched; amounts are in minor units.
type Invoice struct {
	ID              string
	CustomerID      string
	CustomerName    string
	CustomerAddress *Address
	ChargeID        string
	Status          string
	CreatedAt       time.Time
	PaidAt          time.Time // zero when the processor did not record it
	TaxCents        int64
	Lines           []LineItem
}

// EffectivePaidAt returns the payment timestamp, falling back to the
// creation timestamp when the processor did not record one.
func (inv *Invoice) EffectivePaidAt() time.Time {
	if !inv.PaidAt.IsZero() {
		return inv.PaidAt
	}
	return inv.CreatedAt
}

// Customer is a billing customer.
type Customer struct {
	ID      string
	Name    string
	Address *Address
}

// Charge links an invoice to its balance transaction and carries the
// billing-details address used as a fallback state source.
type Charge struct {
	ID                   string
	BalanceTransactionID string
	BillingAddress       *Address
}

// BalanceTransaction carries the processing fee, in minor units.
type BalanceTransaction struct {
	ID       string
	FeeCents int64
}
