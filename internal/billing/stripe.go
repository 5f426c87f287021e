package billing

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/client"

	"github.com/dukerupert/taxreport/internal/domain"
)

// invoicePageSize is Stripe's maximum page size; the iterator drains
// every page regardless.
const invoicePageSize = 100

// StripeProvider implements Provider using the Stripe Go SDK.
//
// Pinned to the v72 API surface: the fee lookup chain needs
// invoice.charge and the direct invoice.tax field, both of which later
// API versions moved off the invoice object.
type StripeProvider struct {
	api *client.API
}

// NewStripeProvider creates a Stripe-backed provider.
func NewStripeProvider(apiKey string) (*StripeProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrInvalidAPIKey
	}
	api := &client.API{}
	api.Init(apiKey, nil)
	return &StripeProvider{api: api}, nil
}

// ListPaidInvoices fetches every paid invoice created in [start, end),
// following pagination until the listing is exhausted.
func (p *StripeProvider) ListPaidInvoices(ctx context.Context, start, end time.Time) ([]*Invoice, error) {
	params := &stripe.InvoiceListParams{
		Status: stripe.String(string(stripe.InvoiceStatusPaid)),
		CreatedRange: &stripe.RangeQueryParams{
			GreaterThanOrEqual: start.Unix(),
			LesserThan:         end.Unix(),
		},
	}
	params.Context = ctx
	params.Limit = stripe.Int64(invoicePageSize)

	var invoices []*Invoice
	it := p.api.Invoices.List(params)
	for it.Next() {
		invoices = append(invoices, invoiceFromStripe(it.Invoice()))
	}
	if err := it.Err(); err != nil {
		return nil, wrapStripeErr(err, "billing.list_invoices")
	}
	return invoices, nil
}

// GetCustomer retrieves a customer by ID.
func (p *StripeProvider) GetCustomer(ctx context.Context, id string) (*Customer, error) {
	params := &stripe.CustomerParams{Params: stripe.Params{Context: ctx}}
	c, err := p.api.Customers.Get(id, params)
	if err != nil {
		return nil, wrapStripeErr(err, "billing.get_customer")
	}
	return customerFromStripe(c), nil
}

// GetCharge retrieves a charge by ID.
func (p *StripeProvider) GetCharge(ctx context.Context, id string) (*Charge, error) {
	params := &stripe.ChargeParams{Params: stripe.Params{Context: ctx}}
	ch, err := p.api.Charges.Get(id, params)
	if err != nil {
		return nil, wrapStripeErr(err, "billing.get_charge")
	}
	return chargeFromStripe(ch), nil
}

// GetBalanceTransaction retrieves a balance transaction by ID.
func (p *StripeProvider) GetBalanceTransaction(ctx context.Context, id string) (*BalanceTransaction, error) {
	params := &stripe.BalanceTransactionParams{Params: stripe.Params{Context: ctx}}
	bt, err := p.api.BalanceTransaction.Get(id, params)
	if err != nil {
		return nil, wrapStripeErr(err, "billing.get_balance_transaction")
	}
	return balanceTransactionFromStripe(bt), nil
}

// wrapStripeErr maps SDK errors onto the domain error taxonomy.
// Missing records come back as ErrNotFound so callers can degrade
// instead of aborting the run.
func wrapStripeErr(err error, op string) error {
	var sErr *stripe.Error
	if errors.As(err, &sErr) {
		wrapped := &StripeError{
			Message:       sErr.Msg,
			Code:          string(sErr.Code),
			RequestID:     sErr.RequestID,
			StatusCode:    sErr.HTTPStatusCode,
			OriginalError: err,
		}
		switch sErr.HTTPStatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return domain.WrapError(wrapped, domain.EUNAUTHORIZED, op, "payment API rejected the credentials")
		case http.StatusNotFound:
			return domain.WrapError(ErrNotFound, domain.ENOTFOUND, op, wrapped.Error())
		}
		return domain.WrapError(wrapped, domain.EUNAVAILABLE, op, "payment API request failed")
	}
	return domain.WrapError(err, domain.EUNAVAILABLE, op, "payment API unreachable")
}

func invoiceFromStripe(inv *stripe.Invoice) *Invoice {
	out := &Invoice{
		ID:              inv.ID,
		CustomerAddress: addressFromStripe(inv.CustomerAddress),
		Status:          string(inv.Status),
		CreatedAt:       time.Unix(inv.Created, 0).UTC(),
		TaxCents:        inv.Tax,
	}
	if inv.CustomerName != nil {
		out.CustomerName = *inv.CustomerName
	}
	if inv.Customer != nil {
		out.CustomerID = inv.Customer.ID
	}
	if inv.Charge != nil {
		out.ChargeID = inv.Charge.ID
	}
	if inv.StatusTransitions.PaidAt > 0 {
		out.PaidAt = time.Unix(inv.StatusTransitions.PaidAt, 0).UTC()
	}
	if inv.Lines != nil {
		for _, line := range inv.Lines.Data {
			out.Lines = append(out.Lines, LineItem{
				ID:          line.ID,
				Type:        LineItemType(line.Type),
				AmountCents: line.Amount,
				Quantity:    line.Quantity,
			})
		}
	}
	return out
}

func customerFromStripe(c *stripe.Customer) *Customer {
	return &Customer{
		ID:      c.ID,
		Name:    c.Name,
		Address: addressFromStripe(&c.Address),
	}
}

func chargeFromStripe(ch *stripe.Charge) *Charge {
	out := &Charge{ID: ch.ID}
	if ch.BalanceTransaction != nil {
		out.BalanceTransactionID = ch.BalanceTransaction.ID
	}
	if ch.BillingDetails != nil {
		out.BillingAddress = addressFromStripe(ch.BillingDetails.Address)
	}
	return out
}

func balanceTransactionFromStripe(bt *stripe.BalanceTransaction) *BalanceTransaction {
	return &BalanceTransaction{
		ID:       bt.ID,
		FeeCents: bt.Fee,
	}
}

func addressFromStripe(a *stripe.Address) *Address {
	if a == nil {
		return nil
	}
	return &Address{
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}
}
