package report

import (
	"strings"

	"github.com/dukerupert/taxreport/internal/billing"
)

// StateSource tags which record supplied the taxing state for an invoice.
type StateSource int

const (
	SourceUnresolved StateSource = iota
	SourceCustomerProfile
	SourceBillingDetails
	SourceInvoiceAddress
)

func (s StateSource) String() string {
	switch s {
	case SourceCustomerProfile:
		return "customer_profile"
	case SourceBillingDetails:
		return "billing_details"
	case SourceInvoiceAddress:
		return "invoice_address"
	default:
		return "unresolved"
	}
}

// ResolveState determines the taxing state for an invoice via ordered
// fallback: customer profile address, then charge billing details, then
// the invoice's own embedded customer address. The first non-empty value
// wins; later sources are never consulted when an earlier one is present,
// even if they disagree. Customer and charge may be nil when their
// fetches failed independently.
//
// Returns the uppercased state code and its source, or ("", SourceUnresolved).
func ResolveState(inv *billing.Invoice, cust *billing.Customer, ch *billing.Charge) (string, StateSource) {
	sources := []struct {
		tag  StateSource
		addr func() *billing.Address
	}{
		{SourceCustomerProfile, func() *billing.Address {
			if cust == nil {
				return nil
			}
			return cust.Address
		}},
		{SourceBillingDetails, func() *billing.Address {
			if ch == nil {
				return nil
			}
			return ch.BillingAddress
		}},
		{SourceInvoiceAddress, func() *billing.Address {
			return inv.CustomerAddress
		}},
	}

	for _, src := range sources {
		addr := src.addr()
		if addr == nil {
			continue
		}
		if state := strings.ToUpper(strings.TrimSpace(addr.State)); state != "" {
			return state, src.tag
		}
	}
	return "", SourceUnresolved
}
