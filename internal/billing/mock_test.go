package billing_test

import (
	"context"
	"testing"
	"time"

	"github.com/dukerupert/taxreport/internal/billing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_MockProvider_Defaults(t *testing.T) {
	m := billing.NewMockProvider()
	m.Invoices = []*billing.Invoice{{ID: "in_1"}}
	m.Customers["cus_1"] = &billing.Customer{ID: "cus_1", Name: "Acme"}

	ctx := context.Background()

	invoices, err := m.ListPaidInvoices(ctx, time.Now().Add(-time.Hour), time.Now())
	require.NoError(t, err)
	assert.Len(t, invoices, 1)

	cust, err := m.GetCustomer(ctx, "cus_1")
	require.NoError(t, err)
	assert.Equal(t, "Acme", cust.Name)

	_, err = m.GetCustomer(ctx, "cus_absent")
	assert.ErrorIs(t, err, billing.ErrNotFound)

	_, err = m.GetCharge(ctx, "ch_absent")
	assert.ErrorIs(t, err, billing.ErrNotFound)

	_, err = m.GetBalanceTransaction(ctx, "txn_absent")
	assert.ErrorIs(t, err, billing.ErrNotFound)

	calls := m.Calls()
	require.Len(t, calls, 5)
	assert.Equal(t, "GetCustomer(cus_1)", calls[1])
}

func Test_MockProvider_Overrides(t *testing.T) {
	m := billing.NewMockProvider()
	m.GetChargeFunc = func(ctx context.Context, id string) (*billing.Charge, error) {
		return &billing.Charge{ID: id, BalanceTransactionID: "txn_x"}, nil
	}

	ch, err := m.GetCharge(context.Background(), "ch_any")

	require.NoError(t, err)
	assert.Equal(t, "txn_x", ch.BalanceTransactionID)
}
