package billing

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MockProvider is a mock payment provider for testing.
// Serves canned records without calling the Stripe API.
// Safe for concurrent use; the generator fans lookups out across goroutines.
type MockProvider struct {
	// ListPaidInvoicesFunc allows customizing the listing behavior
	ListPaidInvoicesFunc func(ctx context.Context, start, end time.Time) ([]*Invoice, error)

	// GetCustomerFunc allows customizing customer lookup behavior
	GetCustomerFunc func(ctx context.Context, id string) (*Customer, error)

	// GetChargeFunc allows customizing charge lookup behavior
	GetChargeFunc func(ctx context.Context, id string) (*Charge, error)

	// GetBalanceTransactionFunc allows customizing balance-transaction lookup behavior
	GetBalanceTransactionFunc func(ctx context.Context, id string) (*BalanceTransaction, error)

	// Invoices is returned by the default listing behavior
	Invoices []*Invoice

	// Customers, Charges, and BalanceTransactions back the default lookups
	Customers           map[string]*Customer
	Charges             map[string]*Charge
	BalanceTransactions map[string]*BalanceTransaction

	mu sync.Mutex

	// CallLog tracks method calls for test assertions
	CallLog []string
}

// NewMockProvider creates a new mock payment provider.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		Customers:           make(map[string]*Customer),
		Charges:             make(map[string]*Charge),
		BalanceTransactions: make(map[string]*BalanceTransaction),
		CallLog:             []string{},
	}
}

func (m *MockProvider) log(format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CallLog = append(m.CallLog, fmt.Sprintf(format, args...))
}

// Calls returns a copy of the call log.
func (m *MockProvider) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.CallLog))
	copy(out, m.CallLog)
	return out
}

// ListPaidInvoices returns the canned invoice set.
func (m *MockProvider) ListPaidInvoices(ctx context.Context, start, end time.Time) ([]*Invoice, error) {
	m.log("ListPaidInvoices(%d, %d)", start.Unix(), end.Unix())

	if m.ListPaidInvoicesFunc != nil {
		return m.ListPaidInvoicesFunc(ctx, start, end)
	}
	return m.Invoices, nil
}

// GetCustomer returns a canned customer or ErrNotFound.
func (m *MockProvider) GetCustomer(ctx context.Context, id string) (*Customer, error) {
	m.log("GetCustomer(%s)", id)

	if m.GetCustomerFunc != nil {
		return m.GetCustomerFunc(ctx, id)
	}
	if c, ok := m.Customers[id]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("customer %s: %w", id, ErrNotFound)
}

// GetCharge returns a canned charge or ErrNotFound.
func (m *MockProvider) GetCharge(ctx context.Context, id string) (*Charge, error) {
	m.log("GetCharge(%s)", id)

	if m.GetChargeFunc != nil {
		return m.GetChargeFunc(ctx, id)
	}
	if ch, ok := m.Charges[id]; ok {
		return ch, nil
	}
	return nil, fmt.Errorf("charge %s: %w", id, ErrNotFound)
}

// GetBalanceTransaction returns a canned balance transaction or ErrNotFound.
func (m *MockProvider) GetBalanceTransaction(ctx context.Context, id string) (*BalanceTransaction, error) {
	m.log("GetBalanceTransaction(%s)", id)

	if m.GetBalanceTransactionFunc != nil {
		return m.GetBalanceTransactionFunc(ctx, id)
	}
	if bt, ok := m.BalanceTransactions[id]; ok {
		return bt, nil
	}
	return nil, fmt.Errorf("balance transaction %s: %w", id, ErrNotFound)
}
