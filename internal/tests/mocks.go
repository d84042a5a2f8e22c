package tests

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"funnelpay/internal/domain"
)

// ──────────────────────────────────────────────
// MOCK PAYMENT PROCESSOR
// ──────────────────────────────────────────────

// MockProcessor is a mock implementation of service.Processor.
type MockProcessor struct {
	mu               sync.Mutex
	customersByEmail map[string]*domain.Customer
	customersByID    map[string]*domain.Customer
	outcomes         map[string]domain.PaymentOutcome

	// Counters for verification
	FindCustomerCalls   int32
	CreateCustomerCalls int32
	AttachCalls         int32
	SetDefaultCalls     int32
	ChargeCalls         int32
	GetCustomerCalls    int32
	GetOutcomeCalls     int32
	SessionCalls        int32

	// Error injection
	FindCustomerError   error
	CreateCustomerError error
	AttachError         error
	SetDefaultError     error
	ChargeError         error
	SessionError        error

	// Canned results
	ChargeOutcome domain.PaymentOutcome
	SessionResult domain.CheckoutSession

	// Captured arguments
	LastCharge  domain.ChargeRequest
	LastSession domain.CheckoutSessionRequest
}

// NewMockProcessor creates a new mock processor.
func NewMockProcessor() *MockProcessor {
	return &MockProcessor{
		customersByEmail: make(map[string]*domain.Customer),
		customersByID:    make(map[string]*domain.Customer),
		outcomes:         make(map[string]domain.PaymentOutcome),
	}
}

// AddCustomer seeds a customer into the mock processor.
func (m *MockProcessor) AddCustomer(c *domain.Customer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.customersByEmail[c.Email] = c
	m.customersByID[c.ID] = c
}

// AddOutcome seeds a payment outcome retrievable by intent id.
func (m *MockProcessor) AddOutcome(o domain.PaymentOutcome) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes[o.ID] = o
}

func (m *MockProcessor) FindCustomerByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	atomic.AddInt32(&m.FindCustomerCalls, 1)
	if m.FindCustomerError != nil {
		return nil, m.FindCustomerError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.customersByEmail[email]
	if !ok {
		return nil, nil
	}
	copy := *c
	return &copy, nil
}

func (m *MockProcessor) CreateCustomer(ctx context.Context, email, name string) (*domain.Customer, error) {
	atomic.AddInt32(&m.CreateCustomerCalls, 1)
	if m.CreateCustomerError != nil {
		return nil, m.CreateCustomerError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c := &domain.Customer{
		ID:    fmt.Sprintf("cus_mock_%d", len(m.customersByID)+1),
		Email: email,
		Name:  name,
	}
	m.customersByEmail[email] = c
	m.customersByID[c.ID] = c
	copy := *c
	return &copy, nil
}

func (m *MockProcessor) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	atomic.AddInt32(&m.GetCustomerCalls, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.customersByID[id]
	if !ok {
		return nil, fmt.Errorf("no such customer: %s", id)
	}
	copy := *c
	return &copy, nil
}

func (m *MockProcessor) AttachPaymentMethod(ctx context.Context, paymentMethodID, customerID string) error {
	atomic.AddInt32(&m.AttachCalls, 1)
	return m.AttachError
}

func (m *MockProcessor) SetDefaultPaymentMethod(ctx context.Context, customerID, paymentMethodID string) error {
	atomic.AddInt32(&m.SetDefaultCalls, 1)
	return m.SetDefaultError
}

func (m *MockProcessor) Charge(ctx context.Context, req domain.ChargeRequest) (domain.PaymentOutcome, error) {
	atomic.AddInt32(&m.ChargeCalls, 1)
	m.mu.Lock()
	m.LastCharge = req
	m.mu.Unlock()
	if m.ChargeError != nil {
		return domain.PaymentOutcome{}, m.ChargeError
	}
	return m.ChargeOutcome, nil
}

func (m *MockProcessor) GetPaymentOutcome(ctx context.Context, paymentIntentID string) (domain.PaymentOutcome, error) {
	atomic.AddInt32(&m.GetOutcomeCalls, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.outcomes[paymentIntentID]
	if !ok {
		return domain.PaymentOutcome{}, fmt.Errorf("no such payment intent: %s", paymentIntentID)
	}
	return o, nil
}

func (m *MockProcessor) CreateCheckoutSession(ctx context.Context, req domain.CheckoutSessionRequest) (domain.CheckoutSession, error) {
	atomic.AddInt32(&m.SessionCalls, 1)
	m.mu.Lock()
	m.LastSession = req
	m.mu.Unlock()
	if m.SessionError != nil {
		return domain.CheckoutSession{}, m.SessionError
	}
	return m.SessionResult, nil
}

// ──────────────────────────────────────────────
// MOCK ROW STORE
// ──────────────────────────────────────────────

// MockRowStore is a mock implementation of service.RowStore.
type MockRowStore struct {
	mu   sync.Mutex
	rows [][]string

	AppendCalls int32
	AppendError error
}

// NewMockRowStore creates a new mock row store.
func NewMockRowStore() *MockRowStore {
	return &MockRowStore{}
}

func (m *MockRowStore) AppendRow(ctx context.Context, values []string) error {
	atomic.AddInt32(&m.AppendCalls, 1)
	if m.AppendError != nil {
		return m.AppendError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	row := make([]string, len(values))
	copy(row, values)
	m.rows = append(m.rows, row)
	return nil
}

// Rows returns a snapshot of the appended rows.
func (m *MockRowStore) Rows() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]string, len(m.rows))
	for i, r := range m.rows {
		row := make([]string, len(r))
		copy(row, r)
		out[i] = row
	}
	return out
}
