package order

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockOrderRepo struct {
	orders map[string]*Order
	lines  map[string]*Line

	createErr error
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{
		orders: make(map[string]*Order),
		lines:  make(map[string]*Line),
	}
}

func (m *mockOrderRepo) Create(_ context.Context, o *Order) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.orders[o.ID] = o
	return nil
}

func (m *mockOrderRepo) Get(_ context.Context, id string) (*Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	o.Lines = o.Lines[:0]
	for _, l := range m.lines {
		if l.OrderID == id {
			o.Lines = append(o.Lines, l)
		}
	}
	return o, nil
}

func (m *mockOrderRepo) Update(_ context.Context, o *Order) error {
	m.orders[o.ID] = o
	return nil
}

func (m *mockOrderRepo) CreateLine(_ context.Context, l *Line) error {
	m.lines[l.ID] = l
	return nil
}

func (m *mockOrderRepo) GetLine(_ context.Context, id string) (*Line, error) {
	l, ok := m.lines[id]
	if !ok {
		return nil, ErrNotFound
	}
	return l, nil
}

func (m *mockOrderRepo) UpdateLine(_ context.Context, l *Line) error {
	m.lines[l.ID] = l
	return nil
}

func newTestService(repo *mockOrderRepo) *Service {
	return NewService(repo, &mockPriceSource{})
}

func createDraft(t *testing.T, svc *Service) *Order {
	t.Helper()
	o, err := svc.CreateOrder(context.Background(), CreateOrderRequest{
		Code:    "SO-TEST-000001",
		Channel: "WEBSITE",
	})
	require.NoError(t, err)
	return o
}

func TestCreateOrder(t *testing.T) {
	repo := newMockOrderRepo()
	o := createDraft(t, newTestService(repo))

	assert.Equal(t, StateDraft, o.State)
	assert.True(t, o.AmountTotal.IsZero())
	assert.Contains(t, repo.orders, o.ID)
}

func TestCreateOrder_Validation(t *testing.T) {
	svc := newTestService(newMockOrderRepo())

	_, err := svc.CreateOrder(context.Background(), CreateOrderRequest{Channel: "WEBSITE"})
	require.ErrorIs(t, err, ErrCodeRequired)

	_, err = svc.CreateOrder(context.Background(), CreateOrderRequest{Code: "SO-1"})
	require.ErrorIs(t, err, ErrChannelRequired)
}

func TestAddLine_ComputesAndPersists(t *testing.T) {
	repo := newMockOrderRepo()
	svc := newTestService(repo)
	o := createDraft(t, svc)

	line, err := svc.AddLine(context.Background(), o.ID, LineRequest{
		ItemID:    "TEST",
		Quantity:  1,
		UnitPrice: d("100"),
		UnitTax:   d("20"),
	})
	require.NoError(t, err)

	assert.True(t, d("83.33").Equal(line.UnitPriceUntaxed))
	assert.True(t, d("0.2").Equal(line.UnitTax))
	assert.Contains(t, repo.lines, line.ID)
}

func TestAddLine_InvalidQuantity(t *testing.T) {
	svc := newTestService(newMockOrderRepo())
	o := createDraft(t, svc)

	_, err := svc.AddLine(context.Background(), o.ID, LineRequest{ItemID: "TEST", Quantity: 0})
	require.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestAddLine_ComputeFailureNotPersisted(t *testing.T) {
	repo := newMockOrderRepo()
	svc := newTestService(repo)
	o := createDraft(t, svc)

	_, err := svc.AddLine(context.Background(), o.ID, LineRequest{ItemID: "TEST", Quantity: 1})
	require.Error(t, err)
	assert.EqualError(t, err, "Can not find a strategy to compute price")
	assert.Empty(t, repo.lines)
}

func TestUpdateLine_Recomputes(t *testing.T) {
	repo := newMockOrderRepo()
	svc := newTestService(repo)
	o := createDraft(t, svc)

	line, err := svc.AddLine(context.Background(), o.ID, LineRequest{
		ItemID:    "TEST",
		Quantity:  1,
		UnitPrice: d("100"),
		UnitTax:   d("20"),
	})
	require.NoError(t, err)

	updated, err := svc.UpdateLine(context.Background(), line.ID, LineRequest{
		ItemID:    "TEST",
		Quantity:  2,
		UnitPrice: d("100"),
		UnitTax:   d("20"),
	})
	require.NoError(t, err)

	assert.True(t, d("200").Equal(updated.AmountTotal))
	assert.True(t, d("166.66").Equal(updated.AmountUntaxed))
	assert.True(t, d("33.34").Equal(updated.AmountTax))
}

func TestRecomputeTotals(t *testing.T) {
	repo := newMockOrderRepo()
	svc := newTestService(repo)
	o := createDraft(t, svc)

	for _, req := range []LineRequest{
		{ItemID: "A", Quantity: 1, UnitPrice: d("100"), UnitTax: d("20")},
		{ItemID: "B", Quantity: 1, UnitPriceUntaxed: d("83.33"), UnitTax: d("20")},
	} {
		_, err := svc.AddLine(context.Background(), o.ID, req)
		require.NoError(t, err)
	}

	got, err := svc.RecomputeTotals(context.Background(), o.ID)
	require.NoError(t, err)
	assert.True(t, d("166.66").Equal(got.AmountUntaxed), "got %s", got.AmountUntaxed)
	assert.True(t, d("33.34").Equal(got.AmountTax), "got %s", got.AmountTax)
	assert.True(t, d("200").Equal(got.AmountTotal), "got %s", got.AmountTotal)

	// Idempotent without line changes.
	again, err := svc.RecomputeTotals(context.Background(), o.ID)
	require.NoError(t, err)
	assert.True(t, got.AmountUntaxed.Equal(again.AmountUntaxed))
	assert.True(t, got.AmountTax.Equal(again.AmountTax))
	assert.True(t, got.AmountTotal.Equal(again.AmountTotal))
}

func TestTransition_Persists(t *testing.T) {
	repo := newMockOrderRepo()
	svc := newTestService(repo)
	o := createDraft(t, svc)

	_, err := svc.AddLine(context.Background(), o.ID, LineRequest{
		ItemID:    "TEST",
		Quantity:  1,
		UnitPrice: d("100"),
		UnitTax:   d("20"),
	})
	require.NoError(t, err)

	got, err := svc.Transition(context.Background(), o.ID, StateQuotation)
	require.NoError(t, err)
	assert.Equal(t, StateQuotation, got.State)
	assert.Equal(t, StateQuotation, repo.orders[o.ID].State)
}

func TestTransition_EmptyOrderRejected(t *testing.T) {
	svc := newTestService(newMockOrderRepo())
	o := createDraft(t, svc)

	_, err := svc.Transition(context.Background(), o.ID, StateQuotation)
	require.ErrorIs(t, err, ErrNoLines)
}
