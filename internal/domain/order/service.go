package order

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request validation errors.
var (
	ErrCodeRequired    = errors.New("code required")
	ErrChannelRequired = errors.New("channel required")
	ErrInvalidQuantity = errors.New("quantity must be greater than 0")
)

// Service encapsulates order and line lifecycle logic on top of the
// repositories. Computations mutate in-memory entities and are persisted as
// a whole; callers are expected to serialize mutations per order.
type Service struct {
	orders Repository
	prices PriceSource
}

// NewService creates an order Service with the required dependencies.
func NewService(orders Repository, prices PriceSource) *Service {
	return &Service{orders: orders, prices: prices}
}

// CreateOrderRequest holds the input for creating a draft order.
type CreateOrderRequest struct {
	Code           string
	Channel        string
	DeliveryMethod string

	CustomerID        string
	CustomerAddressID string
	DeliveryAddressID string
	PriceListID       string
}

// CreateOrder creates a new order in the draft state with zero totals.
func (s *Service) CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	if req.Code == "" {
		return nil, ErrCodeRequired
	}
	if req.Channel == "" {
		return nil, ErrChannelRequired
	}

	o := &Order{
		ID:                uuid.New().String(),
		Code:              req.Code,
		Channel:           req.Channel,
		DeliveryMethod:    req.DeliveryMethod,
		CustomerID:        req.CustomerID,
		CustomerAddressID: req.CustomerAddressID,
		DeliveryAddressID: req.DeliveryAddressID,
		PriceListID:       req.PriceListID,
		State:             StateDraft,
		AmountUntaxed:     decimal.Zero,
		AmountTax:         decimal.Zero,
		AmountTotal:       decimal.Zero,
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, errors.Wrap(err, "create order")
	}
	return o, nil
}

// LineRequest holds the pricing inputs of a line. Unit price fields are
// ignored when the order has a price list.
type LineRequest struct {
	ItemID   string
	Quantity int

	UnitPriceUntaxed decimal.Decimal
	UnitPrice        decimal.Decimal
	UnitTax          decimal.Decimal

	AmountDiscountUntaxed           decimal.Decimal
	AmountDiscountPercentageUntaxed decimal.Decimal
	AmountDiscount                  decimal.Decimal
	AmountDiscountPercentage        decimal.Decimal

	Properties map[string]any
}

// AddLine creates a line on an order and computes it. The computation is
// atomic: a validation failure leaves nothing persisted.
func (s *Service) AddLine(ctx context.Context, orderID string, req LineRequest) (*Line, error) {
	if req.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	o, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, errors.Wrap(err, "get order")
	}

	line := &Line{
		ID:                              uuid.New().String(),
		OrderID:                         o.ID,
		ItemID:                          req.ItemID,
		Quantity:                        req.Quantity,
		UnitPriceUntaxed:                req.UnitPriceUntaxed,
		UnitPrice:                       req.UnitPrice,
		UnitTax:                         req.UnitTax,
		AmountDiscountUntaxed:           req.AmountDiscountUntaxed,
		AmountDiscountPercentageUntaxed: req.AmountDiscountPercentageUntaxed,
		AmountDiscount:                  req.AmountDiscount,
		AmountDiscountPercentage:        req.AmountDiscountPercentage,
		Properties:                      req.Properties,
	}

	if err := ComputeLine(ctx, line, o, s.prices); err != nil {
		return nil, err
	}

	if err := s.orders.CreateLine(ctx, line); err != nil {
		return nil, errors.Wrap(err, "create line")
	}
	return line, nil
}

// UpdateLine applies new pricing inputs to an existing line and recomputes
// it. Every mutation of unit price, quantity or discount inputs goes through
// here so the derived fields never drift from the inputs.
func (s *Service) UpdateLine(ctx context.Context, lineID string, req LineRequest) (*Line, error) {
	if req.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	line, err := s.orders.GetLine(ctx, lineID)
	if err != nil {
		return nil, errors.Wrap(err, "get line")
	}
	o, err := s.orders.Get(ctx, line.OrderID)
	if err != nil {
		return nil, errors.Wrap(err, "get order")
	}

	line.Quantity = req.Quantity
	line.UnitPriceUntaxed = req.UnitPriceUntaxed
	line.UnitPrice = req.UnitPrice
	line.UnitTax = req.UnitTax
	line.AmountDiscountUntaxed = req.AmountDiscountUntaxed
	line.AmountDiscountPercentageUntaxed = req.AmountDiscountPercentageUntaxed
	line.AmountDiscount = req.AmountDiscount
	line.AmountDiscountPercentage = req.AmountDiscountPercentage
	if req.Properties != nil {
		line.Properties = req.Properties
	}

	if err := ComputeLine(ctx, line, o, s.prices); err != nil {
		return nil, err
	}

	if err := s.orders.UpdateLine(ctx, line); err != nil {
		return nil, errors.Wrap(err, "update line")
	}
	return line, nil
}

// RecomputeTotals loads an order, re-aggregates its line totals, and
// persists the result. Idempotent for an unchanged set of lines.
func (s *Service) RecomputeTotals(ctx context.Context, orderID string) (*Order, error) {
	o, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, errors.Wrap(err, "get order")
	}

	o.ComputeTotals()

	if err := s.orders.Update(ctx, o); err != nil {
		return nil, errors.Wrap(err, "update order")
	}
	return o, nil
}

// Transition moves an order through its workflow and persists the new state.
func (s *Service) Transition(ctx context.Context, orderID string, to State) (*Order, error) {
	o, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, errors.Wrap(err, "get order")
	}

	if err := o.TransitionTo(to); err != nil {
		return nil, err
	}

	if err := s.orders.Update(ctx, o); err != nil {
		return nil, errors.Wrap(err, "update order")
	}
	return o, nil
}

// GetOrder loads an order with its lines.
func (s *Service) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	return s.orders.Get(ctx, orderID)
}
