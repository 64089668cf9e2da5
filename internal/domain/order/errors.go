package order

import (
	"fmt"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when a requested order or line does not exist.
var ErrNotFound = errors.New("order not found")

// LineError is a line consistency violation detected during computation:
// negative price components, inconsistent net/tax combinations, or a net
// price exceeding gross under positive tax. It aborts the whole computation;
// no line field is written when it is returned.
type LineError struct {
	msg string
}

func (e *LineError) Error() string {
	return e.msg
}

// Line consistency errors.
var (
	errNegativeUnitPrice = &LineError{msg: "Negative value forbidden on unit_price_untaxed, unit_price or unit_tax"}
	errUnitPriceMismatch = &LineError{msg: "Inconsistency between unit_price_untaxed, unit_price and unit_tax"}
	errNetExceedsGross   = &LineError{msg: "unit_price_untaxed can not be greater than unit_price"}

	// ErrNoStrategy is returned when neither unit_price nor
	// unit_price_untaxed is set, leaving nothing to compute from.
	ErrNoStrategy = &LineError{msg: "Can not find a strategy to compute price"}
)

// PriceNotFoundError indicates the order's price list has no entry for the
// line's product item.
type PriceNotFoundError struct {
	Item      string
	PriceList string
}

func (e *PriceNotFoundError) Error() string {
	return fmt.Sprintf("Can not find a price for %s on %s", e.Item, e.PriceList)
}

// TransitionError indicates a forbidden workflow state change.
type TransitionError struct {
	From State
	To   State
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("No rules found to change state from '%s' to '%s'", e.From, e.To)
}
