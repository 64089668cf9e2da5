package order

import "github.com/go-faster/errors"

// State is the lifecycle state of an order.
type State string

// Order lifecycle states. Draft orders can become quotations or be
// cancelled; quotations can be confirmed into orders or cancelled; confirmed
// and cancelled orders are terminal.
const (
	StateDraft     State = "draft"
	StateQuotation State = "quotation"
	StateOrder     State = "order"
	StateCancelled State = "cancelled"
)

// ErrNoLines is returned when an order without lines tries to leave draft.
var ErrNoLines = errors.New("order must have at least one line")

var transitions = map[State][]State{
	StateDraft:     {StateQuotation, StateCancelled},
	StateQuotation: {StateOrder, StateCancelled},
	StateOrder:     {},
	StateCancelled: {},
}

// CanTransitionTo reports whether the workflow allows moving to the given
// state from the order's current state.
func (o *Order) CanTransitionTo(to State) bool {
	for _, allowed := range transitions[o.State] {
		if allowed == to {
			return true
		}
	}
	return false
}

// TransitionTo moves the order to the given state. Forbidden transitions
// fail with a TransitionError; entering quotation or order requires at least
// one line.
func (o *Order) TransitionTo(to State) error {
	if !o.CanTransitionTo(to) {
		return &TransitionError{From: o.State, To: to}
	}
	if (to == StateQuotation || to == StateOrder) && len(o.Lines) == 0 {
		return ErrNoLines
	}
	o.State = to
	return nil
}
