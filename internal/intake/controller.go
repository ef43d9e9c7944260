package intake

import "fmt"

// Transition reports what an operation did to the step index.
type Transition struct {
	Advanced bool `json:"advanced"`
	// SubmitRequested is set when a forward move was asked for on the last
	// step. The index does not change; the caller runs the submission.
	SubmitRequested bool `json:"submit_requested"`
}

// cursor is a 1-based step index clamped to [1, total].
type cursor struct {
	index int
	total int
}

func newCursor(total int) cursor {
	if total < 1 {
		total = 1
	}
	return cursor{index: 1, total: total}
}

func (c cursor) atLast() bool { return c.index >= c.total }

func (c *cursor) forward() Transition {
	if c.atLast() {
		return Transition{SubmitRequested: true}
	}
	c.index++
	return Transition{Advanced: true}
}

func (c *cursor) back() bool {
	if c.index <= 1 {
		return false
	}
	c.index--
	return true
}

// WrongStep reports an action the current step does not offer.
func WrongStep(action string) error {
	return &Error{Kind: KindPrecondition, Message: "Ação indisponível nesta etapa.", Err: fmt.Errorf("%s: %w", action, ErrWrongStep)}
}
