package stock

import "fmt"

// OutcomeKind tells what DecrementIfAvailable did.
type OutcomeKind int

const (
	// NotCached means the stock key does not exist.
	NotCached OutcomeKind = iota + 1
	// Insufficient means fewer units are cached than requested. Nothing was changed.
	Insufficient
	// Decremented means the units were taken and Remaining holds the new value.
	Decremented
)

func (k OutcomeKind) String() string {
	switch k {
	case NotCached:
		return "not_cached"
	case Insufficient:
		return "insufficient"
	case Decremented:
		return "decremented"
	default:
		return fmt.Sprintf("outcome(%d)", int(k))
	}
}

// Outcome is the result of an atomic decrement. Remaining is only meaningful when
// Kind is Decremented.
type Outcome struct {
	Kind      OutcomeKind
	Remaining int64
}
