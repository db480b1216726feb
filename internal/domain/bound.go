package domain

import (
	"fmt"
	"math"
	"time"
)

// Unbounded is the largest representable duration; it stands for "no upper limit".
const Unbounded = time.Duration(math.MaxInt64)

const maxMillis = int64(Unbounded / time.Millisecond)

// Bound is an inclusive duration interval [Lower, Upper].
//
// Lower <= Upper is not enforced on construction. An inverted bound contains
// nothing; call Validate to reject it explicitly.
type Bound struct {
	Lower time.Duration
	Upper time.Duration
}

// NewBound creates a Bound from two durations.
func NewBound(lower, upper time.Duration) Bound {
	return Bound{Lower: lower, Upper: upper}
}

// BoundFromMillis creates a Bound from millisecond edges. Values beyond the
// representable range saturate to Unbounded.
func BoundFromMillis(lowerMs, upperMs int64) Bound {
	return Bound{Lower: Millis(lowerMs), Upper: Millis(upperMs)}
}

// Millis converts milliseconds to a duration, saturating at Unbounded.
func Millis(ms int64) time.Duration {
	if ms >= maxMillis {
		return Unbounded
	}
	return time.Duration(ms) * time.Millisecond
}

// Contains reports whether d lies within the bound. Both edges are inclusive.
func (b Bound) Contains(d time.Duration) bool {
	return d >= b.Lower && d <= b.Upper
}

// Equal reports whether both edges match.
func (b Bound) Equal(other Bound) bool {
	return b.Lower == other.Lower && b.Upper == other.Upper
}

// LowerMillis returns the lower edge in whole milliseconds.
func (b Bound) LowerMillis() int64 {
	return b.Lower.Milliseconds()
}

// UpperMillis returns the upper edge in whole milliseconds.
func (b Bound) UpperMillis() int64 {
	return b.Upper.Milliseconds()
}

// IsUnbounded reports whether the bound has no upper limit.
func (b Bound) IsUnbounded() bool {
	return b.Upper == Unbounded
}

// Validate returns ErrInvertedBound when Lower > Upper and ErrInvalidDuration
// when an edge is negative.
func (b Bound) Validate() error {
	if b.Lower < 0 || b.Upper < 0 {
		return fmt.Errorf("%w: negative edge in %s", ErrInvalidDuration, b)
	}
	if b.Lower > b.Upper {
		return fmt.Errorf("%w: %s", ErrInvertedBound, b)
	}
	return nil
}

// String renders the canonical form "[<lower>ms, <upper>ms]".
func (b Bound) String() string {
	return fmt.Sprintf("[%s, %s]", formatEdge(b.Lower), formatEdge(b.Upper))
}

func formatEdge(d time.Duration) string {
	if d == Unbounded {
		return "inf"
	}
	return fmt.Sprintf("%dms", d.Milliseconds())
}
