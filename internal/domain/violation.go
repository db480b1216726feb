package domain

import (
	"fmt"
	"time"
)

// Violation describes an observed runtime that fell outside its category's bound.
type Violation struct {
	Category  string
	Observed  time.Duration
	Bound     Bound
	Suggested string // empty when no default category contains Observed
}

// String renders the diagnostic shown to the test author.
func (v *Violation) String() string {
	hint := "No default category defined for this runtime."
	if v.Suggested != "" {
		hint = fmt.Sprintf("You should probably categorize it as '%s'.", v.Suggested)
	}

	return fmt.Sprintf("The test ran for %dms and was categorized as '%s', "+
		"but it did not complete within %s.\n%s",
		v.Observed.Milliseconds(), v.Category, v.Bound, hint)
}
