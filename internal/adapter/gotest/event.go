package gotest

import (
	"math"
	"strings"
	"time"

	"github.com/iho/timelimit/internal/domain"
)

// Actions emitted by test2json that the reporter reacts to.
const (
	ActionRun  = "run"
	ActionPass = "pass"
	ActionFail = "fail"
	ActionSkip = "skip"
)

// Event is one line of `go test -json` output.
type Event struct {
	Time    time.Time `json:"Time"`
	Action  string    `json:"Action"`
	Package string    `json:"Package"`
	Test    string    `json:"Test"`
	Elapsed *float64  `json:"Elapsed"`
	Output  string    `json:"Output"`
}

// IsTestEvent reports whether e belongs to a test rather than to its package.
func (e Event) IsTestEvent() bool {
	return e.Test != ""
}

// ElapsedDuration converts the Elapsed seconds to a duration truncated to the
// millisecond. Values too large for a duration saturate at domain.Unbounded.
func (e Event) ElapsedDuration() (time.Duration, bool) {
	if e.Elapsed == nil || *e.Elapsed < 0 || math.IsNaN(*e.Elapsed) {
		return 0, false
	}

	micros := math.Round(*e.Elapsed * 1e6)
	if micros >= float64(domain.Unbounded/time.Microsecond) {
		return domain.Unbounded, true
	}
	return (time.Duration(micros) * time.Microsecond).Truncate(time.Millisecond), true
}

// parents returns the enclosing test names of a subtest, innermost first:
// "TestA/b/c" -> ["TestA/b", "TestA"].
func parents(test string) []string {
	var out []string
	for {
		i := strings.LastIndexByte(test, '/')
		if i < 0 {
			return out
		}
		test = test[:i]
		out = append(out, test)
	}
}
