package gotest

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/iho/timelimit/internal/domain"
	"github.com/iho/timelimit/internal/infrastructure/config"
	"github.com/iho/timelimit/internal/usecase"
)

const maxLineSize = 1 << 20

// Validator validates an observed runtime against a category.
type Validator interface {
	ValidateRuntime(observed time.Duration, category string) (*domain.Violation, error)
}

// ReportRecorder observes whole report runs.
type ReportRecorder interface {
	usecase.Recorder
	RecordReport(undeclared int)
}

// Finding is the validation result of one finished test.
type Finding struct {
	Package   string
	Test      string
	Category  string
	Observed  time.Duration
	Violation *domain.Violation
	Err       error
}

// Failed reports whether the test violated its bound or could not be checked.
func (f Finding) Failed() bool {
	return f.Violation != nil || f.Err != nil
}

// Summary aggregates one report run.
type Summary struct {
	RunID      string
	Findings   []Finding
	Undeclared int
	Skipped    int
	Malformed  int
}

// Failures returns the findings that failed, in completion order.
func (s *Summary) Failures() []Finding {
	var out []Finding
	for _, f := range s.Findings {
		if f.Failed() {
			out = append(out, f)
		}
	}
	return out
}

// Failed reports whether any test violated its bound or was misconfigured.
func (s *Summary) Failed() bool {
	return len(s.Failures()) > 0
}

// Reporter validates test runtimes found in a `go test -json` stream.
type Reporter struct {
	validator    Validator
	declarations config.Declarations
	recorder     ReportRecorder
	logger       zerolog.Logger
	newRunID     func() string
}

// Option configures a Reporter.
type Option func(*Reporter)

// WithRecorder records every validation and the run totals.
func WithRecorder(recorder ReportRecorder) Option {
	return func(r *Reporter) {
		r.recorder = recorder
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Reporter) {
		r.logger = logger
	}
}

// WithRunID fixes the run id instead of generating a ULID.
func WithRunID(id string) Option {
	return func(r *Reporter) {
		r.newRunID = func() string { return id }
	}
}

// NewReporter creates a new Reporter.
func NewReporter(validator Validator, declarations config.Declarations, opts ...Option) *Reporter {
	r := &Reporter{
		validator:    validator,
		declarations: declarations,
		logger:       zerolog.Nop(),
		newRunID:     func() string { return ulid.Make().String() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Category returns the declared category of a test: the test itself first,
// then its enclosing parent tests, then its package.
func (r *Reporter) Category(pkg, test string) (string, bool) {
	decl := domain.Declaration{Suite: r.declarations.Packages[pkg]}

	if c, ok := r.declarations.Tests[test]; ok {
		decl.Method = c
	} else {
		for _, parent := range parents(test) {
			if c, ok := r.declarations.Tests[parent]; ok {
				decl.Method = c
				break
			}
		}
	}

	return decl.Category()
}

// Run consumes the event stream until EOF and validates every finished test.
// Lines that are not JSON events (build output) are counted and skipped.
func (r *Reporter) Run(ctx context.Context, in io.Reader) (*Summary, error) {
	summary := &Summary{RunID: r.newRunID()}
	logger := r.logger.With().Str("run_id", summary.RunID).Logger()
	started := make(map[string]time.Time)

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var ev Event
		if err := json.Unmarshal(line, &ev); err != nil {
			summary.Malformed++
			logger.Debug().Err(err).Msg("skipping non-event line")
			continue
		}
		if !ev.IsTestEvent() {
			continue
		}

		key := ev.Package + "\x00" + ev.Test
		switch ev.Action {
		case ActionRun:
			started[key] = ev.Time
		case ActionSkip:
			delete(started, key)
			summary.Skipped++
		case ActionPass, ActionFail:
			start, ok := started[key]
			delete(started, key)
			observed, hasElapsed := ev.ElapsedDuration()
			if !hasElapsed {
				if !ok || start.IsZero() || ev.Time.IsZero() {
					logger.Warn().Str("package", ev.Package).Str("test", ev.Test).Msg("cannot measure test without elapsed time or start event")
					continue
				}
				observed = ev.Time.Sub(start).Truncate(time.Millisecond)
			}
			r.finish(summary, logger, ev.Package, ev.Test, observed)
		}
	}
	if err := scanner.Err(); err != nil {
		return summary, fmt.Errorf("failed to read test events: %w", err)
	}

	if r.recorder != nil {
		r.recorder.RecordReport(summary.Undeclared)
	}

	logger.Info().
		Int("checked", len(summary.Findings)).
		Int("failed", len(summary.Failures())).
		Int("undeclared", summary.Undeclared).
		Int("skipped", summary.Skipped).
		Msg("report finished")

	return summary, nil
}

func (r *Reporter) finish(summary *Summary, logger zerolog.Logger, pkg, test string, observed time.Duration) {
	category, ok := r.Category(pkg, test)
	if !ok {
		summary.Undeclared++
		return
	}

	violation, err := r.validator.ValidateRuntime(observed, category)
	if r.recorder != nil {
		r.recorder.RecordValidation(category, observed, usecase.OutcomeOf(violation, err))
	}

	finding := Finding{
		Package:   pkg,
		Test:      test,
		Category:  category,
		Observed:  observed,
		Violation: violation,
		Err:       err,
	}
	summary.Findings = append(summary.Findings, finding)

	if finding.Failed() {
		logger.Debug().
			Str("package", pkg).
			Str("test", test).
			Str("category", category).
			Dur("observed", observed).
			Msg("test outside its time limit")
	}
}

// WriteText prints failed findings in the diagnostic format followed by a one-line summary.
func WriteText(w io.Writer, s *Summary) error {
	for _, f := range s.Failures() {
		var msg string
		if f.Err != nil {
			msg = f.Err.Error()
		} else {
			msg = f.Violation.String()
		}
		if _, err := fmt.Fprintf(w, "--- %s %s\n%s\n\n", f.Package, f.Test, msg); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "run %s: %d checked, %d failed, %d undeclared, %d skipped\n",
		s.RunID, len(s.Findings), len(s.Failures()), s.Undeclared, s.Skipped)
	return err
}
