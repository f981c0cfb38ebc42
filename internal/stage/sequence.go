package stage

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// Step is one named step of a flow.
type Step struct {
	Name string
	// Skip marks the step as done without running it.
	Skip bool
	Run  func(ctx context.Context) error
}

// Outcome is what happened to one step.
type Outcome struct {
	Step     string
	Err      error
	Skipped  bool
	Duration time.Duration
}

// Report lists the outcomes of the steps that were reached.
type Report struct {
	Outcomes []Outcome
}

// Failed returns the outcome of the failing step, or nil.
func (r *Report) Failed() *Outcome {
	for i := range r.Outcomes {
		if r.Outcomes[i].Err != nil {
			return &r.Outcomes[i]
		}
	}
	return nil
}

// Sequence runs steps in order and stops at the first error, which is
// returned wrapped with the step name. Steps after a failure do not appear
// in the report.
func (r *Runner) Sequence(ctx context.Context, steps []Step) (*Report, error) {
	report := &Report{}
	for _, s := range steps {
		if s.Skip || s.Run == nil {
			report.Outcomes = append(report.Outcomes, Outcome{Step: s.Name, Skipped: true})
			r.log().WithField("step", s.Name).Debug("step skipped")
			continue
		}

		start := time.Now()
		err := s.Run(ctx)
		elapsed := time.Since(start)

		report.Outcomes = append(report.Outcomes, Outcome{Step: s.Name, Err: err, Duration: elapsed})
		r.Metrics.ObserveStep(r.Flow, s.Name, elapsed, err)
		if err != nil {
			return report, fmt.Errorf("%s: %w", s.Name, err)
		}
		r.log().WithFields(logrus.Fields{"step": s.Name, "duration": elapsed}).Debug("step done")
	}
	return report, nil
}
