package stage

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mebibou/allons-y/internal/plugin"
	"github.com/mebibou/allons-y/internal/store"
	"github.com/mebibou/allons-y/internal/telemetry"
)

// HookError reports the hook that stopped a stage.
type HookError struct {
	Plugin string
	Hook   string
	Err    error
}

func (e *HookError) Error() string {
	return fmt.Sprintf("%s hook of %s failed: %v", e.Hook, e.Plugin, e.Err)
}

func (e *HookError) Unwrap() error { return e.Err }

// Runner executes hooks and steps.
type Runner struct {
	// Flow labels the recorded metrics, e.g. "install".
	Flow    string
	Log     logrus.FieldLogger
	Metrics *telemetry.Recorder
}

func (r *Runner) log() logrus.FieldLogger {
	if r.Log == nil {
		return logrus.StandardLogger()
	}
	return r.Log
}

// Run calls hook on every plugin that provides it, in the order given.
// Each call finishes before the next starts; the first error is returned
// as a *HookError and no later plugin runs.
func (r *Runner) Run(ctx context.Context, plugins []plugin.Plugin, hook string, cfg *store.Configuration, tk *plugin.Toolkit) error {
	if tk == nil {
		tk = &plugin.Toolkit{}
	}
	for _, p := range plugins {
		fn := plugin.LookupHook(p, hook)
		if fn == nil {
			r.Metrics.HookInvoked(hook, telemetry.ResultSkipped)
			continue
		}

		log := r.log().WithFields(logrus.Fields{"plugin": p.Source(), "hook": hook})
		log.Debug("running hook")
		start := time.Now()

		if err := call(ctx, fn, cfg, tk.For(p)); err != nil {
			r.Metrics.HookInvoked(hook, telemetry.ResultError)
			log.WithError(err).Debug("hook failed")
			return &HookError{Plugin: p.Source(), Hook: hook, Err: err}
		}

		r.Metrics.HookInvoked(hook, telemetry.ResultOK)
		log.WithField("duration", time.Since(start)).Debug("hook done")
	}
	return nil
}

// call runs fn, turning a panic into an error.
func call(ctx context.Context, fn plugin.Hook, cfg *store.Configuration, tk *plugin.Toolkit) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	return fn(ctx, cfg, tk)
}
