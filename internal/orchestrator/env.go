package orchestrator

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/mebibou/allons-y/internal/branding"
	"github.com/mebibou/allons-y/internal/plugin"
	"github.com/mebibou/allons-y/internal/stage"
	"github.com/mebibou/allons-y/internal/store"
)

// Env runs the environment flow: every env prompt is asked again, existing
// values offered as defaults, then the rc record and env file are written.
func (o *Orchestrator) Env(ctx context.Context) error {
	log := o.runLog("env")
	err := o.env(ctx, log)

	outcome := OutcomeCompleted
	if err != nil {
		outcome = OutcomeAborted
		log.WithError(err).Debug("flow aborted")
	}
	o.Metrics.RunFinished("env", outcome.String())
	return err
}

func (o *Orchestrator) env(ctx context.Context, log logrus.FieldLogger) error {
	out := o.printer()

	cfg, err := o.Store.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	out.Banner(fmt.Sprintf("Configure your %s platform (%s) environment:", branding.DisplayName(), o.Version))

	features, err := discover(ctx, o.Plugins)
	if err != nil {
		return err
	}
	defer closeAll(log, features)

	defs, err := discover(ctx, o.EnvDefs)
	if err != nil {
		return err
	}
	defer closeAll(log, defs)

	a := o.newAsker(log, cfg, store.SectionEnv, true)
	if err := a.ask(ctx, features); err != nil {
		return err
	}
	if err := a.ask(ctx, defs); err != nil {
		return err
	}

	runner := &stage.Runner{Flow: "env", Log: log, Metrics: o.Metrics}
	_, err = runner.Sequence(ctx, []stage.Step{{Name: StepPersist, Run: func(context.Context) error {
		out.Step("Save configuration")
		// The rc record goes first: if it cannot be written the env file is
		// left as it was.
		if err := o.Store.Save(cfg); err != nil {
			return err
		}
		if err := o.Store.WriteEnv(cfg); err != nil {
			return err
		}
		out.OK()
		return nil
	}}})
	if err != nil {
		return err
	}

	out.Title("Your app environment is ready!")
	return nil
}

func closeAll(log logrus.FieldLogger, plugins []plugin.Plugin) {
	if err := plugin.Close(plugins); err != nil {
		log.WithError(err).Warn("closing features")
	}
}
