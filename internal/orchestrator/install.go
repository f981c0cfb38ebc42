package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/mebibou/allons-y/internal/branding"
	"github.com/mebibou/allons-y/internal/plugin"
	"github.com/mebibou/allons-y/internal/runtime"
	"github.com/mebibou/allons-y/internal/stage"
	"github.com/mebibou/allons-y/internal/store"
	"github.com/mebibou/allons-y/internal/version"
)

// Mode tells whether a project is created or updated.
type Mode int

const (
	ModeInit Mode = iota
	ModeUpdate
)

// Outcome is how a flow ended.
type Outcome int

const (
	// OutcomeAborted means a step failed and nothing was saved.
	OutcomeAborted Outcome = iota
	// OutcomeUpToDate means the stored configuration is current; nothing ran.
	OutcomeUpToDate
	// OutcomeCompleted means every step ran and the configuration was saved.
	OutcomeCompleted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeUpToDate:
		return "up-to-date"
	case OutcomeCompleted:
		return "completed"
	default:
		return "aborted"
	}
}

// Step names of the install flow.
const (
	StepWritePackage    = "write-package"
	StepBeforeInstall   = "before-install"
	StepExternalInstall = "external-install"
	StepAfterInstall    = "after-install"
	StepPersist         = "persist"
)

// InstallOptions controls the install flow.
type InstallOptions struct {
	Mode Mode
	// Force skips the version check.
	Force bool
	// SkipInstall skips the package manager as if it had succeeded.
	SkipInstall bool
}

// Install runs the install or update flow.
func (o *Orchestrator) Install(ctx context.Context, opts InstallOptions) (Outcome, error) {
	flow := "install"
	if opts.Mode == ModeUpdate {
		flow = "update"
	}
	log := o.runLog(flow)

	outcome, err := o.install(ctx, log, opts)
	o.Metrics.RunFinished(flow, outcome.String())
	if err != nil {
		log.WithError(err).Debug("flow aborted")
	}
	return outcome, err
}

func (o *Orchestrator) install(ctx context.Context, log logrus.FieldLogger, opts InstallOptions) (Outcome, error) {
	out := o.printer()

	cfg, err := o.Store.Load()
	if err != nil {
		return OutcomeAborted, fmt.Errorf("loading configuration: %w", err)
	}

	if !opts.Force {
		older, err := version.IsOlder(cfg.Version, o.Version)
		if err != nil {
			return OutcomeAborted, fmt.Errorf("checking configuration version: %w", err)
		}
		if !older {
			log.WithField("stored", cfg.Version).Debug("configuration up to date")
			out.Success("\nYour %s configuration (%s) is up to date!\n", branding.DisplayName(), o.Version)
			return OutcomeUpToDate, nil
		}
	}

	verb, create := "update your", "update"
	if opts.Mode == ModeInit {
		verb, create = "create a", "create"
	}
	out.Banner(
		fmt.Sprintf("You are going to %s %s platform (%s).", verb, branding.DisplayName(), o.Version),
		"",
		"Please answer the few questions below to configure your install:",
	)

	plugins, err := discover(ctx, o.Plugins)
	if err != nil {
		return OutcomeAborted, err
	}
	defer closeAll(log, plugins)

	a := o.newAsker(log, cfg, store.SectionInstall, false)
	if err := a.ask(ctx, plugins); err != nil {
		return OutcomeAborted, err
	}
	if !a.asked {
		out.Success("No new question to ask.")
	}
	out.Info("\nNow let's %s the webapp!\n", create)

	runner := &stage.Runner{Flow: "install", Log: log, Metrics: o.Metrics}
	tk := o.toolkit(log)
	mode := runtime.ModeInstall
	if opts.Mode == ModeUpdate {
		mode = runtime.ModeUpdate
	}
	title, action := "Create", "Install"
	if opts.Mode == ModeUpdate {
		title, action = "Update", "Update"
	}

	var written []byte
	steps := []stage.Step{
		{Name: StepWritePackage, Run: func(context.Context) error {
			out.Step("%s npm package file", title)
			if err := o.Store.WritePackage(cfg); err != nil {
				return err
			}
			out.OK()
			data, err := packageBytes(cfg)
			written = data
			return err
		}},
		{Name: StepBeforeInstall, Run: func(ctx context.Context) error {
			if err := runner.Run(ctx, plugins, plugin.HookBeforeInstall, cfg, tk); err != nil {
				return err
			}
			current, err := packageBytes(cfg)
			if err != nil {
				return err
			}
			if bytes.Equal(current, written) {
				return nil
			}
			out.Step("Update npm package file with feature changes")
			if err := o.Store.WritePackage(cfg); err != nil {
				return err
			}
			out.OK()
			return nil
		}},
		{Name: StepExternalInstall, Skip: opts.SkipInstall || o.Installer == nil, Run: func(ctx context.Context) error {
			out.Info("\n%s your dependencies:\n", action)
			return o.Installer.Run(ctx, mode)
		}},
		{Name: StepAfterInstall, Run: func(ctx context.Context) error {
			out.Info("\nConfigure installed features\n")
			return runner.Run(ctx, plugins, plugin.HookAfterInstall, cfg, tk)
		}},
		{Name: StepPersist, Run: func(context.Context) error {
			out.Step("Save configuration")
			if version.IsValid(o.Version) {
				cfg.Version = o.Version
			} else {
				log.WithField("version", o.Version).Warn("running version is not semver, stored version kept")
			}
			if err := o.Store.Save(cfg); err != nil {
				return err
			}
			out.OK()
			return nil
		}},
	}

	report, err := runner.Sequence(ctx, steps)
	if err != nil {
		if failed := report.Failed(); failed != nil {
			log.WithField("step", failed.Step).Debug("step failed")
		}
		return OutcomeAborted, err
	}

	name := store.FormatValue(valueOf(cfg.Install, "name"))
	if opts.Mode == ModeInit {
		out.Title("Your app %q is ready!\n\n    Now use \"%s env\" to configure your environment.", name, branding.CLIName())
	} else {
		out.Title("Your app %q is up to date!", name)
	}
	return OutcomeCompleted, nil
}

func packageBytes(cfg *store.Configuration) ([]byte, error) {
	if cfg.Package == nil {
		return []byte("{}"), nil
	}
	data, err := json.Marshal(cfg.Package)
	if err != nil {
		return nil, fmt.Errorf("rendering package descriptor: %w", err)
	}
	return data, nil
}

func valueOf(s *store.Section, key string) any {
	if s == nil {
		return nil
	}
	v, _ := s.Get(key)
	return v
}
