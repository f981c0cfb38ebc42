package orchestrator

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mebibou/allons-y/internal/plugin"
	"github.com/mebibou/allons-y/internal/prompt"
	"github.com/mebibou/allons-y/internal/registry"
	"github.com/mebibou/allons-y/internal/runtime"
	"github.com/mebibou/allons-y/internal/store"
	"github.com/mebibou/allons-y/internal/telemetry"
	"github.com/mebibou/allons-y/internal/ui"
)

// Orchestrator holds the collaborators of a run.
type Orchestrator struct {
	// Root is the project directory.
	Root string
	// Version is the running tool version.
	Version string

	Store *store.Store
	// Plugins discovers the features, EnvDefs the environment definitions.
	Plugins   registry.Discoverer
	EnvDefs   registry.Discoverer
	Collector prompt.Collector
	Installer runtime.Installer

	UI      *ui.Printer
	Log     logrus.FieldLogger
	Metrics *telemetry.Recorder
}

func (o *Orchestrator) runLog(flow string) logrus.FieldLogger {
	log := o.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	return log.WithFields(logrus.Fields{"run": uuid.NewString(), "flow": flow})
}

func (o *Orchestrator) printer() *ui.Printer {
	if o.UI == nil {
		return ui.Discard()
	}
	return o.UI
}

func (o *Orchestrator) toolkit(log logrus.FieldLogger) *plugin.Toolkit {
	return &plugin.Toolkit{Root: o.Root, Version: o.Version, Log: log, UI: o.printer()}
}

func discover(ctx context.Context, d registry.Discoverer) ([]plugin.Plugin, error) {
	if d == nil {
		return nil, nil
	}
	plugins, err := d.Discover(ctx)
	if err != nil {
		return nil, fmt.Errorf("discovering features: %w", err)
	}
	return plugins, nil
}

// asker collects the answers of one section across the plugins of a flow.
type asker struct {
	o       *Orchestrator
	log     logrus.FieldLogger
	cfg     *store.Configuration
	section string
	force   bool

	// declaredBy maps prompt names to the first feature declaring them.
	declaredBy map[string]string
	asked      bool
}

func (o *Orchestrator) newAsker(log logrus.FieldLogger, cfg *store.Configuration, section string, force bool) *asker {
	return &asker{o: o, log: log, cfg: cfg, section: section, force: force, declaredBy: make(map[string]string)}
}

// ask reconciles and collects the prompts of each plugin in order, merging
// the answers before the next plugin is reconciled.
func (a *asker) ask(ctx context.Context, plugins []plugin.Plugin) error {
	for _, p := range plugins {
		declared := plugin.Prompts(p, a.section)
		a.checkCollisions(p, declared)

		pending, status := prompt.Reconcile(a.cfg.Section(a.section), declared, a.force)
		a.log.WithFields(logrus.Fields{
			"plugin":  p.Source(),
			"section": a.section,
			"status":  status.String(),
			"pending": len(pending),
		}).Debug("prompts reconciled")
		if status != prompt.Pending {
			continue
		}

		answers, err := a.o.Collector.Collect(ctx, pending)
		if err != nil {
			return fmt.Errorf("collecting %s answers for %s: %w", a.section, p.Source(), err)
		}
		section := a.cfg.Section(a.section)
		for _, ans := range answers {
			section.Set(ans.Name, ans.Value)
		}
		a.o.Metrics.PromptsAsked(a.section, len(pending))
		a.asked = true
	}
	return nil
}

func (a *asker) checkCollisions(p plugin.Plugin, declared []prompt.Prompt) {
	for _, pr := range declared {
		first, seen := a.declaredBy[pr.Name]
		if !seen {
			a.declaredBy[pr.Name] = p.Source()
			continue
		}
		if first != p.Source() {
			a.log.WithFields(logrus.Fields{
				"prompt":      pr.Name,
				"section":     a.section,
				"declared_by": first,
				"plugin":      p.Source(),
			}).Warn("prompt declared by several features, last answer wins")
		}
	}
}
