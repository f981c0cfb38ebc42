// Package plugin defines what a feature can contribute to a run. A feature
// is identified by its source path and implements any subset of the
// capability interfaces: install prompts, env prompts, and the
// beforeInstall/afterInstall hooks.
package plugin
