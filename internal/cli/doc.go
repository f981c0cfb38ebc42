// Package cli implements the Cobra command tree for the allons-y CLI: the
// init, update and env flows, feature listing and scaffolding, and the
// tool settings.
package cli
