// Package orchestrator runs the two top-level flows of a project: install
// (or update), which asks the install questions, runs the feature hooks
// around the package manager and saves the configuration; and env, which
// asks every env question again and rewrites the env file.
package orchestrator
