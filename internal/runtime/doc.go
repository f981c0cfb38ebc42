// Package runtime launches the external processes a run depends on: the
// package manager that installs the project dependencies, and the hook
// commands declared by feature manifests. Both inherit the environment of
// the invoking process.
package runtime
