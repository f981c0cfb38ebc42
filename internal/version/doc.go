// Package version compares semantic versions. It gates the install/update
// flow: a project whose stored configuration version is not older than the
// running tool is considered up to date.
package version
