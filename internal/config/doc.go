// Package config manages user-level settings stored at
// ~/.allons-y/config.yaml, overridable with ALLONSY_* environment
// variables: the package manager invocation, the feature file patterns and
// the diagnostic logging options.
package config
