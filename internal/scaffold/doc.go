// Package scaffold generates new features from embedded templates. It powers
// the "allons-y create" command: a YAML manifest with an env definition and a
// hook script, or a single Lua script.
package scaffold
