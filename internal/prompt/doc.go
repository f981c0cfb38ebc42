// Package prompt defines prompt definitions, reduces a feature's declared
// prompts to the ones still needing an answer, and collects answers from the
// user on a line-oriented terminal.
package prompt
