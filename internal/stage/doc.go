// Package stage runs feature hooks and the fixed steps of a flow in
// order. There is no reordering, no retry and no parallelism: the first
// failure stops everything after it.
package stage
