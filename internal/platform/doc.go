// Package platform provides cross-platform file writes for the project files
// the tool manages. Permission bits are applied on Unix systems and ignored on
// Windows, which does not support them.
package platform
