// Package manifest parses and validates the declarative feature files
// found in a project's features directory: feature manifests
// (*-feature.yaml), which declare prompts and hook commands, and
// environment definitions (*-env.yaml, *-env.json), which only declare env
// prompts. Both are validated against embedded JSON schemas.
package manifest
