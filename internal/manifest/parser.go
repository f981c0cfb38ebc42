package manifest

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// ParseFeature reads and parses a feature manifest without validating it.
func ParseFeature(path string) (*FeatureManifest, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return parseTyped[FeatureManifest](data, path)
}

// ParseEnv reads and parses an environment definition without validating
// it. JSON files are accepted since JSON is valid YAML.
func ParseEnv(path string) (*EnvManifest, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return parseTyped[EnvManifest](data, path)
}

// LoadFeature parses a feature manifest and rejects it if it does not match
// the feature schema.
func LoadFeature(path string) (*FeatureManifest, error) {
	if err := check(KindFeature, path); err != nil {
		return nil, err
	}
	return ParseFeature(path)
}

// LoadEnv parses an environment definition and rejects it if it does not
// match the env schema.
func LoadEnv(path string) (*EnvManifest, error) {
	if err := check(KindEnv, path); err != nil {
		return nil, err
	}
	return ParseEnv(path)
}

func check(kind, path string) error {
	result, err := ValidateFile(kind, path)
	if err != nil {
		return err
	}
	if !result.Valid {
		return &InvalidError{Path: path, Issues: result.Issues}
	}
	return nil
}

// parseTyped unmarshals YAML data into a typed manifest struct.
func parseTyped[T any](data []byte, path string) (*T, error) {
	var m T
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	return &m, nil
}

// readFile reads the contents of a file at the given path.
func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	return data, nil
}
