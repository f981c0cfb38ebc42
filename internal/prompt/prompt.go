package prompt

import "context"

// Prompt types understood by the collector.
const (
	TypeInput    = "input"
	TypeConfirm  = "confirm"
	TypeNumber   = "number"
	TypeList     = "list"
	TypePassword = "password"
)

// Prompt is a question a feature declares against a configuration section.
// Name is the key the answer is stored under.
type Prompt struct {
	Name    string   `yaml:"name" json:"name"`
	Type    string   `yaml:"type,omitempty" json:"type,omitempty"`
	Message string   `yaml:"message,omitempty" json:"message,omitempty"`
	Default any      `yaml:"default,omitempty" json:"default,omitempty"`
	Choices []string `yaml:"choices,omitempty" json:"choices,omitempty"`
}

// Label returns the text shown to the user for p.
func (p Prompt) Label() string {
	if p.Message != "" {
		return p.Message
	}
	return p.Name
}

// Kind returns the prompt type, defaulting to TypeInput.
func (p Prompt) Kind() string {
	if p.Type == "" {
		return TypeInput
	}
	return p.Type
}

// Answer is the value collected for one prompt.
type Answer struct {
	Name  string
	Value any
}

// Collector asks a list of prompts and returns the answers in prompt order.
type Collector interface {
	Collect(ctx context.Context, prompts []Prompt) ([]Answer, error)
}
