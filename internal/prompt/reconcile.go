package prompt

import "github.com/mebibou/allons-y/internal/store"

// Status tells the caller what reconciliation found for one feature.
type Status int

const (
	// NoPrompts means the feature declares no prompts for the section.
	NoPrompts Status = iota
	// AllAnswered means every declared prompt already has a value.
	AllAnswered
	// Pending means at least one prompt must be asked.
	Pending
)

func (s Status) String() string {
	switch s {
	case NoPrompts:
		return "no-prompts"
	case AllAnswered:
		return "all-answered"
	case Pending:
		return "pending"
	default:
		return "unknown"
	}
}

// Reconcile returns the prompts of declared that still need an answer given
// the values already in existing, in declaration order. A key present in
// existing is answered, even when it holds null. With force every declared
// prompt is returned, and one whose name is present in existing carries the
// stored value as its default.
//
// declared is never modified; the returned prompts are copies.
func Reconcile(existing *store.Section, declared []Prompt, force bool) ([]Prompt, Status) {
	if len(declared) == 0 {
		return nil, NoPrompts
	}

	var ask []Prompt
	for _, p := range declared {
		if !force && store.Has(existing, p.Name) {
			continue
		}
		if store.Has(existing, p.Name) {
			p.Default, _ = existing.Get(p.Name)
		}
		if p.Choices != nil {
			p.Choices = append([]string(nil), p.Choices...)
		}
		ask = append(ask, p)
	}

	if len(ask) == 0 {
		return nil, AllAnswered
	}
	return ask, Pending
}
