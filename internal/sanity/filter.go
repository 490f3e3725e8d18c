// Package sanity implements the keyword veto applied on top of the
// classifier: ideas naming something unrealistic are rejected, and ideas
// naming no plausible technology or domain are rejected too.
package sanity

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	goahocorasick "github.com/anknown/ahocorasick"
)

// Reason explains a Verdict.
type Reason string

const (
	ReasonUnrealistic  Reason = "unrealistic_term"
	ReasonPlausible    Reason = "plausible_term"
	ReasonNoTechnology Reason = "no_relevant_technology"
)

// Verdict is the detailed outcome of Check.
type Verdict struct {
	Passed      bool     `json:"passed"`
	Reason      Reason   `json:"reason"`
	Unrealistic []string `json:"unrealistic,omitempty"`
	Plausible   []string `json:"plausible,omitempty"`
}

// Filter matches ideas against the two keyword tables. It is immutable after
// construction and safe for concurrent use.
type Filter struct {
	unrealistic *goahocorasick.Machine
	plausible   *goahocorasick.Machine
}

// New builds a Filter from the given tables. Terms are lowercased; empty
// terms are ignored.
func New(unrealistic, plausible []string) (*Filter, error) {
	u, err := buildMachine(unrealistic)
	if err != nil {
		return nil, fmt.Errorf("build unrealistic matcher: %w", err)
	}
	p, err := buildMachine(plausible)
	if err != nil {
		return nil, fmt.Errorf("build plausible matcher: %w", err)
	}
	return &Filter{unrealistic: u, plausible: p}, nil
}

var (
	defaultOnce   sync.Once
	defaultFilter *Filter
)

// Default returns the process-wide filter built from the built-in tables.
func Default() *Filter {
	defaultOnce.Do(func() {
		f, err := New(unrealisticTerms, plausibleTerms)
		if err != nil {
			panic(err)
		}
		defaultFilter = f
	})
	return defaultFilter
}

// Passes reports whether an idea survives the veto. Any unrealistic term
// rejects; otherwise at least one plausible term is required.
func (f *Filter) Passes(idea string) bool {
	text := prepare(idea)
	if contains(f.unrealistic, text) {
		return false
	}
	return contains(f.plausible, text)
}

// Check is Passes with the matched terms reported.
func (f *Filter) Check(idea string) Verdict {
	text := prepare(idea)
	v := Verdict{
		Unrealistic: matches(f.unrealistic, text),
		Plausible:   matches(f.plausible, text),
	}
	switch {
	case len(v.Unrealistic) > 0:
		v.Reason = ReasonUnrealistic
	case len(v.Plausible) > 0:
		v.Passed = true
		v.Reason = ReasonPlausible
	default:
		v.Reason = ReasonNoTechnology
	}
	return v
}

// prepare lowercases and trims; punctuation is kept so multi-word and
// hyphenated terms match as written.
func prepare(idea string) []rune {
	return []rune(strings.ToLower(strings.TrimSpace(idea)))
}

func buildMachine(terms []string) (*goahocorasick.Machine, error) {
	seen := make(map[string]struct{}, len(terms))
	patterns := make([]string, 0, len(terms))
	for _, term := range terms {
		term = strings.ToLower(term)
		if term == "" {
			continue
		}
		if _, dup := seen[term]; dup {
			continue
		}
		seen[term] = struct{}{}
		patterns = append(patterns, term)
	}
	if len(patterns) == 0 {
		return nil, nil
	}
	sort.Strings(patterns)

	runes := make([][]rune, len(patterns))
	for i, p := range patterns {
		runes[i] = []rune(p)
	}
	m := new(goahocorasick.Machine)
	if err := m.Build(runes); err != nil {
		return nil, err
	}
	return m, nil
}

func contains(m *goahocorasick.Machine, text []rune) bool {
	if m == nil || len(text) == 0 {
		return false
	}
	return len(m.MultiPatternSearch(text, true)) > 0
}

func matches(m *goahocorasick.Machine, text []rune) []string {
	if m == nil || len(text) == 0 {
		return nil
	}
	var found []string
	seen := map[string]bool{}
	for _, term := range m.MultiPatternSearch(text, false) {
		word := string(term.Word)
		if !seen[word] {
			seen[word] = true
			found = append(found, word)
		}
	}
	sort.Strings(found)
	return found
}
