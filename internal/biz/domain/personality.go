package domain

import (
	"sort"
	"strings"
)

// Personality is a named LLM response configuration
type Personality struct {
	Key          string
	Name         string
	SystemPrompt string
	Temperature  float32
	MaxTokens    int
}

// RuleType represents how a mapping rule matches an email
type RuleType string

const (
	RuleExact   RuleType = "exact"
	RulePattern RuleType = "pattern"
)

// MappingRule maps a sender email to a personality key
type MappingRule struct {
	Type        RuleType
	Match       string
	Personality string

	matcher *globMatcher // compiled form for pattern rules
}

// Catalog is an immutable snapshot of personalities plus mapping rules.
// Rebuilt wholesale on reload and swapped atomically by its owner.
type Catalog struct {
	personalities map[string]Personality
	rules         []MappingRule
	defaultKey    string
}

// BuiltinDefault is the hard-coded personality used when the catalog's
// default key (or a rule's target) doesn't exist
func BuiltinDefault() Personality {
	return Personality{
		Key:          "default",
		Name:         "Default Assistant",
		SystemPrompt: "You are a helpful assistant. Keep responses concise and clear.",
		Temperature:  0.2,
		MaxTokens:    1000,
	}
}

// NewCatalog builds a catalog, compiling pattern rules once
func NewCatalog(personalities map[string]Personality, rules []MappingRule, defaultKey string) *Catalog {
	ps := make(map[string]Personality, len(personalities))
	for key, p := range personalities {
		p.Key = key
		ps[key] = p
	}

	compiled := make([]MappingRule, 0, len(rules))
	for _, r := range rules {
		if r.Type == RulePattern {
			r.matcher = compileGlob(strings.ToLower(r.Match))
		}
		compiled = append(compiled, r)
	}

	return &Catalog{
		personalities: ps,
		rules:         compiled,
		defaultKey:    defaultKey,
	}
}

// Resolve returns the personality for a sender email.
//
// Order, first match wins:
//  1. exact rules (case-insensitive)
//  2. pattern rules in declared order
//  3. the catalog's default key
//
// A rule whose target key is missing from the catalog is skipped. A missing
// default falls back to the built-in personality so resolution never fails.
func (c *Catalog) Resolve(email string) Personality {
	lower := strings.ToLower(email)

	for _, r := range c.rules {
		if r.Type != RuleExact {
			continue
		}
		if strings.ToLower(r.Match) == lower {
			if p, ok := c.personalities[r.Personality]; ok {
				return p
			}
		}
	}

	for _, r := range c.rules {
		if r.Type != RulePattern || r.matcher == nil {
			continue
		}
		if r.matcher.matches(lower) {
			if p, ok := c.personalities[r.Personality]; ok {
				return p
			}
		}
	}

	if p, ok := c.personalities[c.defaultKey]; ok {
		return p
	}
	return BuiltinDefault()
}

// Get looks up a personality by key
func (c *Catalog) Get(key string) (Personality, bool) {
	p, ok := c.personalities[key]
	return p, ok
}

// List returns all personalities sorted by key
func (c *Catalog) List() []Personality {
	out := make([]Personality, 0, len(c.personalities))
	for _, p := range c.personalities {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// DefaultKey returns the catalog's default personality key
func (c *Catalog) DefaultKey() string {
	return c.defaultKey
}

// globMatcher matches strings against a pattern where '*' stands for any
// run of characters. Compiled once per rule.
type globMatcher struct {
	segments []string // literal segments between wildcards
}

func compileGlob(pattern string) *globMatcher {
	return &globMatcher{segments: strings.Split(pattern, "*")}
}

func (m *globMatcher) matches(s string) bool {
	segs := m.segments
	if len(segs) == 1 {
		return s == segs[0]
	}

	if !strings.HasPrefix(s, segs[0]) {
		return false
	}
	s = s[len(segs[0]):]

	last := segs[len(segs)-1]
	if !strings.HasSuffix(s, last) {
		return false
	}
	s = s[:len(s)-len(last)]

	for _, seg := range segs[1 : len(segs)-1] {
		if seg == "" {
			continue
		}
		idx := strings.Index(s, seg)
		if idx < 0 {
			return false
		}
		s = s[idx+len(seg):]
	}
	return true
}
