package restrictions

import (
	"encoding/json"
	"fmt"
	"slices"

	"vidvault/internal/fileutil"
)

// Rule gates videos behind a password: a video matches when it carries every
// tag in WithTags and none of the tags in WithoutTags.
type Rule struct {
	Name        string   `json:"name"`
	WithTags    []string `json:"with_tags,omitempty"`
	WithoutTags []string `json:"without_tags,omitempty"`
	Password    string   `json:"password"`
}

// Matches evaluates the rule against a video's tag set. Empty clauses are
// trivially satisfied: a rule with only WithoutTags acts as a blanket
// exclusion filter.
func (r Rule) Matches(tags []string) bool {
	for _, tag := range r.WithTags {
		if !slices.Contains(tags, tag) {
			return false
		}
	}
	for _, tag := range r.WithoutTags {
		if slices.Contains(tags, tag) {
			return false
		}
	}
	return true
}

// Restrictions is the declared rule set, read-only during a build.
type Restrictions struct {
	Rules []Rule `json:"rules"`
}

// FindRules returns every rule matching the tag set, in declaration order.
// A video may be gated by several independent rules at once, each producing
// its own access token.
func (r *Restrictions) FindRules(tags []string) []Rule {
	var matched []Rule
	for _, rule := range r.Rules {
		if rule.Matches(tags) {
			matched = append(matched, rule)
		}
	}
	return matched
}

// LoadFile reads the restriction rules from a JSON file. A missing file
// yields an empty rule set.
func LoadFile(path string) (*Restrictions, error) {
	data, ok, err := fileutil.ReadFileIfExists(path)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &Restrictions{}, nil
	}
	var restrictions Restrictions
	if err := json.Unmarshal(data, &restrictions); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &restrictions, nil
}
