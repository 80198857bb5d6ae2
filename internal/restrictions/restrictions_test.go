package restrictions

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMatchesWithTags(t *testing.T) {
	rule := Rule{Name: "friends", WithTags: []string{"private"}, Password: "x"}

	if !rule.Matches([]string{"private", "2024-01-01"}) {
		t.Error("video carrying the required tag should match")
	}
	if rule.Matches([]string{"2024-01-01"}) {
		t.Error("video without the required tag should not match")
	}
}

func TestMatchesWithoutTags(t *testing.T) {
	rule := Rule{Name: "no-drafts", WithoutTags: []string{"draft"}, Password: "x"}

	if !rule.Matches([]string{"social"}) {
		t.Error("rule with only without_tags should act as a blanket filter")
	}
	if rule.Matches([]string{"social", "draft"}) {
		t.Error("excluded tag should block the match")
	}
}

func TestMatchesEmptyRule(t *testing.T) {
	rule := Rule{Name: "everything", Password: "x"}
	if !rule.Matches(nil) {
		t.Error("empty clauses are trivially satisfied")
	}
}

func TestFindRulesPreservesDeclarationOrder(t *testing.T) {
	restrictions := &Restrictions{Rules: []Rule{
		{Name: "second-wins-nothing", WithTags: []string{"absent"}},
		{Name: "family", WithTags: []string{"family"}},
		{Name: "all-private", WithTags: []string{"private"}},
	}}

	matched := restrictions.FindRules([]string{"private", "family"})
	if len(matched) != 2 {
		t.Fatalf("expected 2 matching rules, got %d", len(matched))
	}
	if matched[0].Name != "family" || matched[1].Name != "all-private" {
		t.Errorf("rules out of declaration order: %v", matched)
	}
}

func TestLoadFileMissing(t *testing.T) {
	restrictions, err := LoadFile(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if len(restrictions.Rules) != 0 {
		t.Errorf("missing file should yield an empty rule set")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "restrictions.json")
	content := `{"rules": [{"name": "friends", "with_tags": ["private"], "password": "secret"}]}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write rules: %v", err)
	}

	restrictions, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if len(restrictions.Rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(restrictions.Rules))
	}
	rule := restrictions.Rules[0]
	if rule.Name != "friends" || rule.Password != "secret" || len(rule.WithTags) != 1 {
		t.Errorf("unexpected rule: %+v", rule)
	}
}

func TestLoadFileRejectsInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "restrictions.json")
	if err := os.WriteFile(path, []byte("{"), 0o644); err != nil {
		t.Fatalf("write rules: %v", err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}
