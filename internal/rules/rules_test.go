package rules

import (
	"errors"
	"testing"
)

func TestCatalogIDsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, rule := range Catalog() {
		if rule.ID == "" {
			t.Errorf("rule %q has empty ID", rule.Name)
		}
		if seen[rule.ID] {
			t.Errorf("duplicate rule ID %q", rule.ID)
		}
		seen[rule.ID] = true

		if len(rule.Patterns) == 0 {
			t.Errorf("rule %q has no patterns", rule.ID)
		}
		if rule.Reason == "" {
			t.Errorf("rule %q has no reason", rule.ID)
		}
	}
}

func TestResolveKnownProfiles(t *testing.T) {
	for _, name := range []string{"quick", "developer", "creative", "deep"} {
		ruleSet, err := Resolve(name)
		if err != nil {
			t.Fatalf("Resolve(%q) failed: %v", name, err)
		}
		if len(ruleSet) == 0 {
			t.Errorf("Resolve(%q) returned no rules", name)
		}
	}
}

func TestResolveUnknownProfile(t *testing.T) {
	_, err := Resolve("turbo")
	if !errors.Is(err, ErrUnknownProfile) {
		t.Fatalf("err = %v, want ErrUnknownProfile", err)
	}
}

func TestQuickIsSubsetOfDeep(t *testing.T) {
	deep, err := Resolve("deep")
	if err != nil {
		t.Fatal(err)
	}
	inDeep := make(map[string]bool, len(deep))
	for _, rule := range deep {
		inDeep[rule.ID] = true
	}

	quick, err := Resolve("quick")
	if err != nil {
		t.Fatal(err)
	}
	for _, rule := range quick {
		if !inDeep[rule.ID] {
			t.Errorf("quick rule %q missing from deep", rule.ID)
		}
	}
}

func TestQuickContainsOnlySafeRules(t *testing.T) {
	quick, err := Resolve("quick")
	if err != nil {
		t.Fatal(err)
	}
	for _, rule := range quick {
		if rule.Risk == RiskRisky {
			t.Errorf("quick profile includes risky rule %q", rule.ID)
		}
	}
}

func TestList(t *testing.T) {
	list := List()
	if len(list) != 4 {
		t.Fatalf("profiles = %d, want 4", len(list))
	}
	for _, p := range list {
		if p.Description == "" || p.RuleCount == 0 {
			t.Errorf("profile %q has incomplete metadata: %+v", p.Name, p)
		}
	}
}

func TestParseCategoryRoundTrip(t *testing.T) {
	for _, c := range []Category{CategoryCache, CategoryLog, CategoryLeftover, CategoryDocker, CategoryPrivacy} {
		parsed, err := ParseCategory(c.String())
		if err != nil || parsed != c {
			t.Errorf("ParseCategory(%q) = %v, %v", c.String(), parsed, err)
		}
	}
	if _, err := ParseCategory("junk"); err == nil {
		t.Error("ParseCategory(junk) succeeded")
	}
}

func TestParseRisk(t *testing.T) {
	if r, err := ParseRisk("caution"); err != nil || r != RiskCaution {
		t.Errorf("ParseRisk(caution) = %v, %v", r, err)
	}
	if _, err := ParseRisk("extreme"); err == nil {
		t.Error("ParseRisk(extreme) succeeded")
	}
}
