package patterns

import "testing"

func TestCaseNameMatchesCommonSeparators(t *testing.T) {
	for _, line := range []string{
		"Smith v. Jones",
		"Smith v Jones",
		"Smith vs. Jones",
	} {
		m := CaseName.FindStringSubmatch(line)
		if m == nil {
			t.Errorf("CaseName did not match %q", line)
			continue
		}
		if m[1] != "Smith " && m[1] != "Smith" {
			t.Errorf("CaseName plaintiff group = %q for %q", m[1], line)
		}
	}
	if CaseName.MatchString("smith v. jones") {
		t.Error("CaseName matched a lowercase caption")
	}
}

func TestCitationOrderIsMostAuthoritativeFirst(t *testing.T) {
	if len(Citations) != 5 {
		t.Fatalf("len(Citations) = %d", len(Citations))
	}
	if !Citations[0].MatchString("410 U.S. 113") {
		t.Error("first citation pattern must match U.S. Reports")
	}
	if !Citations[2].MatchString("994 F.3d 1086") {
		t.Error("third citation pattern must match the Federal Reporter")
	}
}

func TestCourtPatternsFederalBeforeState(t *testing.T) {
	sawState := false
	for i, cp := range Courts {
		if cp.Level == "State" {
			sawState = true
		}
		if sawState && cp.Level == "Federal" {
			t.Errorf("Courts[%d] is Federal after a State pattern; ordering lets state patterns shadow federal courts", i)
		}
	}
}

func TestDispositionOrderResolvesPartialRulings(t *testing.T) {
	idx := func(keyword string) int {
		for i, r := range Dispositions {
			if r.Keyword == keyword {
				return i
			}
		}
		t.Fatalf("keyword %q missing from Dispositions", keyword)
		return -1
	}
	if idx("affirmed") > idx("affirmed in part") {
		t.Error("\"affirmed\" must precede \"affirmed in part\"")
	}
	if idx("reversed") > idx("reversed in part") {
		t.Error("\"reversed\" must precede \"reversed in part\"")
	}
}

func TestTopicsKeywordsAreLowercase(t *testing.T) {
	for _, rule := range Topics {
		for _, r := range rule.Keyword {
			if r >= 'A' && r <= 'Z' {
				t.Errorf("topic keyword %q is not lowercase; it can never match lowercased text", rule.Keyword)
			}
		}
	}
}

func TestEvidenceTaxonomyIsClosed(t *testing.T) {
	allowed := map[string]bool{
		"Documentary Evidence":    true,
		"Testimonial Evidence":    true,
		"Expert Testimony":        true,
		"Physical Evidence":       true,
		"Digital Evidence":        true,
		"Statistical Evidence":    true,
		"Circumstantial Evidence": true,
		"Character Evidence":      true,
	}
	for _, rule := range Evidence {
		if !allowed[rule.Category] {
			t.Errorf("evidence keyword %q maps to unknown category %q", rule.Keyword, rule.Category)
		}
	}
}

func TestMoneyPattern(t *testing.T) {
	tests := []struct {
		text  string
		group string
	}{
		{"awarded $15 million", "15"},
		{"a $500,000 bond", "500,000"},
		{"paid 250 dollars", "250"},
	}
	for _, tt := range tests {
		m := Money.FindStringSubmatch(tt.text)
		if m == nil {
			t.Errorf("Money did not match %q", tt.text)
			continue
		}
		got := m[1]
		if got == "" {
			got = m[2]
		}
		if got != tt.group {
			t.Errorf("Money amount group = %q for %q, want %q", got, tt.text, tt.group)
		}
	}
	if Money.MatchString("no amounts in sight") {
		t.Error("Money matched text without amounts")
	}
}
