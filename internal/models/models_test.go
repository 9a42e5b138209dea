package models

import (
	"testing"
)

func TestAnswerStoreOverwrite(t *testing.T) {
	s := NewAnswerStore()
	s.Put(Answer{QuestionID: "age", Prompt: "How old are you?", Value: 40})
	s.Put(Answer{QuestionID: "gender", Prompt: "Sex?", Value: "Female"})
	s.Put(Answer{QuestionID: "age", Prompt: "How old are you?", Value: 41})

	if s.Len() != 2 {
		t.Fatalf("expected 2 answers after overwrite, got %d", s.Len())
	}
	all := s.All()
	if all[0].QuestionID != "age" || all[1].QuestionID != "gender" {
		t.Errorf("overwrite should preserve insertion order, got %v", all)
	}
	if n, ok := s.Number("age"); !ok || n != 41 {
		t.Errorf("expected overwritten age 41, got %v (ok=%v)", n, ok)
	}
}

func TestAnswerStoreCoercion(t *testing.T) {
	s := NewAnswerStore()
	s.Put(Answer{QuestionID: "age", Value: "60"})
	s.Put(Answer{QuestionID: "smoking", Value: "Yes"})
	s.Put(Answer{QuestionID: "active", Value: false})

	if n, ok := s.Number("age"); !ok || n != 60 {
		t.Errorf("string number coercion failed: %v %v", n, ok)
	}
	if b, ok := s.Bool("smoking"); !ok || !b {
		t.Errorf("yes-string coercion failed: %v %v", b, ok)
	}
	if b, ok := s.Bool("active"); !ok || b {
		t.Errorf("bool passthrough failed: %v %v", b, ok)
	}
	if v, ok := s.String("active"); !ok || v != "No" {
		t.Errorf("bool-to-string coercion failed: %q %v", v, ok)
	}
	if _, ok := s.Number("missing"); ok {
		t.Error("missing answer should not coerce")
	}
}

func TestAnswerStoreCloneIndependent(t *testing.T) {
	s := NewAnswerStore()
	s.Put(Answer{QuestionID: "age", Value: 30})
	c := s.Clone()
	c.Put(Answer{QuestionID: "age", Value: 31})

	if n, _ := s.Number("age"); n != 30 {
		t.Errorf("mutating clone changed original: %v", n)
	}
}

func TestParseHeightWeight(t *testing.T) {
	cases := []struct {
		in     string
		height float64
		weight float64
		ok     bool
	}{
		{"170/70", 170, 70, true},
		{"170 cm 70 kg", 170, 70, true},
		{"182.5 / 95.2", 182.5, 95.2, true},
		{"170", 0, 0, false},
		{"tall and heavy", 0, 0, false},
		{"", 0, 0, false},
	}
	for _, c := range cases {
		h, w, err := ParseHeightWeight(c.in)
		if c.ok && err != nil {
			t.Errorf("ParseHeightWeight(%q) unexpected error: %v", c.in, err)
			continue
		}
		if !c.ok {
			if err == nil {
				t.Errorf("ParseHeightWeight(%q) expected error", c.in)
			}
			continue
		}
		if h != c.height || w != c.weight {
			t.Errorf("ParseHeightWeight(%q) = %v/%v, want %v/%v", c.in, h, w, c.height, c.weight)
		}
	}
}

func TestQuestionValidate(t *testing.T) {
	cases := []struct {
		name string
		q    Question
		want error
	}{
		{"valid select", Question{ID: "q", Prompt: "p", Kind: KindSelect, Options: []string{"a", "b"}}, nil},
		{"valid slider", Question{ID: "q", Prompt: "p", Kind: KindSlider, Min: 0, Max: 10}, nil},
		{"missing id", Question{Prompt: "p", Kind: KindText}, ErrEmptyQuestionID},
		{"missing prompt", Question{ID: "q", Kind: KindText}, ErrEmptyPrompt},
		{"bad kind", Question{ID: "q", Prompt: "p", Kind: "dropdown"}, ErrInvalidKind},
		{"select without options", Question{ID: "q", Prompt: "p", Kind: KindSelect}, ErrMissingOptions},
		{"select one option", Question{ID: "q", Prompt: "p", Kind: KindSelect, Options: []string{"a"}}, ErrTooFewOptions},
		{"slider bad range", Question{ID: "q", Prompt: "p", Kind: KindSlider, Min: 5, Max: 5}, ErrInvalidRange},
	}
	for _, c := range cases {
		if got := c.q.Validate(); got != c.want {
			t.Errorf("%s: Validate() = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestRiskLevelOrdering(t *testing.T) {
	ordered := []RiskLevel{RiskLow, RiskSlightlyElevated, RiskModerate, RiskHigh, RiskVeryHigh}
	for i := 1; i < len(ordered); i++ {
		if ordered[i].Rank() <= ordered[i-1].Rank() {
			t.Errorf("expected %s to rank above %s", ordered[i], ordered[i-1])
		}
	}
	if !RiskVeryHigh.AtLeast(RiskHigh) {
		t.Error("very-high should be at least high")
	}
	if RiskModerate.AtLeast(RiskHigh) {
		t.Error("moderate should not be at least high")
	}
	if RiskLevel("bogus").Rank() != -1 {
		t.Error("unknown level should rank below low")
	}
}

func TestAssessmentJSONRoundTrip(t *testing.T) {
	a := DualRiskAssessment{
		Diabetes:        RiskScoreResult{Condition: "type 2 diabetes", RawScore: 10, AdjustedScore: 12, Level: RiskModerate, Probability: "p", Factors: map[string]int{"age": 10}},
		Hypertension:    RiskScoreResult{Condition: "hypertension", RawScore: 3, AdjustedScore: 3, Level: RiskLow, Probability: "p2", Factors: map[string]int{}},
		Summary:         "summary",
		KeyFindings:     []string{"f1", "f2"},
		Recommendations: []string{"r1"},
		UrgentActions:   []string{"u1"},
		Profile:         UserProfile{AgeBand: AgeBandMiddleAged, Sex: "Female", Tags: []string{"overweight"}},
	}
	encoded, err := a.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON error: %v", err)
	}
	var decoded DualRiskAssessment
	if err := decoded.FromJSON(encoded); err != nil {
		t.Fatalf("FromJSON error: %v", err)
	}
	if decoded.Summary != a.Summary || decoded.Diabetes.Level != a.Diabetes.Level {
		t.Errorf("round trip lost fields: %+v", decoded)
	}
	if len(decoded.KeyFindings) != 2 || decoded.Diabetes.Factors["age"] != 10 {
		t.Errorf("round trip lost nested fields: %+v", decoded)
	}
}
