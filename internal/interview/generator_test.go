package interview

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/openai/openai-go"

	"github.com/vitalpath/riskscreen/internal/models"
)

// fakeGenAIClient returns a canned reply or error.
type fakeGenAIClient struct {
	reply string
	err   error
	calls int
}

func (f *fakeGenAIClient) GenerateWithMessages(_ context.Context, _ []openai.ChatCompletionMessageParamUnion) (string, error) {
	f.calls++
	return f.reply, f.err
}

func TestParseGeneratedQuestionSelect(t *testing.T) {
	reply := `Here is a good follow-up:
{"prompt": "How often do you eat breakfast?", "kind": "select", "options": ["Every day", "Sometimes", "Never"]}`
	q, err := parseGeneratedQuestion(reply)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(q.ID, "gen_") {
		t.Errorf("generated id should carry the gen_ prefix, got %q", q.ID)
	}
	if q.Kind != models.KindSelect || len(q.Options) != 3 {
		t.Errorf("unexpected question shape: %+v", q)
	}
	if q.Source != models.SourceGenerated {
		t.Errorf("source = %s, want %s", q.Source, models.SourceGenerated)
	}
	if q.Required {
		t.Error("generated questions must not be required")
	}
}

func TestParseGeneratedQuestionYesNoForcesOptions(t *testing.T) {
	reply := `{"prompt": "Do you add salt at the table?", "kind": "yesno", "options": ["Always", "Never"]}`
	q, err := parseGeneratedQuestion(reply)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(q.Options) != 2 || q.Options[0] != "Yes" || q.Options[1] != "No" {
		t.Errorf("yesno options not normalized: %v", q.Options)
	}
}

func TestParseGeneratedQuestionRejectsBadPayloads(t *testing.T) {
	cases := []struct {
		name  string
		reply string
		want  error
	}{
		{"no payload", "I cannot produce a question right now.", nil},
		{"empty prompt", `{"prompt": "  ", "kind": "yesno"}`, models.ErrEmptyPrompt},
		{"unknown kind", `{"prompt": "p", "kind": "matrix"}`, models.ErrInvalidKind},
		{"slider without range", `{"prompt": "p", "kind": "slider"}`, models.ErrInvalidRange},
		{"select too few options", `{"prompt": "p", "kind": "select", "options": ["only"]}`, models.ErrTooFewOptions},
	}
	for _, c := range cases {
		q, err := parseGeneratedQuestion(c.reply)
		if err == nil {
			t.Errorf("%s: expected error, got question %+v", c.name, q)
			continue
		}
		if c.want != nil && !errors.Is(err, c.want) {
			t.Errorf("%s: got %v, want %v", c.name, err, c.want)
		}
	}
}

func TestGenAIQuestionGeneratorGenerate(t *testing.T) {
	client := &fakeGenAIClient{reply: `{"prompt": "How many steps do you walk daily?", "kind": "slider", "min": 0, "max": 30000, "unit": "steps"}`}
	gen := NewGenAIQuestionGenerator(client)

	answers := profileAnswers(map[string]any{
		"age":                 50,
		"gender":              "Male",
		"height_weight":       "175/90",
		"waist_circumference": models.WaistLarge,
	})
	q, err := gen.Generate(context.Background(), GenerationRequest{
		Profile:        BuildProfile(answers),
		Answers:        answers,
		RemainingSlots: 9,
		ForbiddenIDs:   []string{"age", "gender"},
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if q.Kind != models.KindSlider || q.Max != 30000 || q.Unit != "steps" {
		t.Errorf("unexpected question: %+v", q)
	}
	if client.calls != 1 {
		t.Errorf("expected one service call, got %d", client.calls)
	}
}

func TestGenAIQuestionGeneratorPropagatesFailure(t *testing.T) {
	gen := NewGenAIQuestionGenerator(&fakeGenAIClient{err: errors.New("timeout")})
	answers := profileAnswers(map[string]any{"age": 40})

	if _, err := gen.Generate(context.Background(), GenerationRequest{Answers: answers}); err == nil {
		t.Fatal("expected error from failing client")
	}
}

func TestBuildUserPromptMentionsConstraints(t *testing.T) {
	gen := NewGenAIQuestionGenerator(&fakeGenAIClient{})
	answers := profileAnswers(map[string]any{
		"age":           58,
		"gender":        "Female",
		"height_weight": "160/85",
	})
	prompt := gen.buildUserPrompt(GenerationRequest{
		Profile:         BuildProfile(answers),
		Answers:         answers,
		RemainingSlots:  7,
		ForbiddenIDs:    []string{"age", "gender", "height_weight"},
		PendingCritical: []string{"daily_vegetables"},
	})

	for _, want := range []string{"Forbidden question ids", "daily_vegetables", "Remaining interview slots: 7"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}
