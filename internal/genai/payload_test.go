package genai

import (
	"errors"
	"testing"
)

func TestExtractJSONObject(t *testing.T) {
	cases := []struct {
		name  string
		reply string
		want  string
	}{
		{
			name:  "bare object",
			reply: `{"id":"q1","prompt":"How often?"}`,
			want:  `{"id":"q1","prompt":"How often?"}`,
		},
		{
			name:  "prose wrapped",
			reply: `Sure! Here is the question you asked for: {"id":"q1"} Hope that helps.`,
			want:  `{"id":"q1"}`,
		},
		{
			name:  "code fenced",
			reply: "Here you go:\n```json\n{\"id\":\"q1\",\"kind\":\"yesno\"}\n```\n",
			want:  `{"id":"q1","kind":"yesno"}`,
		},
		{
			name:  "nested object",
			reply: `{"outer":{"inner":1},"b":2}`,
			want:  `{"outer":{"inner":1},"b":2}`,
		},
		{
			name:  "braces inside strings",
			reply: `{"prompt":"use {curly} braces and \"quotes\" freely"}`,
			want:  `{"prompt":"use {curly} braces and \"quotes\" freely"}`,
		},
	}
	for _, c := range cases {
		got, err := ExtractJSONObject(c.reply)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", c.name, err)
			continue
		}
		if got != c.want {
			t.Errorf("%s: got %q, want %q", c.name, got, c.want)
		}
	}
}

func TestExtractJSONObjectErrors(t *testing.T) {
	if _, err := ExtractJSONObject("no json here at all"); !errors.Is(err, ErrNoPayload) {
		t.Errorf("expected ErrNoPayload, got %v", err)
	}
	if _, err := ExtractJSONObject(`{"id":"q1"`); !errors.Is(err, ErrUnbalancedPayload) {
		t.Errorf("expected ErrUnbalancedPayload, got %v", err)
	}
}

func TestExtractJSONArray(t *testing.T) {
	reply := "The twelve items:\n```\n[{\"title\":\"a\"},{\"title\":\"b\"}]\n```"
	got, err := ExtractJSONArray(reply)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `[{"title":"a"},{"title":"b"}]`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	if _, err := ExtractJSONArray("nothing structured"); !errors.Is(err, ErrNoPayload) {
		t.Errorf("expected ErrNoPayload, got %v", err)
	}
}
