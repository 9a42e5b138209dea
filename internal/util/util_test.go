package util

import (
	"strings"
	"testing"
	"time"
)

func TestParseBoolEnv(t *testing.T) {
	cases := []struct {
		value    string
		fallback bool
		want     bool
	}{
		{"", true, true},
		{"true", false, true},
		{"YES", false, true},
		{" on ", false, true},
		{"0", true, false},
		{"off", true, false},
		{"garbage", true, true},
		{"garbage", false, false},
	}
	for _, c := range cases {
		t.Setenv("RISKSCREEN_TEST_BOOL", c.value)
		if got := ParseBoolEnv("RISKSCREEN_TEST_BOOL", c.fallback); got != c.want {
			t.Errorf("ParseBoolEnv(%q, %v) = %v, want %v", c.value, c.fallback, got, c.want)
		}
	}
}

func TestParseIntEnv(t *testing.T) {
	t.Setenv("RISKSCREEN_TEST_INT", " 42 ")
	if got := ParseIntEnv("RISKSCREEN_TEST_INT", 7); got != 42 {
		t.Errorf("got %d, want 42", got)
	}
	t.Setenv("RISKSCREEN_TEST_INT", "not a number")
	if got := ParseIntEnv("RISKSCREEN_TEST_INT", 7); got != 7 {
		t.Errorf("invalid value should use default, got %d", got)
	}
}

func TestParseDurationEnv(t *testing.T) {
	t.Setenv("RISKSCREEN_TEST_DUR", "45s")
	if got := ParseDurationEnv("RISKSCREEN_TEST_DUR", time.Minute); got != 45*time.Second {
		t.Errorf("got %v, want 45s", got)
	}
	t.Setenv("RISKSCREEN_TEST_DUR", "soon")
	if got := ParseDurationEnv("RISKSCREEN_TEST_DUR", time.Minute); got != time.Minute {
		t.Errorf("invalid value should use default, got %v", got)
	}
}

func TestGenerateSessionID(t *testing.T) {
	id := GenerateSessionID()
	if !strings.HasPrefix(id, "s_") {
		t.Errorf("session id missing prefix: %q", id)
	}
	if len(id) != 34 {
		t.Errorf("session id length = %d, want 34", len(id))
	}
	for _, c := range id[2:] {
		if !strings.ContainsRune("0123456789abcdef", c) {
			t.Errorf("non-hex character %q in %q", c, id)
		}
	}
	if id == GenerateSessionID() {
		t.Error("consecutive session ids collide")
	}
}

func TestGenerateRandomHex(t *testing.T) {
	if got := GenerateRandomHex(0); got != "" {
		t.Errorf("zero length should be empty, got %q", got)
	}
	if got := GenerateRandomHex(-3); got != "" {
		t.Errorf("negative length should be empty, got %q", got)
	}
	if got := GenerateRandomHex(16); len(got) != 16 {
		t.Errorf("length = %d, want 16", len(got))
	}
}
