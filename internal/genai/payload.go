package genai

import (
	"errors"
	"strings"
)

// Error variables for payload extraction.
var (
	ErrNoPayload         = errors.New("no structured payload found in reply")
	ErrUnbalancedPayload = errors.New("structured payload is not balanced")
)

// ExtractJSONObject locates the first balanced JSON object in a reply that
// may be wrapped in prose or markdown code fences, and returns it verbatim.
func ExtractJSONObject(reply string) (string, error) {
	return extractBalanced(reply, '{', '}')
}

// ExtractJSONArray locates the first balanced JSON array in a reply.
func ExtractJSONArray(reply string) (string, error) {
	return extractBalanced(reply, '[', ']')
}

// extractBalanced scans for the first occurrence of open and returns the
// substring up to its matching close, tracking string literals and escapes so
// braces inside quoted text do not confuse the balance count.
func extractBalanced(reply string, open, close byte) (string, error) {
	s := stripCodeFences(reply)
	start := strings.IndexByte(s, open)
	if start < 0 {
		return "", ErrNoPayload
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return s[start : i+1], nil
			}
		}
	}
	return "", ErrUnbalancedPayload
}

// stripCodeFences removes markdown code fence markers so fenced payloads are
// scanned like any other text.
func stripCodeFences(s string) string {
	if !strings.Contains(s, "```") {
		return s
	}
	var b strings.Builder
	for _, line := range strings.Split(s, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}
