package models

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var numberPattern = regexp.MustCompile(`\d+(?:\.\d+)?`)

// ParseHeightWeight extracts the height (cm) and weight (kg) pair from the
// combined height/weight answer value. The two numbers may be separated by
// any non-numeric text ("170/70", "170 cm 70 kg").
func ParseHeightWeight(value string) (height, weight float64, err error) {
	matches := numberPattern.FindAllString(value, -1)
	if len(matches) < 2 {
		return 0, 0, ErrMalformedPair
	}
	height, err = strconv.ParseFloat(matches[0], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid height: %w", err)
	}
	weight, err = strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid weight: %w", err)
	}
	if height <= 0 || weight <= 0 {
		return 0, 0, ErrMalformedPair
	}
	return height, weight, nil
}

// Answer holds the submitted value for one question. The question prompt is
// echoed so that narrative generation can quote it without a catalog lookup.
type Answer struct {
	QuestionID string `json:"question_id"`
	Prompt     string `json:"prompt"`
	Value      any    `json:"value"`
}

// AnswerStore is an ordered collection of answers for one session. It holds
// at most one Answer per question id; a later write for the same id replaces
// the earlier value in place, preserving the original position.
type AnswerStore struct {
	answers []Answer
	index   map[string]int
}

// NewAnswerStore creates an empty answer store.
func NewAnswerStore() *AnswerStore {
	return &AnswerStore{index: make(map[string]int)}
}

// Put records the answer for a question, overwriting any earlier value.
func (s *AnswerStore) Put(a Answer) {
	if i, ok := s.index[a.QuestionID]; ok {
		s.answers[i] = a
		return
	}
	s.index[a.QuestionID] = len(s.answers)
	s.answers = append(s.answers, a)
}

// Get returns the answer for a question id, if present.
func (s *AnswerStore) Get(id string) (Answer, bool) {
	i, ok := s.index[id]
	if !ok {
		return Answer{}, false
	}
	return s.answers[i], true
}

// Has reports whether the question has been answered.
func (s *AnswerStore) Has(id string) bool {
	_, ok := s.index[id]
	return ok
}

// Len returns the number of distinct answered questions.
func (s *AnswerStore) Len() int {
	return len(s.answers)
}

// All returns a copy of the answers in insertion order.
func (s *AnswerStore) All() []Answer {
	out := make([]Answer, len(s.answers))
	copy(out, s.answers)
	return out
}

// Clone returns an independent copy of the store.
func (s *AnswerStore) Clone() *AnswerStore {
	c := NewAnswerStore()
	for _, a := range s.answers {
		c.Put(a)
	}
	return c
}

// String returns the answer for id coerced to a string.
func (s *AnswerStore) String(id string) (string, bool) {
	a, ok := s.Get(id)
	if !ok {
		return "", false
	}
	switch v := a.Value.(type) {
	case string:
		return v, true
	case bool:
		if v {
			return "Yes", true
		}
		return "No", true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case int:
		return strconv.Itoa(v), true
	default:
		return "", false
	}
}

// Number returns the answer for id coerced to a float64. String values are
// parsed after trimming any trailing unit text.
func (s *AnswerStore) Number(id string) (float64, bool) {
	a, ok := s.Get(id)
	if !ok {
		return 0, false
	}
	switch v := a.Value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		fields := strings.Fields(strings.TrimSpace(v))
		if len(fields) == 0 {
			return 0, false
		}
		n, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// Bool returns the answer for id coerced to a boolean. "yes"/"true"/"1"
// strings count as true, "no"/"false"/"0" as false (case-insensitive).
func (s *AnswerStore) Bool(id string) (bool, bool) {
	a, ok := s.Get(id)
	if !ok {
		return false, false
	}
	switch v := a.Value.(type) {
	case bool:
		return v, true
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "yes", "true", "1":
			return true, true
		case "no", "false", "0":
			return false, true
		}
		return false, false
	default:
		return false, false
	}
}
