// Package models defines the core data structures for riskscreen.
//
// It includes types for interview questions, answers, derived profiles, and
// the assembled risk assessment, which are shared across modules.
package models

import (
	"errors"
)

// QuestionKind defines how the answer to a question is captured.
type QuestionKind string

const (
	// KindSlider captures a numeric value within [Min, Max].
	KindSlider QuestionKind = "slider"
	// KindYesNo captures a boolean choice.
	KindYesNo QuestionKind = "yesno"
	// KindSelect captures one value from a fixed option list.
	KindSelect QuestionKind = "select"
	// KindText captures free text.
	KindText QuestionKind = "text"
)

// QuestionSource records where a question came from.
type QuestionSource string

const (
	// SourceStatic marks questions from the fixed catalogs (baseline, critical, bank).
	SourceStatic QuestionSource = "static"
	// SourceGenerated marks questions produced by the reasoning service.
	SourceGenerated QuestionSource = "generated"
)

// Validation constants for question construction.
const (
	// MaxPromptLength defines the maximum allowed length for a question prompt.
	MaxPromptLength = 1024
	// MinSelectOptions defines the minimum number of options for select questions.
	MinSelectOptions = 2
	// MaxSelectOptions defines the maximum number of options for select questions.
	MaxSelectOptions = 8
)

// Error variables for question validation.
var (
	ErrEmptyQuestionID    = errors.New("question id cannot be empty")
	ErrEmptyPrompt        = errors.New("question prompt cannot be empty")
	ErrPromptTooLong      = errors.New("question prompt exceeds maximum length")
	ErrInvalidKind        = errors.New("invalid question kind")
	ErrMissingOptions     = errors.New("options are required for select questions")
	ErrTooFewOptions      = errors.New("select questions need at least two options")
	ErrTooManyOptions     = errors.New("too many select options")
	ErrInvalidRange       = errors.New("slider questions need min < max")
	ErrEmptyAnswer        = errors.New("answer value is required")
	ErrUnknownOption      = errors.New("answer is not one of the question options")
	ErrValueOutOfRange    = errors.New("numeric answer outside question bounds")
	ErrMalformedPair      = errors.New("height/weight answer must contain two numbers")
	ErrAnswerTypeMismatch = errors.New("answer value type does not match question kind")
)

// IsValidQuestionKind checks if the given question kind is supported.
func IsValidQuestionKind(k QuestionKind) bool {
	switch k {
	case KindSlider, KindYesNo, KindSelect, KindText:
		return true
	default:
		return false
	}
}

// Predicate gates a question on answers already collected this session.
// A nil Predicate means the question is always eligible.
type Predicate func(answers *AnswerStore) bool

// Question represents a single interview question. A Question is immutable
// once created; in particular Source never changes after construction.
type Question struct {
	ID       string         `json:"id"`
	Prompt   string         `json:"prompt"`
	Kind     QuestionKind   `json:"kind"`
	Options  []string       `json:"options,omitempty"`
	Min      float64        `json:"min,omitempty"`
	Max      float64        `json:"max,omitempty"`
	Unit     string         `json:"unit,omitempty"`
	Required bool           `json:"required"`
	Source   QuestionSource `json:"source"`
	Tooltip  string         `json:"tooltip,omitempty"`

	// Eligible is evaluated against the session's answers before the
	// question may be served from the fallback bank. Not serialized.
	Eligible Predicate `json:"-"`
}

// Validate performs structural validation on a Question.
func (q *Question) Validate() error {
	if q.ID == "" {
		return ErrEmptyQuestionID
	}
	if q.Prompt == "" {
		return ErrEmptyPrompt
	}
	if len(q.Prompt) > MaxPromptLength {
		return ErrPromptTooLong
	}
	if !IsValidQuestionKind(q.Kind) {
		return ErrInvalidKind
	}
	switch q.Kind {
	case KindSelect:
		if len(q.Options) == 0 {
			return ErrMissingOptions
		}
		if len(q.Options) < MinSelectOptions {
			return ErrTooFewOptions
		}
		if len(q.Options) > MaxSelectOptions {
			return ErrTooManyOptions
		}
	case KindSlider:
		if q.Min >= q.Max {
			return ErrInvalidRange
		}
	}
	return nil
}
