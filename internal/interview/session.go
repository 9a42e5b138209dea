package interview

import (
	"fmt"
	"math/rand/v2"

	"github.com/vitalpath/riskscreen/internal/models"
)

// QuestionLimit is the maximum number of questions served per session.
const QuestionLimit = 14

// DefaultAIBudget is the default number of generated questions per session.
const DefaultAIBudget = 5

// Session holds all state for one interview. A session is single-tenant:
// it is owned by one caller and is never shared across goroutines. Create
// one per interview and thread it through every call; there is no global
// instance.
type Session struct {
	answers   *models.AnswerStore
	used      map[string]bool
	served    map[string]models.Question
	order     []string
	count     int
	bankOrder []int
	aiBudget  int
	generator QuestionGenerator
	rng       *rand.Rand
	providers []questionProvider
}

// SessionOption configures a session.
type SessionOption func(*Session)

// WithGenerator attaches a personalized question generator. Without one the
// session serves only baseline, critical, and fallback bank questions.
func WithGenerator(g QuestionGenerator) SessionOption {
	return func(s *Session) { s.generator = g }
}

// WithRand sets the random source used for bank shuffling, so tests can fix
// the seed and assert exact ordering.
func WithRand(r *rand.Rand) SessionOption {
	return func(s *Session) { s.rng = r }
}

// WithAIBudget overrides the number of generated questions allowed.
func WithAIBudget(n int) SessionOption {
	return func(s *Session) { s.aiBudget = n }
}

// NewSession creates a session with an empty answer store, a zeroed
// question counter, and a freshly shuffled fallback bank.
func NewSession(opts ...SessionOption) *Session {
	s := &Session{aiBudget: DefaultAIBudget}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	s.providers = defaultProviders()
	s.clear()
	return s
}

// clear wipes all per-session interview state and re-randomizes the bank.
func (s *Session) clear() {
	s.answers = models.NewAnswerStore()
	s.used = make(map[string]bool)
	s.served = make(map[string]models.Question)
	s.order = nil
	s.count = 0
	s.bankOrder = ShuffledBankOrder(s.rng)
}

// Reset starts a new interview: the answer store, used-question set, and
// counters are cleared and the fallback bank is re-shuffled. Assessments
// already assembled from the previous interview are unaffected.
func (s *Session) Reset() {
	s.clear()
}

// QuestionCount returns how many questions have been served so far.
func (s *Session) QuestionCount() int {
	return s.count
}

// MaxQuestions returns the per-session question cap.
func (s *Session) MaxQuestions() int {
	return QuestionLimit
}

// Answers returns a snapshot of the answers collected so far.
func (s *Session) Answers() []models.Answer {
	return s.answers.All()
}

// AnswerStore exposes the live answer store for scoring and assembly.
func (s *Session) AnswerStore() *models.AnswerStore {
	return s.answers
}

// ServedQuestion returns a question previously served in this session.
func (s *Session) ServedQuestion(id string) (models.Question, bool) {
	q, ok := s.served[id]
	return q, ok
}

// Profile builds the current derived profile from the answers so far.
func (s *Session) Profile() models.UserProfile {
	return BuildProfile(s.answers)
}

// SaveAnswer validates and records the value for a served question. A later
// call for the same question overwrites the earlier value. Validation
// failures block advancing and must be surfaced to the participant.
func (s *Session) SaveAnswer(question models.Question, value any) error {
	if err := validateAnswer(question, value); err != nil {
		return err
	}
	s.answers.Put(models.Answer{
		QuestionID: question.ID,
		Prompt:     question.Prompt,
		Value:      value,
	})
	return nil
}

// validateAnswer enforces kind-appropriate value shapes before storage.
func validateAnswer(question models.Question, value any) error {
	str, isStr := value.(string)
	if value == nil || (isStr && str == "") {
		if question.Required {
			return models.ErrEmptyAnswer
		}
		return nil
	}

	switch question.Kind {
	case models.KindSelect:
		if !isStr {
			return models.ErrAnswerTypeMismatch
		}
		for _, opt := range question.Options {
			if opt == str {
				return nil
			}
		}
		return models.ErrUnknownOption
	case models.KindYesNo:
		switch v := value.(type) {
		case bool:
			return nil
		case string:
			if v == "Yes" || v == "No" {
				return nil
			}
			return models.ErrAnswerTypeMismatch
		default:
			return models.ErrAnswerTypeMismatch
		}
	case models.KindSlider:
		n, ok := numericValue(value)
		if !ok {
			return models.ErrAnswerTypeMismatch
		}
		if n < question.Min || n > question.Max {
			return models.ErrValueOutOfRange
		}
		return nil
	case models.KindText:
		if !isStr {
			return models.ErrAnswerTypeMismatch
		}
		// The combined height/weight answer must parse as two numbers.
		if question.ID == "height_weight" {
			if _, _, err := models.ParseHeightWeight(str); err != nil {
				return fmt.Errorf("height_weight: %w", models.ErrMalformedPair)
			}
		}
		return nil
	default:
		return models.ErrInvalidKind
	}
}

// numericValue coerces slider submissions, which may arrive as JSON numbers
// or numeric strings.
func numericValue(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		var n float64
		if _, err := fmt.Sscanf(v, "%g", &n); err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
