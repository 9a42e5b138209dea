package interview

import (
	"context"
	"log/slog"

	"github.com/vitalpath/riskscreen/internal/models"
)

// questionProvider is one strategy in the sequencing chain. Returning nil
// means "no question from this source for this slot"; the sequencer then
// consults the next provider. The chain makes the precedence order
// (baseline, then critical, then generated, then fallback) an explicit,
// testable structure instead of nested conditionals.
type questionProvider struct {
	name string
	next func(ctx context.Context, s *Session) *models.Question
}

// defaultProviders returns the sequencing chain in precedence order.
func defaultProviders() []questionProvider {
	return []questionProvider{
		{name: "baseline", next: nextBaseline},
		{name: "critical", next: nextCritical},
		{name: "generated", next: nextGenerated},
		{name: "fallback", next: nextFallback},
	}
}

// NextQuestion decides what to ask at the current slot, or returns nil when
// the interview is complete: either the question cap is reached or no source
// has an eligible question left. Every served question id is recorded and is
// never served again within the session.
func (s *Session) NextQuestion(ctx context.Context) *models.Question {
	if s.count >= QuestionLimit {
		slog.Debug("Sequencer.NextQuestion: question limit reached", "count", s.count)
		return nil
	}
	for _, p := range s.providers {
		q := p.next(ctx, s)
		if q == nil {
			continue
		}
		if s.used[q.ID] {
			// A provider must never re-offer a served id; skip it rather
			// than break the no-repeat invariant.
			slog.Warn("Sequencer.NextQuestion: provider offered used id", "provider", p.name, "id", q.ID)
			continue
		}
		s.used[q.ID] = true
		s.served[q.ID] = *q
		s.order = append(s.order, q.ID)
		s.count++
		slog.Debug("Sequencer.NextQuestion: serving question", "provider", p.name, "id", q.ID, "slot", s.count)
		return q
	}
	slog.Debug("Sequencer.NextQuestion: no eligible question remains", "count", s.count)
	return nil
}

// nextBaseline serves the fixed four baseline questions, in order, for the
// first four slots regardless of any answers given.
func nextBaseline(_ context.Context, s *Session) *models.Question {
	if s.count >= len(baselineQuestions) {
		return nil
	}
	q := baselineQuestions[s.count]
	return &q
}

// nextCritical serves the earliest due critical question, one per call. A
// critical question becomes due once the interview reaches its slot and is
// served before any generated or fallback question.
func nextCritical(_ context.Context, s *Session) *models.Question {
	slot := s.count + 1
	for _, cq := range criticalQuestions {
		if cq.Slot > slot {
			break
		}
		if s.used[cq.Question.ID] {
			continue
		}
		q := cq.Question
		return &q
	}
	return nil
}

// nextGenerated attempts a personalized question when the generation budget
// allows. Any failure is logged and swallowed: the sequencer falls back to
// the static bank for this slot only.
func nextGenerated(ctx context.Context, s *Session) *models.Question {
	if s.generator == nil || s.aiBudget <= 0 {
		return nil
	}
	if !baselineComplete(s.answers) {
		return nil
	}

	var pending []string
	for _, cq := range criticalQuestions {
		if !s.used[cq.Question.ID] {
			pending = append(pending, cq.Question.ID)
		}
	}
	forbidden := make([]string, len(s.order))
	copy(forbidden, s.order)

	q, err := s.generator.Generate(ctx, GenerationRequest{
		Profile:         BuildProfile(s.answers),
		Answers:         s.answers,
		RemainingSlots:  QuestionLimit - s.count,
		ForbiddenIDs:    forbidden,
		PendingCritical: pending,
	})
	if err != nil {
		slog.Warn("Sequencer.nextGenerated: generation failed, falling back", "error", err)
		return nil
	}
	if q == nil || s.used[q.ID] {
		return nil
	}
	s.aiBudget--
	return q
}

// nextFallback selects from the shuffled static bank. Eligible required
// questions are always preferred over eligible optional ones; ties within
// each group follow the session's pre-shuffled order.
func nextFallback(_ context.Context, s *Session) *models.Question {
	if q := s.pickFromBank(true); q != nil {
		return q
	}
	return s.pickFromBank(false)
}

// pickFromBank returns the first unused, eligible bank question with the
// given required flag, in shuffled order.
func (s *Session) pickFromBank(required bool) *models.Question {
	for _, idx := range s.bankOrder {
		q := bankQuestions[idx]
		if q.Required != required || s.used[q.ID] {
			continue
		}
		if q.Eligible != nil && !q.Eligible(s.answers) {
			continue
		}
		return &q
	}
	return nil
}
