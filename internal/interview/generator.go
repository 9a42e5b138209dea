package interview

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/openai/openai-go"

	"github.com/vitalpath/riskscreen/internal/genai"
	"github.com/vitalpath/riskscreen/internal/models"
	"github.com/vitalpath/riskscreen/internal/scoring"
)

// QuestionGenerator produces a personalized question for the current session
// state. Implementations may fail; the sequencer treats any error as "no
// question from this source" and falls back to the static bank.
type QuestionGenerator interface {
	Generate(ctx context.Context, req GenerationRequest) (*models.Question, error)
}

// GenerationRequest carries the session context embedded into the prompt.
type GenerationRequest struct {
	Profile         models.UserProfile
	Answers         *models.AnswerStore
	RemainingSlots  int
	ForbiddenIDs    []string
	PendingCritical []string
}

// GenAIQuestionGenerator asks the reasoning service for one tailored
// follow-up question and converts the structured reply into a Question.
type GenAIQuestionGenerator struct {
	client genai.ClientInterface
}

// NewGenAIQuestionGenerator creates a generator backed by the given client.
func NewGenAIQuestionGenerator(client genai.ClientInterface) *GenAIQuestionGenerator {
	return &GenAIQuestionGenerator{client: client}
}

const generatorSystemPrompt = `You are a clinical interviewer screening for type 2 diabetes and hypertension risk.
Given the patient context, produce ONE follow-up question that sharpens the risk picture.
Reply with a single JSON object and no surrounding prose, using exactly these fields:
{"prompt": string, "kind": "slider"|"yesno"|"select"|"text", "options": [string] (select only), "min": number, "max": number, "unit": string (slider only), "tooltip": string (optional)}
Never repeat a topic already covered by the forbidden or pending question ids.`

// generatedPayload is the loosely-typed reply shape. It is validated per
// declared kind and converted into the strict Question type at this
// boundary; invalid payloads never propagate inward.
type generatedPayload struct {
	Prompt  string   `json:"prompt"`
	Kind    string   `json:"kind"`
	Options []string `json:"options"`
	Min     *float64 `json:"min"`
	Max     *float64 `json:"max"`
	Unit    string   `json:"unit"`
	Tooltip string   `json:"tooltip"`
}

// Generate builds the context prompt, calls the reasoning service, and
// parses the reply. Any transport or parse failure returns an error; no
// session state is touched here, so a failed call leaves nothing partial.
func (g *GenAIQuestionGenerator) Generate(ctx context.Context, req GenerationRequest) (*models.Question, error) {
	if g.client == nil {
		return nil, fmt.Errorf("no reasoning service client configured")
	}

	userPrompt := g.buildUserPrompt(req)
	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(generatorSystemPrompt),
		openai.UserMessage(userPrompt),
	}

	reply, err := g.client.GenerateWithMessages(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("question generation call failed: %w", err)
	}

	question, err := parseGeneratedQuestion(reply)
	if err != nil {
		return nil, fmt.Errorf("question generation reply invalid: %w", err)
	}
	slog.Debug("GenAIQuestionGenerator.Generate: produced question", "id", question.ID, "kind", question.Kind)
	return question, nil
}

// buildUserPrompt embeds the profile, preliminary risk estimates, answer
// history, and duplicate-avoidance constraints into the request text.
func (g *GenAIQuestionGenerator) buildUserPrompt(req GenerationRequest) string {
	diabetes := scoring.ScoreDiabetes(req.Answers)
	hypertension := scoring.ScoreHypertension(req.Answers)

	var b strings.Builder
	fmt.Fprintf(&b, "Patient profile: age %d (%s), sex %s, BMI %.1f (%s), waist %q, tags %s.\n",
		req.Profile.Age, req.Profile.AgeBand, req.Profile.Sex, req.Profile.BMI,
		req.Profile.BMIBand, req.Profile.WaistBand, strings.Join(req.Profile.Tags, ", "))
	fmt.Fprintf(&b, "Preliminary estimates (not final): %s risk %s (score %d), %s risk %s (score %d).\n",
		diabetes.Condition, diabetes.Level, diabetes.AdjustedScore,
		hypertension.Condition, hypertension.Level, hypertension.AdjustedScore)
	b.WriteString("Answers so far:\n")
	for _, a := range req.Answers.All() {
		fmt.Fprintf(&b, "- %s: %v\n", a.Prompt, a.Value)
	}
	fmt.Fprintf(&b, "Remaining interview slots: %d.\n", req.RemainingSlots)
	fmt.Fprintf(&b, "Forbidden question ids (already asked): %s.\n", strings.Join(req.ForbiddenIDs, ", "))
	if len(req.PendingCritical) > 0 {
		fmt.Fprintf(&b, "Reserved clinical topics (do not overlap): %s.\n", strings.Join(req.PendingCritical, ", "))
	}
	b.WriteString("Produce the JSON object now.")
	return b.String()
}

// parseGeneratedQuestion extracts and validates the structured payload from
// a possibly prose-wrapped reply.
func parseGeneratedQuestion(reply string) (*models.Question, error) {
	payload, err := genai.ExtractJSONObject(reply)
	if err != nil {
		return nil, err
	}

	var p generatedPayload
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return nil, fmt.Errorf("payload is not valid JSON: %w", err)
	}
	if strings.TrimSpace(p.Prompt) == "" {
		return nil, models.ErrEmptyPrompt
	}

	q := models.Question{
		ID:       "gen_" + uuid.NewString(),
		Prompt:   strings.TrimSpace(p.Prompt),
		Kind:     models.QuestionKind(p.Kind),
		Tooltip:  strings.TrimSpace(p.Tooltip),
		Required: false,
		Source:   models.SourceGenerated,
	}

	switch q.Kind {
	case models.KindSelect:
		q.Options = p.Options
	case models.KindSlider:
		if p.Min == nil || p.Max == nil {
			return nil, models.ErrInvalidRange
		}
		q.Min = *p.Min
		q.Max = *p.Max
		q.Unit = strings.TrimSpace(p.Unit)
	case models.KindYesNo:
		// Yes/no questions carry the fixed pair regardless of the reply.
		q.Options = []string{"Yes", "No"}
	case models.KindText:
	default:
		return nil, models.ErrInvalidKind
	}

	if err := q.Validate(); err != nil {
		return nil, err
	}
	return &q, nil
}
