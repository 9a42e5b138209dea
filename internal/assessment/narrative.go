package assessment

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/openai/openai-go"

	"github.com/vitalpath/riskscreen/internal/genai"
	"github.com/vitalpath/riskscreen/internal/models"
)

const narrativeSystemPrompt = `You are a clinician writing for a patient who just completed a metabolic risk screening.
Write a four-paragraph narrative in plain, warm language: (1) what the screening looked at,
(2) what their answers showed, (3) what their two risk levels mean, (4) what to do next.
Do not invent measurements that were not provided. Reply with the narrative text only.`

// EnhanceNarrative asks the reasoning service for a long-form clinical
// narrative and returns a copy of the assessment with only the Narrative
// field added. On any failure the input assessment is returned unchanged;
// no error escapes this boundary.
func EnhanceNarrative(ctx context.Context, client genai.ClientInterface, a models.DualRiskAssessment) models.DualRiskAssessment {
	if client == nil {
		return a
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Diabetes risk: %s (%s).\n", a.Diabetes.Level, a.Diabetes.Probability)
	fmt.Fprintf(&b, "Blood pressure risk: %s (%s).\n", a.Hypertension.Level, a.Hypertension.Probability)
	b.WriteString("Key findings:\n")
	for _, f := range a.KeyFindings {
		fmt.Fprintf(&b, "- %s\n", f)
	}
	fmt.Fprintf(&b, "Summary shown to the patient: %s\n", a.Summary)

	reply, err := client.GenerateWithMessages(ctx, []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(narrativeSystemPrompt),
		openai.UserMessage(b.String()),
	})
	if err != nil {
		slog.Warn("assessment.EnhanceNarrative: generation failed, keeping assessment unchanged", "error", err)
		return a
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		slog.Warn("assessment.EnhanceNarrative: empty narrative reply, keeping assessment unchanged")
		return a
	}

	enhanced := a
	enhanced.Narrative = reply
	return enhanced
}
