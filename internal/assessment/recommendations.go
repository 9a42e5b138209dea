package assessment

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/openai/openai-go"

	"github.com/vitalpath/riskscreen/internal/genai"
	"github.com/vitalpath/riskscreen/internal/models"
)

// RecommendationCount is the fixed size of the action-item list: two items
// for each of the six categories.
const RecommendationCount = 12

const recommendationSystemPrompt = `You are a preventive-medicine advisor. Produce exactly 12 action items
for the patient described below: two for each category diet, exercise, medical, monitoring, stress, lifestyle.
Reply with a single JSON array and no surrounding prose. Each element must have exactly these fields:
{"title": string, "description": string, "action": string, "frequency": string, "category": string, "priority": "low"|"medium"|"high"|"urgent", "icon": string}`

// RecommendationGenerator produces the structured action-item list, asking
// the reasoning service first and falling back to the static set.
type RecommendationGenerator struct {
	client genai.ClientInterface
}

// NewRecommendationGenerator creates a generator backed by the given client.
// A nil client always yields the static fallback list.
func NewRecommendationGenerator(client genai.ClientInterface) *RecommendationGenerator {
	return &RecommendationGenerator{client: client}
}

// recommendationPayload is the loosely-typed reply element, validated and
// coerced at this boundary.
type recommendationPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Action      string `json:"action"`
	Frequency   string `json:"frequency"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
	Icon        string `json:"icon"`
}

// Generate returns the 12-item action list for an assessment. Service or
// parse failures never propagate: the static fallback list is returned with
// priorities escalated for any condition at high or very-high risk.
func (g *RecommendationGenerator) Generate(ctx context.Context, a models.DualRiskAssessment, answers *models.AnswerStore) []models.RecommendationItem {
	items, err := g.fromService(ctx, a, answers)
	if err != nil {
		slog.Warn("RecommendationGenerator.Generate: using static fallback", "error", err)
		return StaticRecommendations(a.Diabetes.Level, a.Hypertension.Level)
	}
	return items
}

// fromService requests and validates the generated list.
func (g *RecommendationGenerator) fromService(ctx context.Context, a models.DualRiskAssessment, answers *models.AnswerStore) ([]models.RecommendationItem, error) {
	if g.client == nil {
		return nil, fmt.Errorf("no reasoning service client configured")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Diabetes risk: %s. Blood pressure risk: %s.\n", a.Diabetes.Level, a.Hypertension.Level)
	b.WriteString("Key findings:\n")
	for _, f := range a.KeyFindings {
		fmt.Fprintf(&b, "- %s\n", f)
	}
	b.WriteString("Patient answers:\n")
	for _, ans := range answers.All() {
		fmt.Fprintf(&b, "- %s: %v\n", ans.Prompt, ans.Value)
	}
	b.WriteString("Produce the JSON array now.")

	reply, err := g.client.GenerateWithMessages(ctx, []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(recommendationSystemPrompt),
		openai.UserMessage(b.String()),
	})
	if err != nil {
		return nil, fmt.Errorf("recommendation call failed: %w", err)
	}

	payload, err := genai.ExtractJSONArray(reply)
	if err != nil {
		return nil, fmt.Errorf("recommendation reply unparseable: %w", err)
	}
	var raw []recommendationPayload
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return nil, fmt.Errorf("recommendation payload is not valid JSON: %w", err)
	}
	if len(raw) != RecommendationCount {
		return nil, fmt.Errorf("expected %d recommendations, got %d", RecommendationCount, len(raw))
	}

	items := make([]models.RecommendationItem, 0, len(raw))
	for _, p := range raw {
		if strings.TrimSpace(p.Title) == "" || strings.TrimSpace(p.Action) == "" {
			return nil, fmt.Errorf("recommendation item missing title or action")
		}
		// Unrecognized categories and priorities are coerced to safe
		// defaults instead of rejecting the whole batch.
		category := models.RecommendationCategory(strings.ToLower(strings.TrimSpace(p.Category)))
		if !models.IsValidCategory(category) {
			category = models.CategoryLifestyle
		}
		priority := models.RecommendationPriority(strings.ToLower(strings.TrimSpace(p.Priority)))
		if !models.IsValidPriority(priority) {
			priority = models.PriorityMedium
		}
		icon := p.Icon
		if icon == "" {
			icon = categoryIcons[category]
		}
		items = append(items, models.RecommendationItem{
			Title:           strings.TrimSpace(p.Title),
			Description:     strings.TrimSpace(p.Description),
			Action:          strings.TrimSpace(p.Action),
			Frequency:       strings.TrimSpace(p.Frequency),
			Category:        category,
			Priority:        priority,
			Icon:            icon,
			EvidenceBased:   true,
			ContextRelevant: true,
		})
	}
	return items, nil
}

// categoryIcons supplies a glyph when the service omits one.
var categoryIcons = map[models.RecommendationCategory]string{
	models.CategoryDiet:       "🥗",
	models.CategoryExercise:   "🏃",
	models.CategoryMedical:    "💊",
	models.CategoryMonitoring: "🩺",
	models.CategoryStress:     "🧘",
	models.CategoryLifestyle:  "🌱",
}

// staticRecommendation pairs a fallback item with the condition whose risk
// level escalates its priority.
type staticRecommendation struct {
	item        models.RecommendationItem
	escalatesOn string // "diabetes", "hypertension", or "both"
}

var staticRecommendations = []staticRecommendation{
	{escalatesOn: "diabetes", item: models.RecommendationItem{Title: "Rebalance your plate", Description: "Carbohydrate-heavy meals drive glucose spikes.", Action: "Fill half of every plate with non-starchy vegetables.", Frequency: "Every meal", Category: models.CategoryDiet, Priority: models.PriorityHigh, Icon: "🥗", EvidenceBased: true}},
	{escalatesOn: "hypertension", item: models.RecommendationItem{Title: "Cut back on salt", Description: "Sodium is the strongest dietary driver of blood pressure.", Action: "Keep added salt under one teaspoon per day and check labels on processed food.", Frequency: "Daily", Category: models.CategoryDiet, Priority: models.PriorityHigh, Icon: "🧂", EvidenceBased: true}},
	{escalatesOn: "both", item: models.RecommendationItem{Title: "Walk most days", Description: "Moderate activity improves insulin sensitivity and vascular tone.", Action: "Take a brisk 30-minute walk.", Frequency: "5 days a week", Category: models.CategoryExercise, Priority: models.PriorityHigh, Icon: "🏃", EvidenceBased: true}},
	{escalatesOn: "both", item: models.RecommendationItem{Title: "Add strength work", Description: "Muscle mass buffers blood glucose.", Action: "Do two short resistance sessions, such as bodyweight exercises.", Frequency: "Twice a week", Category: models.CategoryExercise, Priority: models.PriorityMedium, Icon: "🏋️", EvidenceBased: true}},
	{escalatesOn: "both", item: models.RecommendationItem{Title: "See your doctor", Description: "A clinician can order the confirmatory tests this screening cannot.", Action: "Book a primary care appointment and bring your risk summary.", Frequency: "Once, soon", Category: models.CategoryMedical, Priority: models.PriorityMedium, Icon: "💊", EvidenceBased: true}},
	{escalatesOn: "diabetes", item: models.RecommendationItem{Title: "Ask about glucose testing", Description: "Fasting glucose or HbA1c confirms or rules out prediabetes.", Action: "Request an HbA1c test at your next visit.", Frequency: "Annually", Category: models.CategoryMedical, Priority: models.PriorityMedium, Icon: "🩸", EvidenceBased: true}},
	{escalatesOn: "hypertension", item: models.RecommendationItem{Title: "Know your numbers", Description: "Home readings catch blood pressure patterns a single visit misses.", Action: "Measure your blood pressure at the same time of day and write it down.", Frequency: "Twice a week", Category: models.CategoryMonitoring, Priority: models.PriorityMedium, Icon: "🩺", EvidenceBased: true}},
	{escalatesOn: "both", item: models.RecommendationItem{Title: "Track your weight", Description: "Small sustained losses move both risk scores.", Action: "Weigh yourself weekly under the same conditions.", Frequency: "Weekly", Category: models.CategoryMonitoring, Priority: models.PriorityLow, Icon: "⚖️", EvidenceBased: true}},
	{escalatesOn: "hypertension", item: models.RecommendationItem{Title: "Unwind on purpose", Description: "Chronic stress keeps blood pressure elevated.", Action: "Practice ten minutes of slow breathing or another relaxation routine.", Frequency: "Daily", Category: models.CategoryStress, Priority: models.PriorityMedium, Icon: "🧘", EvidenceBased: true}},
	{escalatesOn: "both", item: models.RecommendationItem{Title: "Protect your sleep", Description: "Short sleep worsens glucose control and blood pressure.", Action: "Keep a consistent bedtime that allows at least seven hours.", Frequency: "Nightly", Category: models.CategoryStress, Priority: models.PriorityLow, Icon: "🌙", EvidenceBased: true}},
	{escalatesOn: "both", item: models.RecommendationItem{Title: "Skip the tobacco", Description: "Smoking multiplies cardiovascular and metabolic risk.", Action: "If you smoke, set a quit date and ask about cessation support.", Frequency: "Ongoing", Category: models.CategoryLifestyle, Priority: models.PriorityHigh, Icon: "🚭", EvidenceBased: true}},
	{escalatesOn: "both", item: models.RecommendationItem{Title: "Drink less alcohol", Description: "Regular drinking raises blood pressure and adds empty calories.", Action: "Keep at least three alcohol-free days per week.", Frequency: "Weekly", Category: models.CategoryLifestyle, Priority: models.PriorityLow, Icon: "🚫", EvidenceBased: true}},
}

// StaticRecommendations returns the fixed 12-item fallback list. Items tied
// to a condition at high or very-high risk are escalated to urgent.
func StaticRecommendations(diabetes, hypertension models.RiskLevel) []models.RecommendationItem {
	diabetesHigh := diabetes.AtLeast(models.RiskHigh)
	hypertensionHigh := hypertension.AtLeast(models.RiskHigh)

	items := make([]models.RecommendationItem, 0, len(staticRecommendations))
	for _, sr := range staticRecommendations {
		item := sr.item
		escalate := (sr.escalatesOn == "diabetes" && diabetesHigh) ||
			(sr.escalatesOn == "hypertension" && hypertensionHigh) ||
			(sr.escalatesOn == "both" && (diabetesHigh || hypertensionHigh))
		if escalate {
			item.Priority = models.PriorityUrgent
		}
		items = append(items, item)
	}
	return items
}
