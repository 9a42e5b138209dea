// Package assessment turns the two risk scores and the answer set into the
// final deliverables: narrative findings, urgent actions, recommendations,
// the summary paragraph, and the structured action-item list.
package assessment

import (
	"time"

	"github.com/vitalpath/riskscreen/internal/models"
)

// Summary decision table. Keyed by whether each condition's level is high or
// above; this is the single externally visible voice of the engine, so the
// wording is fixed and the selection is fully deterministic.
const (
	summaryBothHigh = "Your answers point to a high risk for both type 2 diabetes and high blood pressure. " +
		"These conditions often develop together and reinforce each other. " +
		"Please arrange a check-up with your doctor soon; early treatment makes a major difference."
	summaryDiabetesHigh = "Your answers point to a high risk of developing type 2 diabetes. " +
		"Your blood pressure risk looks lower, which is good news, but the diabetes findings deserve prompt attention from a healthcare professional."
	summaryHypertensionHigh = "Your answers point to a high risk of developing high blood pressure. " +
		"Your diabetes risk looks lower, which is good news, but the blood pressure findings deserve prompt attention from a healthcare professional."
	summaryModerate = "Your risk for type 2 diabetes and high blood pressure is moderately elevated. " +
		"This is a good moment to act: modest changes to diet, activity, and weight can bring both risks back down."
	summaryReassurance = "Your answers suggest a low risk for both type 2 diabetes and high blood pressure. " +
		"Keep up your current habits, and re-check every few years since risk rises with age."
)

// protectiveRecommendations is the menu used when either risk is above low.
var protectiveRecommendations = []string{
	"Aim for at least 30 minutes of moderate activity, such as brisk walking, five days a week.",
	"Fill half your plate with vegetables at lunch and dinner.",
	"Cut sugary drinks down to at most one per week.",
	"Reduce added salt and flavor food with herbs and spices instead.",
	"If you are above a healthy weight, target a gradual loss of 5 to 7 percent of body weight.",
	"Keep alcohol within low-risk limits and avoid all tobacco.",
}

// maintenanceRecommendations is the shorter menu used when both risks are low.
var maintenanceRecommendations = []string{
	"Keep up your current activity level.",
	"Maintain a balanced diet rich in vegetables and whole grains.",
	"Re-check your risk every few years, or sooner if your weight changes.",
}

// Assemble derives the full assessment from the two score results, the
// answers, and the profile. It is deterministic: identical inputs produce
// byte-identical summary text and identical finding order.
func Assemble(diabetes, hypertension models.RiskScoreResult, answers *models.AnswerStore, profile models.UserProfile) models.DualRiskAssessment {
	return models.DualRiskAssessment{
		Diabetes:        diabetes,
		Hypertension:    hypertension,
		Summary:         selectSummary(diabetes.Level, hypertension.Level),
		KeyFindings:     deriveFindings(answers, profile),
		Recommendations: deriveRecommendations(diabetes.Level, hypertension.Level),
		UrgentActions:   deriveUrgentActions(diabetes.Level, hypertension.Level, answers),
		Profile:         profile,
		CreatedAt:       time.Now().UTC(),
	}
}

// selectSummary applies the four-way decision table.
func selectSummary(diabetes, hypertension models.RiskLevel) string {
	diabetesHigh := diabetes.AtLeast(models.RiskHigh)
	hypertensionHigh := hypertension.AtLeast(models.RiskHigh)
	switch {
	case diabetesHigh && hypertensionHigh:
		return summaryBothHigh
	case diabetesHigh:
		return summaryDiabetesHigh
	case hypertensionHigh:
		return summaryHypertensionHigh
	case diabetes == models.RiskLow && hypertension == models.RiskLow:
		return summaryReassurance
	default:
		return summaryModerate
	}
}

// deriveFindings emits one sentence per triggered risk factor, in a fixed
// evaluation order: age, weight, inactivity, family history, prior
// diagnosis, waist.
func deriveFindings(answers *models.AnswerStore, profile models.UserProfile) []string {
	var findings []string

	if profile.Age >= 55 {
		findings = append(findings, "Your age group carries an increased baseline risk for both conditions.")
	}

	switch profile.BMIBand {
	case models.BMIBandOverweight:
		findings = append(findings, "Your body mass index is in the overweight range, which raises both risks.")
	case models.BMIBandObese, models.BMIBandSeverelyObese:
		findings = append(findings, "Your body mass index is in the obese range, which raises both risks substantially.")
	}

	if active, ok := answers.Bool("physical_activity"); ok && !active {
		findings = append(findings, "You get less than 30 minutes of physical activity on most days.")
	}

	if family, ok := answers.String("family_history"); ok && family != models.FamilyHistoryNone {
		findings = append(findings, "Diabetes in your family raises your own risk of developing it.")
	}
	if family, ok := answers.Bool("family_history_hypertension"); ok && family {
		findings = append(findings, "High blood pressure in your close family raises your own risk of developing it.")
	}

	if glucose, ok := answers.Bool("high_blood_glucose"); ok && glucose {
		findings = append(findings, "High blood glucose has been found for you before, a strong predictor of type 2 diabetes.")
	}
	if med, ok := answers.String("blood_pressure_medication"); ok && med != models.BPMedicationNo {
		findings = append(findings, "You have a history of blood pressure treatment.")
	}

	if waist, ok := answers.String("waist_circumference"); ok {
		if waist == models.WaistLarge || waist == models.WaistVeryLarge {
			findings = append(findings, "Your waist size suggests abdominal fat accumulation, an independent risk factor for both conditions.")
		}
	}

	return findings
}

// deriveUrgentActions lists immediate steps. They trigger only when either
// level is high or above, or when the participant reports having stopped
// blood pressure medication.
func deriveUrgentActions(diabetes, hypertension models.RiskLevel, answers *models.AnswerStore) []string {
	med, _ := answers.String("blood_pressure_medication")
	stopped := med == models.BPMedicationStopped

	if !diabetes.AtLeast(models.RiskHigh) && !hypertension.AtLeast(models.RiskHigh) && !stopped {
		return nil
	}

	var actions []string
	if stopped {
		actions = append(actions, "You reported stopping blood pressure medication. Review this with your doctor; do not restart or stay off treatment on your own.")
	}
	if diabetes.AtLeast(models.RiskHigh) {
		actions = append(actions, "Book a fasting glucose or HbA1c test within the next month.")
	}
	if hypertension.AtLeast(models.RiskHigh) {
		actions = append(actions, "Have your blood pressure measured within the next two weeks.")
	}
	actions = append(actions, "Schedule a check-up with your primary care provider.")
	return actions
}

// deriveRecommendations picks the protective menu when either risk is above
// low, and the shorter maintenance menu otherwise.
func deriveRecommendations(diabetes, hypertension models.RiskLevel) []string {
	if diabetes == models.RiskLow && hypertension == models.RiskLow {
		out := make([]string, len(maintenanceRecommendations))
		copy(out, maintenanceRecommendations)
		return out
	}
	out := make([]string, len(protectiveRecommendations))
	copy(out, protectiveRecommendations)
	return out
}
