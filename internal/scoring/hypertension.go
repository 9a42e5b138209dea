package scoring

import (
	"github.com/vitalpath/riskscreen/internal/models"
)

// Hypertension level cutoffs over the adjusted score.
var hypertensionCutoffs = levelCutoffs{
	SlightlyElevated: 9,
	Moderate:         15,
	High:             21,
	VeryHigh:         28,
}

// hypertensionProbability is the fixed lookup from level to probability band.
var hypertensionProbability = map[models.RiskLevel]string{
	models.RiskLow:              "Low: an estimated 1 in 20 will develop hypertension within 5 years",
	models.RiskSlightlyElevated: "Slightly elevated: an estimated 1 in 10 will develop hypertension within 5 years",
	models.RiskModerate:         "Moderate: an estimated 1 in 5 will develop hypertension within 5 years",
	models.RiskHigh:             "High: an estimated 1 in 3 will develop hypertension within 5 years",
	models.RiskVeryHigh:         "Very high: an estimated 1 in 2 will develop hypertension within 5 years",
}

// ProbabilityDiagnosed replaces the probability band when the medication
// override applies: the patient is already diagnosed, so a development
// probability would be meaningless.
const ProbabilityDiagnosed = "Already diagnosed: blood pressure medication history indicates established hypertension"

// ScoreHypertension reduces the answer set into the hypertension risk result.
//
// A patient who is currently taking blood pressure medication, or who
// recently stopped, is already diagnosed: the level is forced to very-high
// and the probability string reports the diagnosis instead of a band,
// regardless of what the threshold ladder would say.
func ScoreHypertension(answers *models.AnswerStore) models.RiskScoreResult {
	factors := make(map[string]int)

	if age, ok := answers.Number("age"); ok {
		switch {
		case age >= 65:
			factors["age"] = 8
		case age >= 55:
			factors["age"] = 6
		case age >= 45:
			factors["age"] = 4
		case age >= 35:
			factors["age"] = 2
		}
	}

	if bmi, ok := bodyMassIndex(answers); ok {
		switch {
		case bmi >= 35:
			factors["body mass index"] = 6
		case bmi >= 30:
			factors["body mass index"] = 4
		case bmi >= 25:
			factors["body mass index"] = 2
		}
	}

	if waist, ok := answers.String("waist_circumference"); ok {
		switch waist {
		case models.WaistSlightlyLarge:
			factors["waist size"] = 2
		case models.WaistLarge:
			factors["waist size"] = 3
		case models.WaistVeryLarge:
			factors["waist size"] = 5
		}
	}

	if family, ok := answers.Bool("family_history_hypertension"); ok && family {
		factors["family history of high blood pressure"] = 4
	}

	if salt, ok := answers.String("salt_intake"); ok {
		switch salt {
		case "Moderate":
			factors["salt intake"] = 1
		case "High":
			factors["salt intake"] = 3
		}
	}

	if smokes, ok := answers.Bool("smoking"); ok && smokes {
		factors["smoking"] = 3
	}

	if alcohol, ok := answers.String("alcohol_frequency"); ok {
		switch alcohol {
		case "Weekly":
			factors["alcohol use"] = 1
		case "Daily":
			factors["alcohol use"] = 2
		}
	}

	if active, ok := answers.Bool("physical_activity"); ok && !active {
		factors["physical inactivity"] = 2
	}

	if stress, ok := answers.String("stress_level"); ok {
		switch stress {
		case "Moderate":
			factors["stress"] = 1
		case "High":
			factors["stress"] = 2
		}
	}

	// The glucose marker contributes to both scorers with different weights;
	// the two tables are tuned independently.
	if glucose, ok := answers.Bool("high_blood_glucose"); ok && glucose {
		factors["history of high blood glucose"] = 2
	}

	medication, _ := answers.String("blood_pressure_medication")
	diagnosed := medication == models.BPMedicationCurrent || medication == models.BPMedicationStopped
	if diagnosed {
		factors["blood pressure medication history"] = 4
	}

	raw := sumFactors(factors)
	adjusted := raw + ageAdjustment(answers)
	level := hypertensionCutoffs.classify(adjusted)
	probability := hypertensionProbability[level]

	if diagnosed {
		level = models.RiskVeryHigh
		probability = ProbabilityDiagnosed
	}

	return models.RiskScoreResult{
		Condition:     ConditionHypertension,
		RawScore:      raw,
		AdjustedScore: adjusted,
		Level:         level,
		Probability:   probability,
		Factors:       factors,
	}
}
