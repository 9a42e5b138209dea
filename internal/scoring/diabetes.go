package scoring

import (
	"github.com/vitalpath/riskscreen/internal/models"
)

// Diabetes level cutoffs over the adjusted score.
var diabetesCutoffs = levelCutoffs{
	SlightlyElevated: 8,
	Moderate:         13,
	High:             18,
	VeryHigh:         24,
}

// diabetesProbability is the fixed lookup from level to probability band.
var diabetesProbability = map[models.RiskLevel]string{
	models.RiskLow:              "Low: an estimated 1 in 100 will develop type 2 diabetes within 10 years",
	models.RiskSlightlyElevated: "Slightly elevated: an estimated 1 in 25 will develop type 2 diabetes within 10 years",
	models.RiskModerate:         "Moderate: an estimated 1 in 6 will develop type 2 diabetes within 10 years",
	models.RiskHigh:             "High: an estimated 1 in 3 will develop type 2 diabetes within 10 years",
	models.RiskVeryHigh:         "Very high: an estimated 1 in 2 will develop type 2 diabetes within 10 years",
}

// ScoreDiabetes reduces the answer set into the diabetes risk result.
func ScoreDiabetes(answers *models.AnswerStore) models.RiskScoreResult {
	factors := make(map[string]int)

	if age, ok := answers.Number("age"); ok {
		switch {
		case age >= 65:
			factors["age"] = 7
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
			factors["body mass index"] = 7
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

	if family, ok := answers.String("family_history"); ok {
		switch family {
		case models.FamilyHistoryDistant:
			factors["family history of diabetes"] = 3
		case models.FamilyHistoryClose:
			factors["family history of diabetes"] = 5
		}
	}

	if active, ok := answers.Bool("physical_activity"); ok && !active {
		factors["physical inactivity"] = 2
	}

	if veg, ok := answers.Bool("daily_vegetables"); ok && !veg {
		factors["diet low in vegetables"] = 1
	}

	if drinks, ok := answers.String("sugary_drinks"); ok {
		switch drinks {
		case "A few times a week":
			factors["sugary drinks"] = 1
		case "Daily":
			factors["sugary drinks"] = 2
		}
	}

	if glucose, ok := answers.Bool("high_blood_glucose"); ok && glucose {
		factors["history of high blood glucose"] = 5
	}

	if gdm, ok := answers.Bool("gestational_diabetes"); ok && gdm {
		factors["gestational diabetes"] = 3
	}

	// Blood pressure medication carries a smaller weight here than in the
	// hypertension table; the two tables are tuned independently.
	if med, ok := answers.String("blood_pressure_medication"); ok && med != models.BPMedicationNo {
		factors["blood pressure medication"] = 2
	}

	raw := sumFactors(factors)
	adjusted := raw + ageAdjustment(answers)
	level := diabetesCutoffs.classify(adjusted)

	return models.RiskScoreResult{
		Condition:     ConditionDiabetes,
		RawScore:      raw,
		AdjustedScore: adjusted,
		Level:         level,
		Probability:   diabetesProbability[level],
		Factors:       factors,
	}
}

// bodyMassIndex recomputes BMI from the combined height/weight answer.
func bodyMassIndex(answers *models.AnswerStore) (float64, bool) {
	hw, ok := answers.String("height_weight")
	if !ok {
		return 0, false
	}
	height, weight, err := models.ParseHeightWeight(hw)
	if err != nil {
		return 0, false
	}
	m := height / 100
	return weight / (m * m), true
}
