// Package scoring implements the two weighted-rule risk scorers. Each scorer
// is a pure reduction over an answer store snapshot: the same answers always
// produce the same result, and the input is never mutated.
//
// The two point tables are tuned independently per condition and are kept
// separate on purpose, even where a marker contributes to both.
package scoring

import (
	"github.com/vitalpath/riskscreen/internal/models"
)

// Condition names used in results and the generator prompt.
const (
	ConditionDiabetes     = "type 2 diabetes"
	ConditionHypertension = "hypertension"
)

// levelCutoffs holds the ascending adjusted-score thresholds for one
// condition. A score at or above a threshold classifies at that level.
type levelCutoffs struct {
	SlightlyElevated int
	Moderate         int
	High             int
	VeryHigh         int
}

// classify maps an adjusted score onto the threshold ladder.
func (c levelCutoffs) classify(score int) models.RiskLevel {
	switch {
	case score >= c.VeryHigh:
		return models.RiskVeryHigh
	case score >= c.High:
		return models.RiskHigh
	case score >= c.Moderate:
		return models.RiskModerate
	case score >= c.SlightlyElevated:
		return models.RiskSlightlyElevated
	default:
		return models.RiskLow
	}
}

// ageAdjustment is the post-sum bump added to both scorers' adjusted score.
func ageAdjustment(answers *models.AnswerStore) int {
	age, ok := answers.Number("age")
	if !ok {
		return 0
	}
	switch {
	case age >= 60:
		return 2
	case age >= 45:
		return 1
	default:
		return 0
	}
}

// sumFactors totals the contribution map; the total is the raw score.
func sumFactors(factors map[string]int) int {
	total := 0
	for _, v := range factors {
		total += v
	}
	return total
}
