package models

import (
	"encoding/json"
	"time"
)

// RiskLevel classifies an adjusted risk score. Levels are ordered; Rank
// exposes the ordering for comparisons.
type RiskLevel string

const (
	// RiskLow indicates no meaningful elevation.
	RiskLow RiskLevel = "low"
	// RiskSlightlyElevated indicates mild elevation worth monitoring.
	RiskSlightlyElevated RiskLevel = "slightly-elevated"
	// RiskModerate indicates clear elevation warranting lifestyle change.
	RiskModerate RiskLevel = "moderate"
	// RiskHigh indicates strong elevation warranting clinical follow-up.
	RiskHigh RiskLevel = "high"
	// RiskVeryHigh indicates the strongest elevation, or a prior diagnosis.
	RiskVeryHigh RiskLevel = "very-high"
)

// Rank returns the position of the level in the low..very-high ordering.
// Unknown levels rank below low.
func (l RiskLevel) Rank() int {
	switch l {
	case RiskLow:
		return 0
	case RiskSlightlyElevated:
		return 1
	case RiskModerate:
		return 2
	case RiskHigh:
		return 3
	case RiskVeryHigh:
		return 4
	default:
		return -1
	}
}

// AtLeast reports whether the level is at or above the given level.
func (l RiskLevel) AtLeast(other RiskLevel) bool {
	return l.Rank() >= other.Rank()
}

// RiskScoreResult is the output of one condition scorer.
type RiskScoreResult struct {
	Condition     string         `json:"condition"`
	RawScore      int            `json:"raw_score"`
	AdjustedScore int            `json:"adjusted_score"`
	Level         RiskLevel      `json:"level"`
	Probability   string         `json:"probability"`
	Factors       map[string]int `json:"factors"`
}

// AgeBand buckets age for profile and prompt construction.
type AgeBand string

const (
	AgeBandYoungAdult AgeBand = "young-adult"
	AgeBandMiddleAged AgeBand = "middle-aged"
	AgeBandOlderAdult AgeBand = "older-adult"
)

// BMIBand buckets body mass index at the standard 18.5/25/30/35 cutpoints.
type BMIBand string

const (
	BMIBandUnderweight   BMIBand = "underweight"
	BMIBandNormal        BMIBand = "normal"
	BMIBandOverweight    BMIBand = "overweight"
	BMIBandObese         BMIBand = "obese"
	BMIBandSeverelyObese BMIBand = "severely-obese"
	BMIBandUnknown       BMIBand = "unknown"
)

// UserProfile is a coarse derived snapshot of the participant, built from
// the baseline answers and used to tailor generated questions and narrative.
type UserProfile struct {
	AgeBand   AgeBand   `json:"age_band"`
	Age       int       `json:"age"`
	Sex       string    `json:"sex"`
	BMI       float64   `json:"bmi"`
	BMIBand   BMIBand   `json:"bmi_band"`
	WaistBand string    `json:"waist_band"`
	RiskLevel RiskLevel `json:"risk_level"`
	Tags      []string  `json:"tags,omitempty"`
}

// HasTag reports whether the profile carries a qualitative tag.
func (p *UserProfile) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// DualRiskAssessment is the final output of an interview: both condition
// scores plus the derived narrative content. It is immutable once assembled;
// narrative enhancement returns a new value with only Narrative set.
type DualRiskAssessment struct {
	Diabetes        RiskScoreResult `json:"diabetes"`
	Hypertension    RiskScoreResult `json:"hypertension"`
	Summary         string          `json:"summary"`
	KeyFindings     []string        `json:"key_findings"`
	Recommendations []string        `json:"recommendations"`
	UrgentActions   []string        `json:"urgent_actions,omitempty"`
	Narrative       string          `json:"narrative,omitempty"`
	Profile         UserProfile     `json:"profile"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ToJSON serializes the assessment for storage.
func (a *DualRiskAssessment) ToJSON() (string, error) {
	b, err := json.Marshal(a)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// FromJSON restores an assessment from its stored form.
func (a *DualRiskAssessment) FromJSON(s string) error {
	return json.Unmarshal([]byte(s), a)
}

// RecommendationCategory classifies an action item into one of six areas.
type RecommendationCategory string

const (
	CategoryDiet       RecommendationCategory = "diet"
	CategoryExercise   RecommendationCategory = "exercise"
	CategoryMedical    RecommendationCategory = "medical"
	CategoryMonitoring RecommendationCategory = "monitoring"
	CategoryStress     RecommendationCategory = "stress"
	CategoryLifestyle  RecommendationCategory = "lifestyle"
)

// IsValidCategory checks if the given category is one of the six fixed values.
func IsValidCategory(c RecommendationCategory) bool {
	switch c {
	case CategoryDiet, CategoryExercise, CategoryMedical, CategoryMonitoring, CategoryStress, CategoryLifestyle:
		return true
	default:
		return false
	}
}

// RecommendationPriority orders action items by urgency.
type RecommendationPriority string

const (
	PriorityLow    RecommendationPriority = "low"
	PriorityMedium RecommendationPriority = "medium"
	PriorityHigh   RecommendationPriority = "high"
	PriorityUrgent RecommendationPriority = "urgent"
)

// IsValidPriority checks if the given priority is one of the four fixed values.
func IsValidPriority(p RecommendationPriority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	default:
		return false
	}
}

// RecommendationItem is one structured, categorized action item.
type RecommendationItem struct {
	Title           string                 `json:"title"`
	Description     string                 `json:"description"`
	Action          string                 `json:"action"`
	Frequency       string                 `json:"frequency,omitempty"`
	Category        RecommendationCategory `json:"category"`
	Priority        RecommendationPriority `json:"priority"`
	Icon            string                 `json:"icon"`
	EvidenceBased   bool                   `json:"evidence_based"`
	ContextRelevant bool                   `json:"context_relevant"`
}
