// Package interview implements the adaptive interview: per-session state,
// the question sequencing chain, the static question catalogs, and the
// personalized question generator.
package interview

import (
	"math/rand/v2"

	"github.com/vitalpath/riskscreen/internal/models"
)

// baselineQuestions are always served first, in this order, regardless of
// any answers given.
var baselineQuestions = []models.Question{
	{
		ID:       "age",
		Prompt:   "How old are you?",
		Kind:     models.KindSlider,
		Min:      18,
		Max:      100,
		Unit:     "years",
		Required: true,
		Source:   models.SourceStatic,
	},
	{
		ID:       "gender",
		Prompt:   "What is your biological sex?",
		Kind:     models.KindSelect,
		Options:  []string{"Male", "Female", "Other"},
		Required: true,
		Source:   models.SourceStatic,
		Tooltip:  "Used for waist thresholds and condition-specific risk factors.",
	},
	{
		ID:       "height_weight",
		Prompt:   "What are your height and weight? Enter as height/weight, e.g. 170/70.",
		Kind:     models.KindText,
		Unit:     "cm/kg",
		Required: true,
		Source:   models.SourceStatic,
		Tooltip:  "Used to compute your body mass index.",
	},
	{
		ID:       "waist_circumference",
		Prompt:   "How would you describe your waist?",
		Kind:     models.KindSelect,
		Options:  []string{models.WaistNormal, models.WaistSlightlyLarge, models.WaistLarge, models.WaistVeryLarge},
		Required: true,
		Source:   models.SourceStatic,
		Tooltip:  "Abdominal fat is an independent risk factor for both conditions.",
	},
}

// CriticalQuestion is a must-ask question gated to appear no earlier than a
// fixed interview slot. Each clinical topic has exactly one instance; it is
// consumed the first time it is served.
type CriticalQuestion struct {
	Question models.Question
	// Slot is the earliest 1-indexed interview position at which the
	// question may be served.
	Slot int
}

// criticalQuestions in ascending slot order. The sequencer serves a due
// critical question before any generated or fallback question.
var criticalQuestions = []CriticalQuestion{
	{
		Slot: 5,
		Question: models.Question{
			ID:       "family_history",
			Prompt:   "Have any of your relatives been diagnosed with diabetes?",
			Kind:     models.KindSelect,
			Options:  []string{models.FamilyHistoryNone, models.FamilyHistoryDistant, models.FamilyHistoryClose},
			Required: true,
			Source:   models.SourceStatic,
		},
	},
	{
		Slot: 6,
		Question: models.Question{
			ID:       "blood_pressure_medication",
			Prompt:   "Have you ever taken medication for high blood pressure?",
			Kind:     models.KindSelect,
			Options:  []string{models.BPMedicationNo, models.BPMedicationCurrent, models.BPMedicationStopped},
			Required: true,
			Source:   models.SourceStatic,
		},
	},
	{
		Slot: 8,
		Question: models.Question{
			ID:       "high_blood_glucose",
			Prompt:   "Has high blood glucose ever been found for you, for example in a health exam, during an illness, or during pregnancy?",
			Kind:     models.KindYesNo,
			Required: true,
			Source:   models.SourceStatic,
		},
	},
	{
		Slot: 9,
		Question: models.Question{
			ID:       "physical_activity",
			Prompt:   "Do you get at least 30 minutes of physical activity on most days, at work or in your free time?",
			Kind:     models.KindYesNo,
			Required: true,
			Source:   models.SourceStatic,
		},
	},
	{
		Slot: 11,
		Question: models.Question{
			ID:       "daily_vegetables",
			Prompt:   "Do you eat vegetables, fruit, or berries every day?",
			Kind:     models.KindYesNo,
			Required: true,
			Source:   models.SourceStatic,
		},
	},
}

// answeredYes reports whether the given question was answered affirmatively.
func answeredYes(id string) models.Predicate {
	return func(answers *models.AnswerStore) bool {
		v, ok := answers.Bool(id)
		return ok && v
	}
}

// answeredEquals reports whether the given question has one of the values.
func answeredEquals(id string, values ...string) models.Predicate {
	return func(answers *models.AnswerStore) bool {
		v, ok := answers.String(id)
		if !ok {
			return false
		}
		for _, want := range values {
			if v == want {
				return true
			}
		}
		return false
	}
}

// bankQuestions is the static fallback catalog, used when personalized
// generation is unavailable and after the baseline and critical questions
// are exhausted. Required questions are always served before optional ones;
// within each group the session's shuffled order decides.
var bankQuestions = []models.Question{
	// Required: answers feed the scorers directly.
	{ID: "smoking", Prompt: "Do you currently smoke or use tobacco products?", Kind: models.KindYesNo, Required: true, Source: models.SourceStatic},
	{ID: "salt_intake", Prompt: "How much salt is in your typical diet?", Kind: models.KindSelect, Options: []string{"Low", "Moderate", "High"}, Required: true, Source: models.SourceStatic},
	{ID: "sugary_drinks", Prompt: "How often do you drink sugary beverages such as soda or sweetened juice?", Kind: models.KindSelect, Options: []string{"Rarely or never", "A few times a week", "Daily"}, Required: true, Source: models.SourceStatic},
	{ID: "alcohol_frequency", Prompt: "How often do you drink alcohol?", Kind: models.KindSelect, Options: []string{"Never", "Occasionally", "Weekly", "Daily"}, Required: true, Source: models.SourceStatic},
	{ID: "stress_level", Prompt: "How would you rate your everyday stress level?", Kind: models.KindSelect, Options: []string{"Low", "Moderate", "High"}, Required: true, Source: models.SourceStatic},
	{ID: "family_history_hypertension", Prompt: "Have any of your close relatives been diagnosed with high blood pressure?", Kind: models.KindYesNo, Required: true, Source: models.SourceStatic},
	{ID: "sleep_hours", Prompt: "How many hours do you usually sleep per night?", Kind: models.KindSlider, Min: 3, Max: 12, Unit: "hours", Required: true, Source: models.SourceStatic},
	{ID: "exercise_frequency", Prompt: "How many days a week do you exercise on purpose?", Kind: models.KindSelect, Options: []string{"None", "1-2 days", "3-4 days", "5 or more days"}, Required: true, Source: models.SourceStatic},
	{ID: "processed_food", Prompt: "How often do you eat processed or fast food?", Kind: models.KindSelect, Options: []string{"Rarely", "A few times a week", "Most days"}, Required: true, Source: models.SourceStatic},
	{ID: "weight_change", Prompt: "How has your weight changed over the last year?", Kind: models.KindSelect, Options: []string{"Stayed the same", "Lost weight", "Gained under 5 kg", "Gained over 5 kg"}, Required: true, Source: models.SourceStatic},

	// Optional: context and symptom probes, several gated on prior answers.
	{ID: "gestational_diabetes", Prompt: "Were you ever diagnosed with diabetes during a pregnancy?", Kind: models.KindYesNo, Source: models.SourceStatic, Eligible: answeredEquals("gender", "Female")},
	{ID: "large_baby", Prompt: "Have you given birth to a baby weighing more than 4 kg?", Kind: models.KindYesNo, Source: models.SourceStatic, Eligible: answeredEquals("gender", "Female")},
	{ID: "smoking_quantity", Prompt: "Roughly how many cigarettes do you smoke per day?", Kind: models.KindSlider, Min: 1, Max: 60, Unit: "cigarettes", Source: models.SourceStatic, Eligible: answeredYes("smoking")},
	{ID: "frequent_thirst", Prompt: "Do you often feel unusually thirsty?", Kind: models.KindYesNo, Source: models.SourceStatic, Eligible: answeredYes("high_blood_glucose")},
	{ID: "frequent_urination", Prompt: "Do you urinate more often than you used to, especially at night?", Kind: models.KindYesNo, Source: models.SourceStatic, Eligible: answeredYes("high_blood_glucose")},
	{ID: "morning_headaches", Prompt: "Do you wake up with headaches in the morning?", Kind: models.KindYesNo, Source: models.SourceStatic, Eligible: answeredYes("family_history_hypertension")},
	{ID: "snoring", Prompt: "Have you been told that you snore loudly or stop breathing during sleep?", Kind: models.KindYesNo, Source: models.SourceStatic, Eligible: answeredEquals("waist_circumference", models.WaistLarge, models.WaistVeryLarge)},
	{ID: "fruit_intake", Prompt: "How many servings of fruit do you eat on a typical day?", Kind: models.KindSelect, Options: []string{"None", "One", "Two or more"}, Source: models.SourceStatic},
	{ID: "red_meat", Prompt: "How often do you eat red or processed meat?", Kind: models.KindSelect, Options: []string{"Rarely", "A few times a week", "Most days"}, Source: models.SourceStatic},
	{ID: "caffeine_intake", Prompt: "How many caffeinated drinks do you have per day?", Kind: models.KindSlider, Min: 0, Max: 10, Unit: "drinks", Source: models.SourceStatic},
	{ID: "water_intake", Prompt: "How many glasses of water do you drink per day?", Kind: models.KindSlider, Min: 0, Max: 15, Unit: "glasses", Source: models.SourceStatic},
	{ID: "sitting_hours", Prompt: "How many hours per day do you spend sitting?", Kind: models.KindSlider, Min: 0, Max: 16, Unit: "hours", Source: models.SourceStatic},
	{ID: "work_activity", Prompt: "How physically demanding is your work or daily routine?", Kind: models.KindSelect, Options: []string{"Mostly sitting", "Some walking", "Physically active"}, Source: models.SourceStatic},
	{ID: "cholesterol_check", Prompt: "Have you had your cholesterol checked in the last five years?", Kind: models.KindYesNo, Source: models.SourceStatic},
	{ID: "high_cholesterol", Prompt: "Have you ever been told your cholesterol is high?", Kind: models.KindYesNo, Source: models.SourceStatic, Eligible: answeredYes("cholesterol_check")},
	{ID: "heart_disease_family", Prompt: "Has anyone in your close family had a heart attack or stroke before age 60?", Kind: models.KindYesNo, Source: models.SourceStatic},
	{ID: "dizziness", Prompt: "Do you experience episodes of dizziness or light-headedness?", Kind: models.KindYesNo, Source: models.SourceStatic},
	{ID: "blurred_vision", Prompt: "Have you noticed episodes of blurred vision?", Kind: models.KindYesNo, Source: models.SourceStatic},
	{ID: "slow_healing", Prompt: "Do cuts or bruises seem slow to heal?", Kind: models.KindYesNo, Source: models.SourceStatic},
	{ID: "energy_level", Prompt: "How would you describe your energy level on a typical day?", Kind: models.KindSelect, Options: []string{"Good", "Fair", "Often tired"}, Source: models.SourceStatic},
}

// ShuffledBankOrder returns a random permutation of bank catalog indices.
// The shuffle is a pure function of the provided source, so tests can fix
// the seed and assert exact ordering.
func ShuffledBankOrder(r *rand.Rand) []int {
	order := make([]int, len(bankQuestions))
	for i := range order {
		order[i] = i
	}
	r.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	return order
}

// BaselineQuestions returns the fixed baseline set in serve order.
func BaselineQuestions() []models.Question {
	out := make([]models.Question, len(baselineQuestions))
	copy(out, baselineQuestions)
	return out
}

// CriticalQuestions returns the critical catalog in ascending slot order.
func CriticalQuestions() []CriticalQuestion {
	out := make([]CriticalQuestion, len(criticalQuestions))
	copy(out, criticalQuestions)
	return out
}

// BankSize returns the number of questions in the fallback bank.
func BankSize() int {
	return len(bankQuestions)
}
