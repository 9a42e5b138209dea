package interview

import (
	"github.com/vitalpath/riskscreen/internal/models"
)

// Profile tag names referenced by the generator prompt and the assembler.
const (
	TagOverweight           = "overweight"
	TagObese                = "obese"
	TagReproductiveAgeWoman = "reproductive-age-female"
	TagSenior               = "senior"
	TagInactive             = "inactive"
	TagSmoker               = "smoker"
)

// ComputeBMI returns weight/height² with height given in centimeters.
func ComputeBMI(heightCM, weightKG float64) float64 {
	m := heightCM / 100
	return weightKG / (m * m)
}

// bmiBand buckets a BMI value at the standard 18.5/25/30/35 cutpoints.
func bmiBand(bmi float64) models.BMIBand {
	switch {
	case bmi <= 0:
		return models.BMIBandUnknown
	case bmi < 18.5:
		return models.BMIBandUnderweight
	case bmi < 25:
		return models.BMIBandNormal
	case bmi < 30:
		return models.BMIBandOverweight
	case bmi < 35:
		return models.BMIBandObese
	default:
		return models.BMIBandSeverelyObese
	}
}

// ageBand buckets age into the three coarse interview bands.
func ageBand(age int) models.AgeBand {
	switch {
	case age < 35:
		return models.AgeBandYoungAdult
	case age < 55:
		return models.AgeBandMiddleAged
	default:
		return models.AgeBandOlderAdult
	}
}

// BuildProfile derives a coarse demographic and physiological profile from
// the answers collected so far. It is a pure function of the store: calling
// it twice over the same answers yields the same profile, and the input is
// never mutated. Missing baseline answers leave the corresponding fields at
// their zero values.
func BuildProfile(answers *models.AnswerStore) models.UserProfile {
	var profile models.UserProfile

	if age, ok := answers.Number("age"); ok {
		profile.Age = int(age)
		profile.AgeBand = ageBand(profile.Age)
	}
	if sex, ok := answers.String("gender"); ok {
		profile.Sex = sex
	}
	if hw, ok := answers.String("height_weight"); ok {
		if height, weight, err := models.ParseHeightWeight(hw); err == nil {
			profile.BMI = ComputeBMI(height, weight)
		}
	}
	profile.BMIBand = bmiBand(profile.BMI)
	if waist, ok := answers.String("waist_circumference"); ok {
		profile.WaistBand = waist
	}

	var tags []string
	signals := 0
	if profile.BMI >= 25 {
		tags = append(tags, TagOverweight)
	}
	if profile.BMI >= 30 {
		tags = append(tags, TagObese)
		signals++
	}
	if profile.Sex == "Female" && profile.Age >= 18 && profile.Age <= 45 {
		tags = append(tags, TagReproductiveAgeWoman)
	}
	if profile.Age >= 65 {
		tags = append(tags, TagSenior)
	}
	if profile.Age >= 55 {
		signals++
	}
	if active, ok := answers.Bool("physical_activity"); ok && !active {
		tags = append(tags, TagInactive)
		signals++
	}
	if smokes, ok := answers.Bool("smoking"); ok && smokes {
		tags = append(tags, TagSmoker)
		signals++
	}
	if profile.WaistBand == models.WaistLarge || profile.WaistBand == models.WaistVeryLarge {
		signals++
	}
	profile.Tags = tags

	switch {
	case signals >= 3:
		profile.RiskLevel = models.RiskHigh
	case signals == 2:
		profile.RiskLevel = models.RiskModerate
	default:
		profile.RiskLevel = models.RiskLow
	}
	return profile
}

// baselineComplete reports whether all four baseline answers are present.
func baselineComplete(answers *models.AnswerStore) bool {
	return answers.Has("age") && answers.Has("gender") &&
		answers.Has("height_weight") && answers.Has("waist_circumference")
}
