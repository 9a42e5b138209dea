package models

// Waist option strings shared by the baseline catalog, the profile builder,
// and both scorers.
const (
	WaistNormal        = "Normal waist"
	WaistSlightlyLarge = "Slightly large waist"
	WaistLarge         = "Large waist"
	WaistVeryLarge     = "Very large waist"
)

// Option strings for the blood pressure medication question. The hypertension
// scorer keys its diagnosis override off these values.
const (
	BPMedicationNo      = "No"
	BPMedicationCurrent = "Yes, currently taking medication"
	BPMedicationStopped = "Previously, but stopped taking it"
)

// Option strings for the family history of diabetes question.
const (
	FamilyHistoryNone    = "No"
	FamilyHistoryDistant = "Yes: grandparent, aunt, uncle, or cousin"
	FamilyHistoryClose   = "Yes: parent, sibling, or child"
)
