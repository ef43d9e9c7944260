package intake

import "strings"

// FormVariant selects which optional nutritional fields apply.
type FormVariant string

const (
	VariantMasculino FormVariant = "masculino"
	VariantFeminino  FormVariant = "feminino"
)

func ParseFormVariant(value string) (FormVariant, error) {
	switch FormVariant(strings.ToLower(strings.TrimSpace(value))) {
	case VariantMasculino:
		return VariantMasculino, nil
	case VariantFeminino:
		return VariantFeminino, nil
	default:
		return "", Validationf("Formulário inválido. Escolha masculino ou feminino.")
	}
}

// Document describes an uploaded medical clearance document.
type Document struct {
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
	URL         string `json:"url"`
}

type PhysicalRecord struct {
	Sex              string `json:"sex"`
	AgeRange         string `json:"age_range"`
	Objective        string `json:"objective"`
	InactivePeriod   string `json:"inactive_period"`
	ExperiencePeriod string `json:"experience_period"`
	Availability     string `json:"availability"`
	TrainingLevel    string `json:"training_level"`

	ChestPain bool `json:"chest_pain"`
	// ChestPainAnswered tells an explicit "não" apart from no answer.
	ChestPainAnswered bool      `json:"chest_pain_answered"`
	MedicalClearance  *bool     `json:"medical_clearance"`
	MedicalDocument   *Document `json:"medical_document,omitempty"`

	Agreement            bool   `json:"agreement"`
	Medication           string `json:"medication"`
	PreExistingCondition string `json:"pre_existing_condition"`
	RiskCondition        string `json:"risk_condition"`
	Injury               string `json:"injury"`
}

type WeightChange struct {
	Amount float64 `json:"amount"`
	Period string  `json:"period"`
	Reason string  `json:"reason"`
}

type WeightChanges struct {
	RecentLoss *WeightChange `json:"recent_loss,omitempty"`
	RecentGain *WeightChange `json:"recent_gain,omitempty"`
}

func (w WeightChanges) Empty() bool {
	return w.RecentLoss == nil && w.RecentGain == nil
}

type MenstrualCycle struct {
	FirstPeriodAge int      `json:"first_period_age,omitempty"`
	IsRegular      *bool    `json:"is_regular,omitempty"`
	CycleDuration  int      `json:"cycle_duration,omitempty"`
	Symptoms       []string `json:"symptoms,omitempty"`
	AffectsEating  *bool    `json:"affects_eating,omitempty"`
}

// FeminineHealth holds the fields that only exist on the feminino variant.
// It is embedded by pointer so its keys vanish from the JSON shape when nil.
type FeminineHealth struct {
	HasGynecologicalDiseases *bool           `json:"has_gynecological_diseases"`
	GynecologicalDiseases    string          `json:"gynecological_diseases"`
	MenstrualCycle           *MenstrualCycle `json:"menstrual_cycle,omitempty"`
}

type HealthHistory struct {
	HasChronicDiseases   *bool  `json:"has_chronic_diseases"`
	ChronicDiseases      string `json:"chronic_diseases"`
	HasPreviousSurgeries *bool  `json:"has_previous_surgeries"`
	PreviousSurgeries    string `json:"previous_surgeries"`
	HasFoodAllergies     *bool  `json:"has_food_allergies"`
	FoodAllergies        string `json:"food_allergies"`
	HasMedications       *bool  `json:"has_medications"`
	Medications          string `json:"medications"`
	HasFamilyHistory     *bool  `json:"has_family_history"`
	FamilyHistory        string `json:"family_history"`
	AnxietyLevel         int    `json:"anxiety_level"`

	*FeminineHealth
}

type DrinkHabit struct {
	Drinks *bool `json:"drinks"`
}

type SmokingHabit struct {
	Smokes *bool `json:"smokes"`
}

type BowelMovements struct {
	Frequency float64  `json:"frequency"`
	Issues    []string `json:"issues"`
}

type Urination struct {
	Normal       *bool  `json:"normal"`
	Observations string `json:"observations"`
}

type Lifestyle struct {
	PhysicalActivityLevel string         `json:"physical_activity_level"`
	SleepHours            float64        `json:"sleep_hours"`
	WakeUpTime            string         `json:"wake_up_time"`
	AlcoholConsumption    DrinkHabit     `json:"alcohol_consumption"`
	Smoking               SmokingHabit   `json:"smoking"`
	WorkHours             float64        `json:"work_hours"`
	Supplements           []string       `json:"supplements"`
	BowelMovements        BowelMovements `json:"bowel_movements"`
	WaterIntake           float64        `json:"water_intake"`
	Urination             Urination      `json:"urination"`
}

type EatingHabits struct {
	PreviousDiets    *bool      `json:"previous_diets"`
	DietDifficulties []string   `json:"diet_difficulties"`
	DailyRoutine     string     `json:"daily_routine"`
	DislikedFoods    []string   `json:"disliked_foods"`
	FavoriteFoods    []string   `json:"favorite_foods"`
	SodaConsumption  DrinkHabit `json:"soda_consumption"`
	WeekendEating    string     `json:"weekend_eating"`
	EatsWatchingTV   *bool      `json:"eats_watching_tv"`
	WaterIntake      float64    `json:"water_intake"`
}

type NutritionalRecord struct {
	FullName      string        `json:"full_name"`
	BirthDate     string        `json:"birth_date"`
	Weight        float64       `json:"weight"`
	UsualWeight   float64       `json:"usual_weight"`
	Height        float64       `json:"height"`
	MaritalStatus string        `json:"marital_status"`
	Children      string        `json:"children"`
	WeightChanges WeightChanges `json:"weight_changes"`
	HealthHistory HealthHistory `json:"health_history"`
	Lifestyle     Lifestyle     `json:"lifestyle"`
	EatingHabits  EatingHabits  `json:"eating_habits"`
}

// NewNutritionalRecord returns the empty record for variant. Only the
// feminino variant carries the gynecological fields.
func NewNutritionalRecord(variant FormVariant) NutritionalRecord {
	record := NutritionalRecord{
		Lifestyle: Lifestyle{
			PhysicalActivityLevel: "sedentary",
			Supplements:           []string{},
			BowelMovements:        BowelMovements{Issues: []string{}},
		},
		EatingHabits: EatingHabits{
			DietDifficulties: []string{},
			DislikedFoods:    []string{},
			FavoriteFoods:    []string{},
		},
	}
	if variant == VariantFeminino {
		record.HealthHistory.FeminineHealth = &FeminineHealth{}
	}
	return record
}

