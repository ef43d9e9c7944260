package intake

type nut = NutritionalRecord

// ownFeminine detaches the feminine sub-record from any record it is shared
// with before it gets written through.
func (r *NutritionalRecord) ownFeminine() *FeminineHealth {
	f := *r.HealthHistory.FeminineHealth
	r.HealthHistory.FeminineHealth = &f
	return &f
}

func (r *NutritionalRecord) ownMenstrualCycle() *MenstrualCycle {
	f := r.ownFeminine()
	cycle := MenstrualCycle{}
	if f.MenstrualCycle != nil {
		cycle = *f.MenstrualCycle
	}
	f.MenstrualCycle = &cycle
	return &cycle
}

func (r *NutritionalRecord) ownRecentLoss() *WeightChange {
	change := WeightChange{}
	if r.WeightChanges.RecentLoss != nil {
		change = *r.WeightChanges.RecentLoss
	}
	r.WeightChanges.RecentLoss = &change
	return &change
}

func (r *NutritionalRecord) ownRecentGain() *WeightChange {
	change := WeightChange{}
	if r.WeightChanges.RecentGain != nil {
		change = *r.WeightChanges.RecentGain
	}
	r.WeightChanges.RecentGain = &change
	return &change
}

func isFeminine(r *NutritionalRecord) bool {
	return r.HealthHistory.FeminineHealth != nil
}

var nutritionalFields = fieldTable[NutritionalRecord]{
	"full_name":      textField(KindText, func(r *nut) *string { return &r.FullName }),
	"birth_date":     textField(KindDate, func(r *nut) *string { return &r.BirthDate }),
	"weight":         numberField(func(r *nut) *float64 { return &r.Weight }),
	"usual_weight":   numberField(func(r *nut) *float64 { return &r.UsualWeight }),
	"height":         numberField(func(r *nut) *float64 { return &r.Height }),
	"marital_status": textField(KindSelect, func(r *nut) *string { return &r.MaritalStatus }),
	"children":       textField(KindText, func(r *nut) *string { return &r.Children }),

	"weight_changes.recent_loss.amount": numberField(func(r *nut) *float64 { return &r.ownRecentLoss().Amount }),
	"weight_changes.recent_loss.period": textField(KindText, func(r *nut) *string { return &r.ownRecentLoss().Period }),
	"weight_changes.recent_loss.reason": textField(KindText, func(r *nut) *string { return &r.ownRecentLoss().Reason }),
	"weight_changes.recent_gain.amount": numberField(func(r *nut) *float64 { return &r.ownRecentGain().Amount }),
	"weight_changes.recent_gain.period": textField(KindText, func(r *nut) *string { return &r.ownRecentGain().Period }),
	"weight_changes.recent_gain.reason": textField(KindText, func(r *nut) *string { return &r.ownRecentGain().Reason }),

	"health_history.has_chronic_diseases":   flagField(func(r *nut) **bool { return &r.HealthHistory.HasChronicDiseases }),
	"health_history.chronic_diseases":       textField(KindTextarea, func(r *nut) *string { return &r.HealthHistory.ChronicDiseases }),
	"health_history.has_previous_surgeries": flagField(func(r *nut) **bool { return &r.HealthHistory.HasPreviousSurgeries }),
	"health_history.previous_surgeries":     textField(KindTextarea, func(r *nut) *string { return &r.HealthHistory.PreviousSurgeries }),
	"health_history.has_food_allergies":     flagField(func(r *nut) **bool { return &r.HealthHistory.HasFoodAllergies }),
	"health_history.food_allergies":         textField(KindTextarea, func(r *nut) *string { return &r.HealthHistory.FoodAllergies }),
	"health_history.has_medications":        flagField(func(r *nut) **bool { return &r.HealthHistory.HasMedications }),
	"health_history.medications":            textField(KindTextarea, func(r *nut) *string { return &r.HealthHistory.Medications }),
	"health_history.has_family_history":     flagField(func(r *nut) **bool { return &r.HealthHistory.HasFamilyHistory }),
	"health_history.family_history":         textField(KindTextarea, func(r *nut) *string { return &r.HealthHistory.FamilyHistory }),
	"health_history.anxiety_level":          intField(0, 10, func(r *nut) *int { return &r.HealthHistory.AnxietyLevel }),

	"health_history.has_gynecological_diseases": onlyWhen(flagField(func(r *nut) **bool {
		return &r.ownFeminine().HasGynecologicalDiseases
	}), isFeminine),
	"health_history.gynecological_diseases": onlyWhen(textField(KindTextarea, func(r *nut) *string {
		return &r.ownFeminine().GynecologicalDiseases
	}), isFeminine),
	"health_history.menstrual_cycle.first_period_age": onlyWhen(intField(0, 99, func(r *nut) *int {
		return &r.ownMenstrualCycle().FirstPeriodAge
	}), isFeminine),
	"health_history.menstrual_cycle.is_regular": onlyWhen(flagField(func(r *nut) **bool {
		return &r.ownMenstrualCycle().IsRegular
	}), isFeminine),
	"health_history.menstrual_cycle.cycle_duration": onlyWhen(intField(0, 365, func(r *nut) *int {
		return &r.ownMenstrualCycle().CycleDuration
	}), isFeminine),
	"health_history.menstrual_cycle.symptoms": onlyWhen(listField(func(r *nut) *[]string {
		return &r.ownMenstrualCycle().Symptoms
	}), isFeminine),
	"health_history.menstrual_cycle.affects_eating": onlyWhen(flagField(func(r *nut) **bool {
		return &r.ownMenstrualCycle().AffectsEating
	}), isFeminine),

	"lifestyle.physical_activity_level":    textField(KindSelect, func(r *nut) *string { return &r.Lifestyle.PhysicalActivityLevel }),
	"lifestyle.sleep_hours":                numberField(func(r *nut) *float64 { return &r.Lifestyle.SleepHours }),
	"lifestyle.wake_up_time":               textField(KindTime, func(r *nut) *string { return &r.Lifestyle.WakeUpTime }),
	"lifestyle.alcohol_consumption.drinks": flagField(func(r *nut) **bool { return &r.Lifestyle.AlcoholConsumption.Drinks }),
	"lifestyle.smoking.smokes":             flagField(func(r *nut) **bool { return &r.Lifestyle.Smoking.Smokes }),
	"lifestyle.work_hours":                 numberField(func(r *nut) *float64 { return &r.Lifestyle.WorkHours }),
	"lifestyle.supplements":                listField(func(r *nut) *[]string { return &r.Lifestyle.Supplements }),
	"lifestyle.bowel_movements.frequency":  numberField(func(r *nut) *float64 { return &r.Lifestyle.BowelMovements.Frequency }),
	"lifestyle.bowel_movements.issues":     listField(func(r *nut) *[]string { return &r.Lifestyle.BowelMovements.Issues }),
	"lifestyle.water_intake":               numberField(func(r *nut) *float64 { return &r.Lifestyle.WaterIntake }),
	"lifestyle.urination.normal":           flagField(func(r *nut) **bool { return &r.Lifestyle.Urination.Normal }),
	"lifestyle.urination.observations":     textField(KindTextarea, func(r *nut) *string { return &r.Lifestyle.Urination.Observations }),

	"eating_habits.previous_diets":          flagField(func(r *nut) **bool { return &r.EatingHabits.PreviousDiets }),
	"eating_habits.diet_difficulties":       listField(func(r *nut) *[]string { return &r.EatingHabits.DietDifficulties }),
	"eating_habits.daily_routine":           textField(KindTextarea, func(r *nut) *string { return &r.EatingHabits.DailyRoutine }),
	"eating_habits.disliked_foods":          listField(func(r *nut) *[]string { return &r.EatingHabits.DislikedFoods }),
	"eating_habits.favorite_foods":          listField(func(r *nut) *[]string { return &r.EatingHabits.FavoriteFoods }),
	"eating_habits.soda_consumption.drinks": flagField(func(r *nut) **bool { return &r.EatingHabits.SodaConsumption.Drinks }),
	"eating_habits.weekend_eating":          textField(KindTextarea, func(r *nut) *string { return &r.EatingHabits.WeekendEating }),
	"eating_habits.eats_watching_tv":        flagField(func(r *nut) **bool { return &r.EatingHabits.EatsWatchingTV }),
	"eating_habits.water_intake":            numberField(func(r *nut) *float64 { return &r.EatingHabits.WaterIntake }),
}

// GetNutritionalField reads the value at a dot separated path such as
// "lifestyle.smoking.smokes". Unknown paths, and feminine-only paths on a
// masculino record, read as "".
func GetNutritionalField(record NutritionalRecord, path string) any {
	return nutritionalFields.read(record, path)
}

// SetNutritionalField returns a copy of record with path set to value.
// Only the sub-records along path are copied; record itself is never
// modified.
func SetNutritionalField(record NutritionalRecord, path string, value any) (NutritionalRecord, error) {
	return nutritionalFields.write(record, path, value)
}
