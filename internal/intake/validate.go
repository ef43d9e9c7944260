package intake

import "strings"

type requiredField struct {
	path  string
	label string
	set   func(PhysicalRecord) bool
}

func answered(get func(PhysicalRecord) string) func(PhysicalRecord) bool {
	return func(r PhysicalRecord) bool { return get(r) != "" }
}

var physicalRequired = []requiredField{
	{"sex", "Sexo", answered(func(r PhysicalRecord) string { return r.Sex })},
	{"age_range", "Faixa Etária", answered(func(r PhysicalRecord) string { return r.AgeRange })},
	{"objective", "Objetivo", answered(func(r PhysicalRecord) string { return r.Objective })},
	{"inactive_period", "Período Inativo", answered(func(r PhysicalRecord) string { return r.InactivePeriod })},
	{"experience_period", "Experiência", answered(func(r PhysicalRecord) string { return r.ExperiencePeriod })},
	{"availability", "Disponibilidade", answered(func(r PhysicalRecord) string { return r.Availability })},
	{"training_level", "Nível de Treino", answered(func(r PhysicalRecord) string { return r.TrainingLevel })},
	{"chest_pain", "Dores no Peito", func(r PhysicalRecord) bool { return r.ChestPainAnswered }},
	{"medication", "Medicação", answered(func(r PhysicalRecord) string { return r.Medication })},
	{"pre_existing_condition", "Doença Pré-existente", answered(func(r PhysicalRecord) string { return r.PreExistingCondition })},
	{"risk_condition", "Condição de Risco", answered(func(r PhysicalRecord) string { return r.RiskCondition })},
	{"injury", "Lesão", answered(func(r PhysicalRecord) string { return r.Injury })},
	{"agreement", "Termo de Acordo", func(r PhysicalRecord) bool { return r.Agreement }},
}

// MissingPhysicalFields lists the labels of unanswered required fields in
// question order.
func MissingPhysicalFields(record PhysicalRecord) []string {
	var missing []string
	for _, f := range physicalRequired {
		if !f.set(record) {
			missing = append(missing, f.label)
		}
	}
	return missing
}

func ValidatePhysical(record PhysicalRecord) error {
	missing := MissingPhysicalFields(record)
	if len(missing) == 0 {
		return nil
	}
	return Validationf("Campos obrigatórios não preenchidos: %s", strings.Join(missing, ", "))
}

// RequirePhoneID fails when no verified phone reference accompanies a
// submission.
func RequirePhoneID(phoneID string) error {
	if strings.TrimSpace(phoneID) == "" {
		return ErrMissingPhoneID
	}
	return nil
}

const msgNutritionalRequired = "Por favor, preencha todos os campos obrigatórios."

func ValidateNutritional(record NutritionalRecord) error {
	if strings.TrimSpace(record.FullName) == "" || record.BirthDate == "" || record.Weight == 0 || record.Height == 0 {
		return Validationf(msgNutritionalRequired)
	}
	return nil
}
