package intake

import (
	"fmt"
	"strings"
	"time"
)

// PhysicalRow is one row of the assessments table.
type PhysicalRow struct {
	PhoneID                  string
	Sex                      string
	AgeRange                 string
	Objective                string
	InactivePeriod           string
	ExperiencePeriod         string
	Availability             string
	TrainingLevel            string
	ChestPain                bool
	MedicalClearance         *bool
	MedicalDocumentURL       *string
	Medication               bool
	PreExistingCondition     string
	LifeThreateningCondition bool
	Injury                   bool
	Agreement                bool
}

// PreparePhysicalSubmission checks the record and the phone reference and
// maps them to a row. Missing answers are reported before a missing phone.
func PreparePhysicalSubmission(phoneID string, record PhysicalRecord) (PhysicalRow, error) {
	if err := ValidatePhysical(record); err != nil {
		return PhysicalRow{}, err
	}
	if err := RequirePhoneID(phoneID); err != nil {
		return PhysicalRow{}, err
	}
	return BuildPhysicalRow(phoneID, record), nil
}

func BuildPhysicalRow(phoneID string, record PhysicalRecord) PhysicalRow {
	row := PhysicalRow{
		PhoneID:                  phoneID,
		Sex:                      record.Sex,
		AgeRange:                 record.AgeRange,
		Objective:                record.Objective,
		InactivePeriod:           record.InactivePeriod,
		ExperiencePeriod:         record.ExperiencePeriod,
		Availability:             record.Availability,
		TrainingLevel:            record.TrainingLevel,
		ChestPain:                record.ChestPain,
		Medication:               record.Medication == "sim",
		PreExistingCondition:     record.PreExistingCondition,
		LifeThreateningCondition: record.RiskCondition == "sim",
		Injury:                   record.Injury == "sim",
		Agreement:                record.Agreement,
	}
	// Clearance and document only count under a chest pain answer.
	if record.ChestPain {
		if record.MedicalClearance != nil {
			row.MedicalClearance = boolPtr(*record.MedicalClearance)
		}
		if record.MedicalDocument != nil && record.MedicalDocument.URL != "" {
			url := record.MedicalDocument.URL
			row.MedicalDocumentURL = &url
		}
	}
	return row
}

// NutritionalRow is one row of the nutritional_assessments table. The
// three sub-records are stored as JSONB.
type NutritionalRow struct {
	PhoneID       string
	FormType      FormVariant
	FullName      string
	BirthDate     time.Time
	Weight        float64
	Height        float64
	UsualWeight   *float64
	WeightChanges *WeightChanges
	MaritalStatus *string
	Children      *string
	HealthHistory HealthHistory
	Lifestyle     Lifestyle
	EatingHabits  EatingHabits
}

func PrepareNutritionalSubmission(phoneID string, variant FormVariant, record NutritionalRecord) (NutritionalRow, error) {
	if err := ValidateNutritional(record); err != nil {
		return NutritionalRow{}, err
	}
	if err := RequirePhoneID(phoneID); err != nil {
		return NutritionalRow{}, err
	}
	return BuildNutritionalRow(phoneID, variant, record)
}

func BuildNutritionalRow(phoneID string, variant FormVariant, record NutritionalRecord) (NutritionalRow, error) {
	birth, err := time.Parse(time.DateOnly, record.BirthDate)
	if err != nil {
		return NutritionalRow{}, &Error{
			Kind:    KindValidation,
			Message: msgNutritionalRequired,
			Err:     fmt.Errorf("birth date %q: %w", record.BirthDate, err),
		}
	}
	row := NutritionalRow{
		PhoneID:       phoneID,
		FormType:      variant,
		FullName:      strings.TrimSpace(record.FullName),
		BirthDate:     birth,
		Weight:        record.Weight,
		Height:        record.Height,
		MaritalStatus: optionalText(record.MaritalStatus),
		Children:      optionalText(record.Children),
		HealthHistory: record.HealthHistory,
		Lifestyle:     record.Lifestyle,
		EatingHabits:  record.EatingHabits,
	}
	if record.UsualWeight != 0 {
		usual := record.UsualWeight
		row.UsualWeight = &usual
	}
	if !record.WeightChanges.Empty() {
		changes := record.WeightChanges
		row.WeightChanges = &changes
	}
	return row, nil
}

func optionalText(s string) *string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return &s
}
