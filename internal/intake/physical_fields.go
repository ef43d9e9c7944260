package intake

import "fmt"

type phys = PhysicalRecord

var physicalFields = fieldTable[PhysicalRecord]{
	"sex":               textField(KindChoice, func(r *phys) *string { return &r.Sex }),
	"age_range":         textField(KindChoice, func(r *phys) *string { return &r.AgeRange }),
	"objective":         textField(KindChoice, func(r *phys) *string { return &r.Objective }),
	"inactive_period":   textField(KindChoice, func(r *phys) *string { return &r.InactivePeriod }),
	"experience_period": textField(KindChoice, func(r *phys) *string { return &r.ExperiencePeriod }),
	"availability":      textField(KindChoice, func(r *phys) *string { return &r.Availability }),
	"training_level":    textField(KindChoice, func(r *phys) *string { return &r.TrainingLevel }),
	"chest_pain": {
		kind: KindChoice,
		get: func(r *phys) any {
			switch {
			case !r.ChestPainAnswered:
				return ""
			case r.ChestPain:
				return "sim"
			default:
				return "nao"
			}
		},
		set: func(r *phys, v any) error {
			b, err := coerceOptionalBool(v)
			if err != nil {
				return err
			}
			if b == nil {
				r.ChestPain, r.ChestPainAnswered = false, false
				return nil
			}
			r.ChestPain, r.ChestPainAnswered = *b, true
			return nil
		},
	},
	"medical_clearance": flagField(func(r *phys) **bool { return &r.MedicalClearance }),
	"medical_document": {
		kind: KindFile,
		get: func(r *phys) any {
			if r.MedicalDocument == nil {
				return ""
			}
			doc := *r.MedicalDocument
			return doc
		},
		set: func(r *phys, v any) error {
			switch doc := v.(type) {
			case nil:
				r.MedicalDocument = nil
			case Document:
				r.MedicalDocument = &doc
			case *Document:
				if doc == nil {
					r.MedicalDocument = nil
					return nil
				}
				copied := *doc
				r.MedicalDocument = &copied
			default:
				return fmt.Errorf("expected document, got %T", v)
			}
			return nil
		},
	},
	"agreement": {
		kind: KindCheckbox,
		get:  func(r *phys) any { return r.Agreement },
		set: func(r *phys, v any) error {
			b, err := coerceOptionalBool(v)
			if err != nil {
				return err
			}
			r.Agreement = b != nil && *b
			return nil
		},
	},
	"medication":             textField(KindChoice, func(r *phys) *string { return &r.Medication }),
	"pre_existing_condition": textField(KindChoice, func(r *phys) *string { return &r.PreExistingCondition }),
	"risk_condition":         textField(KindChoice, func(r *phys) *string { return &r.RiskCondition }),
	"injury":                 textField(KindChoice, func(r *phys) *string { return &r.Injury }),
}

// GetPhysicalField reads path from record; unknown paths read as "".
func GetPhysicalField(record PhysicalRecord, path string) any {
	return physicalFields.read(record, path)
}

// SetPhysicalField returns a copy of record with path set to value. The
// input record is left untouched.
func SetPhysicalField(record PhysicalRecord, path string, value any) (PhysicalRecord, error) {
	return physicalFields.write(record, path, value)
}
