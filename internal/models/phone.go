package models

// PhoneEntry is a row of phone_numbers with markers for the assessments
// already stored against it.
type PhoneEntry struct {
	ID             string `json:"id"`
	Phone          string `json:"phone"`
	Verified       bool   `json:"verified"`
	HasPhysical    bool   `json:"has_gym_assessment"`
	HasNutritional bool   `json:"has_nutritional_assessment"`
}
