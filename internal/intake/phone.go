package intake

import "regexp"

// Country code 55, two digit area code, 8 or 9 digit subscriber number.
var phonePattern = regexp.MustCompile(`^55[0-9]{10,11}$`)

var ErrInvalidPhone = &Error{
	Kind:    KindValidation,
	Message: "Número de telefone inválido. Use o formato: 55 + DDD + número",
}

// ValidatePhone matches the raw input; no normalisation is applied.
func ValidatePhone(phone string) error {
	if !phonePattern.MatchString(phone) {
		return ErrInvalidPhone
	}
	return nil
}
