package intake

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePhone(t *testing.T) {
	cases := []struct {
		phone string
		ok    bool
	}{
		{"5511987654321", true},
		{"551187654321", true},
		{"11987654321", false},
		{"5511", false},
		{"55119876543210", false},
		{"55 11987654321", false},
		{"+5511987654321", false},
		{"5511a87654321", false},
		{"", false},
	}
	for _, tc := range cases {
		err := ValidatePhone(tc.phone)
		if tc.ok {
			assert.NoError(t, err, tc.phone)
			continue
		}
		assert.Same(t, ErrInvalidPhone, err, tc.phone)
	}
}

func TestValidateDocument(t *testing.T) {
	assert.NoError(t, ValidateDocument(MaxDocumentSize, "application/pdf"))
	assert.NoError(t, ValidateDocument(10, "image/png"))
	assert.NoError(t, ValidateDocument(10, "application/vnd.openxmlformats-officedocument.wordprocessingml.document"))
	assert.NoError(t, ValidateDocument(10, "application/pdf; charset=binary"))
	assert.Same(t, ErrDocumentTooLarge, ValidateDocument(MaxDocumentSize+1, "application/pdf"))
	assert.Same(t, ErrDocumentType, ValidateDocument(10, "text/plain"))
	assert.Same(t, ErrDocumentTooLarge, ValidateDocument(MaxDocumentSize+1, "text/plain"))

	assert.Equal(t, ".jpeg", DocumentExtension("foto.JPEG", "image/jpeg"))
	assert.Equal(t, ".jpg", DocumentExtension("foto", "image/jpeg"))
	assert.Equal(t, "", DocumentExtension("a.txt", "text/plain"))
}
