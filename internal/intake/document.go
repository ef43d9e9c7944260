package intake

import (
	"mime"
	"path/filepath"
	"strings"
)

const MaxDocumentSize int64 = 5 * 1024 * 1024

var allowedDocumentTypes = map[string]string{
	"application/pdf":    ".pdf",
	"application/msword": ".doc",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": ".docx",
	"image/jpeg": ".jpg",
	"image/png":  ".png",
}

var (
	ErrDocumentTooLarge = &Error{
		Kind:    KindValidation,
		Message: "O arquivo é muito grande. O tamanho máximo permitido é 5MB.",
	}
	ErrDocumentType = &Error{
		Kind:    KindValidation,
		Message: "Tipo de arquivo não permitido. Use PDF, DOC, DOCX, JPG ou PNG.",
	}
)

// ValidateDocument checks an upload before anything is stored. Size is
// checked first.
func ValidateDocument(size int64, contentType string) error {
	if size > MaxDocumentSize {
		return ErrDocumentTooLarge
	}
	if _, ok := allowedDocumentTypes[normalizeContentType(contentType)]; !ok {
		return ErrDocumentType
	}
	return nil
}

// DocumentExtension returns the storage extension for an accepted type,
// preferring the extension of the uploaded name when it agrees.
func DocumentExtension(fileName, contentType string) string {
	ext, ok := allowedDocumentTypes[normalizeContentType(contentType)]
	if !ok {
		return ""
	}
	given := strings.ToLower(filepath.Ext(fileName))
	if given == ".jpeg" && ext == ".jpg" {
		return given
	}
	return ext
}

func normalizeContentType(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mediaType
}
