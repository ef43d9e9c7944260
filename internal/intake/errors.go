package intake

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a failure for the presentation layer.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindPrecondition
	KindRemote
	KindNotFound
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindPrecondition:
		return "precondition"
	case KindRemote:
		return "remote"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

const (
	MsgGenericSubmitFailure = "Erro ao enviar formulário. Tente novamente."
	MsgGenericFileFailure   = "Erro ao processar o arquivo. Por favor, tente novamente."
	MsgUnexpected           = "Erro inesperado. Tente novamente."
)

// Error carries a user-facing message. Err holds the diagnostic cause and
// is never shown to the user.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func Validationf(format string, args ...any) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func Preconditionf(format string, args ...any) error {
	return &Error{Kind: KindPrecondition, Message: fmt.Sprintf(format, args...)}
}

func NotFound(message string, cause error) error {
	return &Error{Kind: KindNotFound, Message: message, Err: cause}
}

// Remote wraps a failure of the data store or document storage. The store's
// own message is surfaced verbatim; an empty one falls back to fallback.
func Remote(storeMessage, fallback string, cause error) error {
	msg := strings.TrimSpace(storeMessage)
	if msg == "" {
		msg = fallback
	}
	return &Error{Kind: KindRemote, Message: msg, Err: cause}
}

var (
	ErrUnknownField      = errors.New("unknown field")
	ErrFieldNotAvailable = errors.New("field not available for this form variant")
	ErrWrongStep         = errors.New("action not available on the current step")

	ErrDocumentRequired = &Error{
		Kind:    KindValidation,
		Message: "Por favor, faça o upload do seu laudo médico para continuar",
	}
	ErrMissingPhoneID = &Error{
		Kind:    KindPrecondition,
		Message: "ID do telefone não encontrado",
	}
)

func KindOf(err error) ErrorKind {
	var ie *Error
	if errors.As(err, &ie) {
		return ie.Kind
	}
	return KindInternal
}

// MessageOf returns the user-facing message for err. Errors that did not
// originate in this package never leak their text.
func MessageOf(err error) string {
	var ie *Error
	if errors.As(err, &ie) && ie.Message != "" {
		return ie.Message
	}
	return MsgUnexpected
}

type NoticeLevel string

const (
	NoticeError   NoticeLevel = "error"
	NoticeSuccess NoticeLevel = "success"
	NoticeInfo    NoticeLevel = "info"
)

// Notice is a single-line transient message for the user.
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}

func NoticeFor(err error) Notice {
	return Notice{Level: NoticeError, Message: MessageOf(err)}
}

func SuccessNotice(message string) Notice {
	return Notice{Level: NoticeSuccess, Message: message}
}
