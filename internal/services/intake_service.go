package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/saeid-a/AssessmentIntake/internal/intake"
	"github.com/saeid-a/AssessmentIntake/internal/models"
	"github.com/saeid-a/AssessmentIntake/pkg/utils"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	msgPhoneNotVerified   = "Número não verificado. Entre em contato com o suporte."
	msgPhoneLookupFailed  = "Erro ao verificar o número. Tente novamente."
	msgPhoneRequired      = "Por favor, verifique seu número de telefone primeiro."
	msgPhysicalSubmitted  = "Você já preencheu a avaliação física."
	msgNutritionSubmitted = "Você já preencheu a avaliação nutricional."
	msgSessionNotFound    = "Sessão do formulário não encontrada. Comece novamente."
	msgStorageUnavailable = "Envio de arquivos indisponível no momento. Tente novamente mais tarde."
	msgSubmitSuccess      = "Formulário enviado com sucesso!"
	msgDocumentAttached   = "Laudo médico enviado com sucesso."

	phoneLookupTimeout = 10 * time.Second
)

type FormType string

const (
	FormGym       FormType = "gym"
	FormNutrition FormType = "nutrition"
)

type phoneStore interface {
	FindByPhone(ctx context.Context, phone string) (*models.PhoneEntry, error)
	GetByID(ctx context.Context, id string) (*models.PhoneEntry, error)
}

type physicalAssessmentStore interface {
	Create(ctx context.Context, row intake.PhysicalRow) (*models.AssessmentReceipt, error)
}

type nutritionalAssessmentStore interface {
	Create(ctx context.Context, row intake.NutritionalRow) (*models.AssessmentReceipt, error)
}

type noticePublisher interface {
	Publish(sessionID string, notice intake.Notice)
}

type IntakeDependencies struct {
	Phones        phoneStore
	Physical      physicalAssessmentStore
	Nutritional   nutritionalAssessmentStore
	Documents     DocumentStorage
	Sessions      *SessionStore
	Catalog       *intake.Catalog
	Notices       noticePublisher
	Logger        *zap.Logger
	JWTSecret     string
	PhoneTokenTTL time.Duration
}

type IntakeService struct {
	phones      phoneStore
	physical    physicalAssessmentStore
	nutritional nutritionalAssessmentStore
	documents   DocumentStorage
	sessions    *SessionStore
	catalog     *intake.Catalog
	notices     noticePublisher
	logger      *zap.Logger
	jwtSecret   string
	tokenTTL    time.Duration

	verifyGroup singleflight.Group
}

type nopPublisher struct{}

func (nopPublisher) Publish(string, intake.Notice) {}

func NewIntakeService(deps IntakeDependencies) *IntakeService {
	s := &IntakeService{
		phones:      deps.Phones,
		physical:    deps.Physical,
		nutritional: deps.Nutritional,
		documents:   deps.Documents,
		sessions:    deps.Sessions,
		catalog:     deps.Catalog,
		notices:     deps.Notices,
		logger:      deps.Logger,
		jwtSecret:   deps.JWTSecret,
		tokenTTL:    deps.PhoneTokenTTL,
	}
	if s.documents == nil {
		s.documents = unavailableStorage{}
	}
	if s.notices == nil {
		s.notices = nopPublisher{}
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// PhoneVerification is handed to the client after a successful lookup.
type PhoneVerification struct {
	PhoneID        string `json:"phone_id"`
	HasPhysical    bool   `json:"has_gym_assessment"`
	HasNutritional bool   `json:"has_nutritional_assessment"`
	Token          string `json:"token"`
}

// VerifyPhone checks the format, looks the phone up and issues a phone
// token. Concurrent calls for the same phone share one lookup, which
// outlives the caller that started it.
func (s *IntakeService) VerifyPhone(ctx context.Context, phone string) (*PhoneVerification, error) {
	if err := intake.ValidatePhone(phone); err != nil {
		return nil, err
	}

	result, err, shared := s.verifyGroup.Do(phone, func() (any, error) {
		lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), phoneLookupTimeout)
		defer cancel()

		entry, err := s.phones.FindByPhone(lookupCtx, phone)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, intake.NotFound(msgPhoneLookupFailed, err)
			}
			return nil, intake.Remote("", msgPhoneLookupFailed, fmt.Errorf("find phone: %w", err))
		}
		if !entry.Verified {
			return nil, intake.Preconditionf(msgPhoneNotVerified)
		}

		token, err := utils.GenerateToken(entry.ID, entry.HasPhysical, entry.HasNutritional, s.jwtSecret, s.tokenTTL)
		if err != nil {
			return nil, fmt.Errorf("generate phone token: %w", err)
		}
		return &PhoneVerification{
			PhoneID:        entry.ID,
			HasPhysical:    entry.HasPhysical,
			HasNutritional: entry.HasNutritional,
			Token:          token,
		}, nil
	})
	if err != nil {
		s.logFailure("phone verification failed", err, zap.Bool("shared", shared))
		return nil, err
	}

	verification := result.(*PhoneVerification)
	s.logger.Info("phone verified", zap.String("phone_id", verification.PhoneID), zap.Bool("shared", shared))
	return verification, nil
}

type FormSelection struct {
	PhoneID string   `json:"phone_id"`
	Form    FormType `json:"form"`
	// Next names the page the client goes to.
	Next string `json:"next"`
}

// SelectForm checks that the chosen assessment has not been submitted yet.
// The markers are read again so a stale token cannot reopen a form.
func (s *IntakeService) SelectForm(ctx context.Context, phoneID string, form FormType) (*FormSelection, error) {
	entry, err := s.requirePhone(ctx, phoneID)
	if err != nil {
		return nil, err
	}

	switch form {
	case FormGym:
		if entry.HasPhysical {
			return nil, intake.Preconditionf(msgPhysicalSubmitted)
		}
		return &FormSelection{PhoneID: entry.ID, Form: form, Next: "assessment"}, nil
	case FormNutrition:
		if entry.HasNutritional {
			return nil, intake.Preconditionf(msgNutritionSubmitted)
		}
		return &FormSelection{PhoneID: entry.ID, Form: form, Next: "nutrition-gender-select"}, nil
	default:
		return nil, intake.Validationf("Tipo de formulário inválido.")
	}
}

func (s *IntakeService) requirePhone(ctx context.Context, phoneID string) (*models.PhoneEntry, error) {
	if strings.TrimSpace(phoneID) == "" {
		return nil, intake.Preconditionf(msgPhoneRequired)
	}
	entry, err := s.phones.GetByID(ctx, phoneID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, intake.Preconditionf(msgPhoneRequired)
		}
		return nil, intake.Remote("", msgPhoneLookupFailed, fmt.Errorf("get phone %s: %w", phoneID, err))
	}
	if !entry.Verified {
		return nil, intake.Preconditionf(msgPhoneNotVerified)
	}
	return entry, nil
}

// StepResult is returned by every wizard operation.
type StepResult[V any] struct {
	SessionID  string             `json:"session_id"`
	View       V                  `json:"view"`
	Transition intake.Transition  `json:"transition"`
	Notice     *intake.Notice     `json:"notice,omitempty"`
	Submitted  *SubmissionOutcome `json:"submitted,omitempty"`
}

type PhysicalResult = StepResult[intake.PhysicalView]

type NutritionalResult = StepResult[intake.NutritionalView]

// SubmissionOutcome carries what the success page needs.
type SubmissionOutcome struct {
	AssessmentID string `json:"assessment_id"`
	PhoneID      string `json:"phone_id"`
	Redirect     string `json:"redirect"`
}

func (s *IntakeService) StartPhysical(ctx context.Context, phoneID string) (*PhysicalResult, error) {
	if _, err := s.SelectForm(ctx, phoneID, FormGym); err != nil {
		return nil, err
	}
	session := s.sessions.CreatePhysical(phoneID, intake.NewPhysicalWizard(&s.catalog.Physical))
	s.logger.Info("physical wizard started", zap.String("phone_id", phoneID), zap.String("session_id", session.ID))
	return &PhysicalResult{SessionID: session.ID, View: session.Physical.View()}, nil
}

func (s *IntakeService) StartNutritional(ctx context.Context, phoneID, formType string) (*NutritionalResult, error) {
	variant, err := intake.ParseFormVariant(formType)
	if err != nil {
		return nil, err
	}
	if _, err := s.SelectForm(ctx, phoneID, FormNutrition); err != nil {
		return nil, err
	}
	session := s.sessions.CreateNutritional(phoneID, intake.NewNutritionalWizard(&s.catalog.Nutritional, variant))
	s.logger.Info("nutritional wizard started",
		zap.String("phone_id", phoneID),
		zap.String("session_id", session.ID),
		zap.String("form_type", string(variant)),
	)
	return &NutritionalResult{SessionID: session.ID, View: session.Nutritional.View()}, nil
}

func (s *IntakeService) PhysicalView(ctx context.Context, phoneID, sessionID string) (*PhysicalResult, error) {
	return s.physicalStep(ctx, phoneID, sessionID, func(w *intake.PhysicalWizard) (intake.Transition, error) {
		return intake.Transition{}, nil
	})
}

func (s *IntakeService) AnswerPhysical(ctx context.Context, phoneID, sessionID, value string) (*PhysicalResult, error) {
	return s.physicalStep(ctx, phoneID, sessionID, func(w *intake.PhysicalWizard) (intake.Transition, error) {
		return w.Answer(value)
	})
}

func (s *IntakeService) AnswerClearance(ctx context.Context, phoneID, sessionID string, hasClearance bool) (*PhysicalResult, error) {
	return s.physicalStep(ctx, phoneID, sessionID, func(w *intake.PhysicalWizard) (intake.Transition, error) {
		return w.AnswerClearance(hasClearance)
	})
}

func (s *IntakeService) SetAgreement(ctx context.Context, phoneID, sessionID string, checked bool) (*PhysicalResult, error) {
	return s.physicalStep(ctx, phoneID, sessionID, func(w *intake.PhysicalWizard) (intake.Transition, error) {
		return w.SetAgreement(checked)
	})
}

func (s *IntakeService) RetreatPhysical(ctx context.Context, phoneID, sessionID string) (*PhysicalResult, error) {
	return s.physicalStep(ctx, phoneID, sessionID, func(w *intake.PhysicalWizard) (intake.Transition, error) {
		w.Retreat()
		return intake.Transition{}, nil
	})
}

// AdvancePhysical moves forward; on the review step it submits the
// assessment and closes the session.
func (s *IntakeService) AdvancePhysical(ctx context.Context, phoneID, sessionID string) (*PhysicalResult, error) {
	var result *PhysicalResult
	err := s.sessions.With(sessionID, phoneID, WizardPhysical, func(session *WizardSession) error {
		w := session.Physical
		transition, err := w.Advance()
		if err != nil {
			return err
		}
		result = &PhysicalResult{SessionID: session.ID, Transition: transition}
		if transition.SubmitRequested {
			outcome, err := s.submitPhysical(ctx, session)
			if err != nil {
				return err
			}
			result.Submitted = outcome
			notice := intake.SuccessNotice(msgSubmitSuccess)
			result.Notice = &notice
			session.Finish()
		}
		result.View = w.View()
		return nil
	})
	return finishResult(s, sessionID, result, err)
}

func (s *IntakeService) submitPhysical(ctx context.Context, session *WizardSession) (*SubmissionOutcome, error) {
	row, err := intake.PreparePhysicalSubmission(session.PhoneID, session.Physical.Record())
	if err != nil {
		return nil, err
	}
	receipt, err := s.physical.Create(ctx, row)
	if err != nil {
		return nil, intake.Remote(storeMessage(err), intake.MsgGenericSubmitFailure, fmt.Errorf("insert assessment: %w", err))
	}
	s.logger.Info("physical assessment submitted",
		zap.String("phone_id", session.PhoneID),
		zap.String("session_id", session.ID),
		zap.String("assessment_id", receipt.ID),
	)
	return outcomeFor(receipt, session.PhoneID), nil
}

// UploadDocument validates the file, stores it under the phone's folder and
// records it on the wizard. A replaced document is removed from storage.
func (s *IntakeService) UploadDocument(ctx context.Context, phoneID, sessionID string, upload DocumentUpload) (*PhysicalResult, error) {
	var result *PhysicalResult
	err := s.sessions.With(sessionID, phoneID, WizardPhysical, func(session *WizardSession) error {
		w := session.Physical
		if !w.AcceptsDocument() {
			return intake.WrongStep("document")
		}
		if err := intake.ValidateDocument(upload.Size, upload.ContentType); err != nil {
			return err
		}

		doc, err := s.documents.SaveMedicalDocument(ctx, session.PhoneID, upload)
		if err != nil {
			return documentStoreError(err)
		}

		var previous string
		if attached := w.Record().MedicalDocument; attached != nil {
			previous = attached.URL
		}
		transition, err := w.AttachDocument(doc)
		if err != nil {
			s.removeDocument(ctx, session.ID, doc.URL)
			return err
		}
		if previous != "" && previous != doc.URL {
			s.removeDocument(ctx, session.ID, previous)
		}

		notice := intake.Notice{Level: intake.NoticeInfo, Message: msgDocumentAttached}
		result = &PhysicalResult{SessionID: session.ID, View: w.View(), Transition: transition, Notice: &notice}
		return nil
	})
	return finishResult(s, sessionID, result, err)
}

func documentStoreError(err error) error {
	var intakeErr *intake.Error
	switch {
	case errors.Is(err, ErrStorageUnavailable):
		return &intake.Error{Kind: intake.KindRemote, Message: msgStorageUnavailable, Err: err}
	case errors.As(err, &intakeErr):
		return err
	default:
		return intake.Remote("", intake.MsgGenericFileFailure, fmt.Errorf("upload document: %w", err))
	}
}

func (s *IntakeService) removeDocument(ctx context.Context, sessionID, fileURL string) {
	if err := s.documents.RemoveDocument(ctx, fileURL); err != nil {
		s.logger.Warn("remove medical document", zap.String("session_id", sessionID), zap.Error(err))
	}
}

// DocumentLink returns a short-lived signed URL for the attached document.
func (s *IntakeService) DocumentLink(ctx context.Context, phoneID, sessionID string) (string, error) {
	var link string
	err := s.sessions.With(sessionID, phoneID, WizardPhysical, func(session *WizardSession) error {
		doc := session.Physical.Record().MedicalDocument
		if doc == nil {
			return intake.NotFound("Nenhum laudo médico enviado.", nil)
		}
		signed, err := s.documents.SignDocumentURL(ctx, doc.URL)
		if err != nil {
			return intake.Remote("", intake.MsgGenericFileFailure, fmt.Errorf("sign document url: %w", err))
		}
		link = signed
		return nil
	})
	if err != nil {
		return "", s.translate(sessionID, err)
	}
	return link, nil
}

func (s *IntakeService) NutritionalView(ctx context.Context, phoneID, sessionID string) (*NutritionalResult, error) {
	return s.nutritionalStep(ctx, phoneID, sessionID, func(w *intake.NutritionalWizard) (intake.Transition, error) {
		return intake.Transition{}, nil
	})
}

// UpdateNutritional writes a batch of fields. The batch is applied as a
// whole or not at all.
func (s *IntakeService) UpdateNutritional(ctx context.Context, phoneID, sessionID string, values map[string]any) (*NutritionalResult, error) {
	return s.nutritionalStep(ctx, phoneID, sessionID, func(w *intake.NutritionalWizard) (intake.Transition, error) {
		return intake.Transition{}, w.SetAll(values)
	})
}

func (s *IntakeService) RetreatNutritional(ctx context.Context, phoneID, sessionID string) (*NutritionalResult, error) {
	return s.nutritionalStep(ctx, phoneID, sessionID, func(w *intake.NutritionalWizard) (intake.Transition, error) {
		w.Retreat()
		return intake.Transition{}, nil
	})
}

func (s *IntakeService) AdvanceNutritional(ctx context.Context, phoneID, sessionID string) (*NutritionalResult, error) {
	var result *NutritionalResult
	err := s.sessions.With(sessionID, phoneID, WizardNutritional, func(session *WizardSession) error {
		w := session.Nutritional
		transition := w.Advance()
		result = &NutritionalResult{SessionID: session.ID, Transition: transition}
		if transition.SubmitRequested {
			outcome, err := s.submitNutritional(ctx, session)
			if err != nil {
				return err
			}
			result.Submitted = outcome
			notice := intake.SuccessNotice(msgSubmitSuccess)
			result.Notice = &notice
			session.Finish()
		}
		result.View = w.View()
		return nil
	})
	return finishResult(s, sessionID, result, err)
}

func (s *IntakeService) submitNutritional(ctx context.Context, session *WizardSession) (*SubmissionOutcome, error) {
	w := session.Nutritional
	row, err := intake.PrepareNutritionalSubmission(session.PhoneID, w.Variant(), w.Record())
	if err != nil {
		return nil, err
	}
	receipt, err := s.nutritional.Create(ctx, row)
	if err != nil {
		return nil, intake.Remote(storeMessage(err), intake.MsgGenericSubmitFailure, fmt.Errorf("insert nutritional assessment: %w", err))
	}
	s.logger.Info("nutritional assessment submitted",
		zap.String("phone_id", session.PhoneID),
		zap.String("session_id", session.ID),
		zap.String("assessment_id", receipt.ID),
		zap.String("form_type", string(row.FormType)),
	)
	return outcomeFor(receipt, session.PhoneID), nil
}

func (s *IntakeService) physicalStep(
	_ context.Context,
	phoneID, sessionID string,
	op func(*intake.PhysicalWizard) (intake.Transition, error),
) (*PhysicalResult, error) {
	var result *PhysicalResult
	err := s.sessions.With(sessionID, phoneID, WizardPhysical, func(session *WizardSession) error {
		transition, err := op(session.Physical)
		if err != nil {
			return err
		}
		result = &PhysicalResult{SessionID: session.ID, View: session.Physical.View(), Transition: transition}
		return nil
	})
	return finishResult(s, sessionID, result, err)
}

func (s *IntakeService) nutritionalStep(
	_ context.Context,
	phoneID, sessionID string,
	op func(*intake.NutritionalWizard) (intake.Transition, error),
) (*NutritionalResult, error) {
	var result *NutritionalResult
	err := s.sessions.With(sessionID, phoneID, WizardNutritional, func(session *WizardSession) error {
		transition, err := op(session.Nutritional)
		if err != nil {
			return err
		}
		result = &NutritionalResult{SessionID: session.ID, View: session.Nutritional.View(), Transition: transition}
		return nil
	})
	return finishResult(s, sessionID, result, err)
}

// finishResult publishes the outcome notice of a session operation and turns
// internal errors into user-facing ones.
func finishResult[V any](s *IntakeService, sessionID string, result *StepResult[V], err error) (*StepResult[V], error) {
	if err != nil {
		return nil, s.translate(sessionID, err)
	}
	if result.Notice != nil {
		s.notices.Publish(sessionID, *result.Notice)
	}
	return result, nil
}

func (s *IntakeService) translate(sessionID string, err error) error {
	if errors.Is(err, ErrSessionNotFound) {
		err = intake.NotFound(msgSessionNotFound, err)
	}
	s.logFailure("wizard operation failed", err, zap.String("session_id", sessionID))
	s.notices.Publish(sessionID, intake.NoticeFor(err))
	return err
}

func (s *IntakeService) logFailure(msg string, err error, fields ...zap.Field) {
	fields = append(fields, zap.String("kind", intake.KindOf(err).String()), zap.Error(err))
	switch intake.KindOf(err) {
	case intake.KindValidation, intake.KindPrecondition, intake.KindNotFound:
		s.logger.Debug(msg, fields...)
	case intake.KindRemote:
		s.logger.Warn(msg, fields...)
	default:
		s.logger.Error(msg, fields...)
	}
}

// storeMessage extracts the database's own message so it can be shown to
// the user as-is.
func storeMessage(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Message
	}
	return ""
}

func outcomeFor(receipt *models.AssessmentReceipt, phoneID string) *SubmissionOutcome {
	return &SubmissionOutcome{
		AssessmentID: receipt.ID,
		PhoneID:      phoneID,
		Redirect:     "/success?phoneId=" + phoneID,
	}
}

// SessionOwnedBy reports whether sessionID is a live wizard of phoneID.
func (s *IntakeService) SessionOwnedBy(sessionID, phoneID string) bool {
	return s.sessions.Owns(sessionID, phoneID)
}

// Success echoes the identifier shown on the final page.
func (s *IntakeService) Success(phoneID string) (map[string]string, error) {
	if strings.TrimSpace(phoneID) == "" {
		return nil, intake.ErrMissingPhoneID
	}
	return map[string]string{"phone_id": phoneID, "message": msgSubmitSuccess}, nil
}
