package intake

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPhysicalWizard(t *testing.T) *PhysicalWizard {
	t.Helper()
	catalog, err := DefaultCatalog()
	require.NoError(t, err)
	return NewPhysicalWizard(&catalog.Physical)
}

// answerProfile answers the seven profile questions, leaving the wizard on
// the chest pain step.
func answerProfile(t *testing.T, w *PhysicalWizard) {
	t.Helper()
	for _, value := range []string{"masculino", "18-60", "hipertrofia", "nao-parado", "1-2-anos", "3-dias", "intermediario"} {
		tr, err := w.Answer(value)
		require.NoError(t, err)
		require.True(t, tr.Advanced)
	}
	require.Equal(t, 8, w.Step())
	require.Equal(t, AskingChestPain, w.Branch())
}

func pdf(size int64) Document {
	return Document{Name: "laudo.pdf", Size: size, ContentType: "application/pdf", URL: "https://storage.test/laudo.pdf"}
}

func TestPhysicalWizardChestPainNoSkipsBranch(t *testing.T) {
	w := newPhysicalWizard(t)
	answerProfile(t, w)

	tr, err := w.Answer("nao")
	require.NoError(t, err)

	assert.True(t, tr.Advanced)
	assert.Equal(t, 9, w.Step())
	assert.Equal(t, "medication", w.View().Current.Field)
	assert.Equal(t, Advanced, w.Branch())
	assert.Nil(t, w.Record().MedicalClearance)
}

func TestPhysicalWizardClearanceAwaitsUpload(t *testing.T) {
	w := newPhysicalWizard(t)
	answerProfile(t, w)

	tr, err := w.Answer("sim")
	require.NoError(t, err)
	assert.False(t, tr.Advanced)
	assert.Equal(t, AskingClearance, w.Branch())

	tr, err = w.AnswerClearance(true)
	require.NoError(t, err)
	assert.False(t, tr.Advanced)
	assert.Equal(t, AwaitingUpload, w.Branch())
	assert.Equal(t, 8, w.Step())

	_, err = w.AttachDocument(pdf(6 * 1024 * 1024))
	assert.Same(t, ErrDocumentTooLarge, err)
	assert.Equal(t, 8, w.Step())
	assert.Nil(t, w.Record().MedicalDocument)

	_, err = w.Advance()
	assert.True(t, errors.Is(err, ErrDocumentRequired))
	assert.Equal(t, 8, w.Step())

	tr, err = w.AttachDocument(pdf(2 * 1024 * 1024))
	require.NoError(t, err)
	assert.True(t, tr.Advanced)
	assert.Equal(t, 9, w.Step())
	require.NotNil(t, w.Record().MedicalDocument)
	assert.Equal(t, "https://storage.test/laudo.pdf", w.Record().MedicalDocument.URL)
}

func TestPhysicalWizardClearanceNoAdvances(t *testing.T) {
	w := newPhysicalWizard(t)
	answerProfile(t, w)

	_, err := w.Answer("sim")
	require.NoError(t, err)
	tr, err := w.AnswerClearance(false)
	require.NoError(t, err)

	assert.True(t, tr.Advanced)
	assert.Equal(t, 9, w.Step())
	require.NotNil(t, w.Record().MedicalClearance)
	assert.False(t, *w.Record().MedicalClearance)
}

func TestPhysicalWizardRejectsDocumentType(t *testing.T) {
	w := newPhysicalWizard(t)
	answerProfile(t, w)
	_, _ = w.Answer("sim")
	_, _ = w.AnswerClearance(true)

	doc := pdf(1024)
	doc.ContentType = "application/zip"
	_, err := w.AttachDocument(doc)

	assert.Same(t, ErrDocumentType, err)
	assert.Equal(t, AwaitingUpload, w.Branch())
}

func TestPhysicalWizardChestPainYesResetsClearance(t *testing.T) {
	w := newPhysicalWizard(t)
	answerProfile(t, w)
	_, _ = w.Answer("sim")
	_, _ = w.AnswerClearance(false)
	require.True(t, w.Retreat())
	require.Equal(t, 8, w.Step())
	assert.Equal(t, AskingClearance, w.Branch())

	_, err := w.Answer("sim")
	require.NoError(t, err)

	assert.Nil(t, w.Record().MedicalClearance)
	assert.Equal(t, AskingClearance, w.Branch())
}

func TestPhysicalWizardClearanceOutsideBranch(t *testing.T) {
	w := newPhysicalWizard(t)

	_, err := w.AnswerClearance(true)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrWrongStep))
	assert.Equal(t, KindPrecondition, KindOf(err))
}

func TestPhysicalWizardRejectsUnknownOption(t *testing.T) {
	w := newPhysicalWizard(t)

	_, err := w.Answer("outro")

	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Equal(t, 1, w.Step())
}

func TestPhysicalWizardAgreementAndSubmit(t *testing.T) {
	w := newPhysicalWizard(t)
	answerProfile(t, w)
	for _, value := range []string{"nao", "nao", "diabetes", "nao", "sim"} {
		_, err := w.Answer(value)
		require.NoError(t, err)
	}
	require.Equal(t, 13, w.Step())

	tr, err := w.SetAgreement(false)
	require.NoError(t, err)
	assert.False(t, tr.Advanced)
	assert.Equal(t, 13, w.Step())

	tr, err = w.SetAgreement(true)
	require.NoError(t, err)
	assert.True(t, tr.Advanced)
	assert.Equal(t, 14, w.Step())
	assert.Equal(t, "Última etapa", w.View().Progress)

	tr, err = w.Advance()
	require.NoError(t, err)
	assert.True(t, tr.SubmitRequested)
	assert.Equal(t, 14, w.Step())

	row, err := PreparePhysicalSubmission("phone-1", w.Record())
	require.NoError(t, err)
	assert.False(t, row.Medication)
	assert.True(t, row.Injury)
}

func TestPhysicalWizardBackAndForwardKeepsAnswers(t *testing.T) {
	w := newPhysicalWizard(t)
	answerProfile(t, w)
	before := w.Record()

	require.True(t, w.Retreat())
	require.Equal(t, 7, w.Step())
	_, err := w.Advance()
	require.NoError(t, err)

	assert.Equal(t, 8, w.Step())
	assert.Equal(t, before, w.Record())
	assert.Equal(t, "intermediario", GetPhysicalField(w.Record(), "training_level"))
}

func TestPhysicalWizardReentryResumesUpload(t *testing.T) {
	w := newPhysicalWizard(t)
	answerProfile(t, w)
	_, _ = w.Answer("sim")
	_, _ = w.AnswerClearance(true)

	require.True(t, w.Retreat())
	require.Equal(t, 7, w.Step())
	_, err := w.Advance()
	require.NoError(t, err)
	require.Equal(t, 8, w.Step())

	assert.Equal(t, AwaitingUpload, w.Branch())
	assert.True(t, w.AcceptsDocument())
	view := w.View()
	require.NotNil(t, view.Clearance)
	assert.NotEmpty(t, view.UploadPrompt)

	_, err = w.Advance()
	assert.True(t, errors.Is(err, ErrDocumentRequired))

	tr, err := w.AttachDocument(pdf(1024))
	require.NoError(t, err)
	assert.True(t, tr.Advanced)
	assert.Equal(t, 9, w.Step())
}

func TestPhysicalWizardReentryWithDocumentAllowsReplace(t *testing.T) {
	w := newPhysicalWizard(t)
	answerProfile(t, w)
	_, _ = w.Answer("sim")
	_, _ = w.AnswerClearance(true)
	_, err := w.AttachDocument(pdf(1024))
	require.NoError(t, err)

	require.True(t, w.Retreat())
	require.Equal(t, 8, w.Step())
	assert.Equal(t, AwaitingUpload, w.Branch())
	assert.Empty(t, w.View().UploadPrompt)

	tr, err := w.Advance()
	require.NoError(t, err)
	assert.True(t, tr.Advanced)
	assert.Equal(t, 9, w.Step())
}

func TestPhysicalWizardReentryAfterNoKeepsQuestion(t *testing.T) {
	w := newPhysicalWizard(t)
	answerProfile(t, w)
	_, _ = w.Answer("nao")

	require.True(t, w.Retreat())

	assert.Equal(t, 8, w.Step())
	assert.Equal(t, AskingChestPain, w.Branch())
	assert.False(t, w.AcceptsDocument())
	assert.Nil(t, w.View().Clearance)
}

func TestPhysicalWizardRetreatFloor(t *testing.T) {
	w := newPhysicalWizard(t)

	assert.False(t, w.Retreat())
	assert.Equal(t, 1, w.Step())
	assert.Equal(t, "Questão 1 de 14", w.View().Progress)
}

func TestPhysicalWizardViewShowsUploadPrompt(t *testing.T) {
	w := newPhysicalWizard(t)
	answerProfile(t, w)
	_, _ = w.Answer("sim")

	view := w.View()
	require.NotNil(t, view.Clearance)
	assert.Empty(t, view.UploadPrompt)
	assert.Equal(t, "sim", view.Selected)

	_, _ = w.AnswerClearance(true)
	assert.Equal(t, "Por favor, faça o upload do seu laudo médico para continuar", w.View().UploadPrompt)
}
