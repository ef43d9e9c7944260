package intake

import "fmt"

// BranchState is the sub-state of the chest pain step. The step index does
// not move while the clearance question or the upload is pending.
type BranchState int

const (
	AskingChestPain BranchState = iota
	AskingClearance
	AwaitingUpload
	Advanced
)

func (s BranchState) String() string {
	switch s {
	case AskingChestPain:
		return "asking_chest_pain"
	case AskingClearance:
		return "asking_clearance"
	case AwaitingUpload:
		return "awaiting_upload"
	case Advanced:
		return "advanced"
	default:
		return fmt.Sprintf("BranchState(%d)", int(s))
	}
}

func (s BranchState) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// PhysicalWizard walks the physical assessment. It is not safe for
// concurrent use; callers serialise access per session.
type PhysicalWizard struct {
	catalog *PhysicalCatalog
	step    cursor
	record  PhysicalRecord
	branch  BranchState
}

func NewPhysicalWizard(catalog *PhysicalCatalog) *PhysicalWizard {
	return &PhysicalWizard{
		catalog: catalog,
		step:    newCursor(catalog.TotalSteps()),
		branch:  AskingChestPain,
	}
}

func (w *PhysicalWizard) Step() int              { return w.step.index }
func (w *PhysicalWizard) TotalSteps() int        { return w.step.total }
func (w *PhysicalWizard) Record() PhysicalRecord { return w.record }
func (w *PhysicalWizard) Branch() BranchState    { return w.branch }

func (w *PhysicalWizard) onQuestion() bool { return w.step.index <= len(w.catalog.Questions) }

func (w *PhysicalWizard) onChestPain() bool { return w.step.index == w.catalog.ChestPainStep() }

// Answer records the option picked on the current question. Every answer
// moves forward except chest pain "sim", which opens the clearance
// question in place.
func (w *PhysicalWizard) Answer(value string) (Transition, error) {
	if !w.onQuestion() {
		return Transition{}, WrongStep("answer")
	}
	question := w.catalog.Step(w.step.index)
	if !hasOption(question.Options, value) {
		return Transition{}, Validationf("Opção inválida para a pergunta: %s", question.Title)
	}
	record, err := SetPhysicalField(w.record, question.Field, value)
	if err != nil {
		return Transition{}, err
	}
	if question.Field == "chest_pain" && record.ChestPain {
		record.MedicalClearance = nil
		w.record = record
		w.branch = AskingClearance
		return Transition{}, nil
	}
	w.record = record
	return w.forward(), nil
}

// AnswerClearance records whether a medical clearance exists. "Não" moves
// past the chest pain step; "sim" waits for the document.
func (w *PhysicalWizard) AnswerClearance(hasClearance bool) (Transition, error) {
	if !w.onChestPain() || (w.branch != AskingClearance && w.branch != AwaitingUpload) {
		return Transition{}, WrongStep("clearance")
	}
	w.record.MedicalClearance = boolPtr(hasClearance)
	if !hasClearance {
		return w.forward(), nil
	}
	w.branch = AwaitingUpload
	return Transition{}, nil
}

// AttachDocument records an accepted upload and moves on. A rejected
// document leaves both the record and the step untouched.
func (w *PhysicalWizard) AttachDocument(doc Document) (Transition, error) {
	if !w.AcceptsDocument() {
		return Transition{}, WrongStep("document")
	}
	if err := ValidateDocument(doc.Size, doc.ContentType); err != nil {
		return Transition{}, err
	}
	if doc.URL == "" {
		return Transition{}, &Error{Kind: KindValidation, Message: MsgGenericFileFailure}
	}
	record, err := SetPhysicalField(w.record, "medical_document", doc)
	if err != nil {
		return Transition{}, err
	}
	w.record = record
	return w.forward(), nil
}

// SetAgreement ticks or clears the agreement. Ticking moves to the review
// step; clearing stays.
func (w *PhysicalWizard) SetAgreement(checked bool) (Transition, error) {
	if w.step.index != w.catalog.AgreementStep() {
		return Transition{}, WrongStep("agreement")
	}
	w.record.Agreement = checked
	if !checked {
		return Transition{}, nil
	}
	return w.forward(), nil
}

// Advance is the explicit forward control. On the review step it requests
// the submission instead of moving.
func (w *PhysicalWizard) Advance() (Transition, error) {
	if w.onChestPain() && w.documentPending() {
		return Transition{}, ErrDocumentRequired
	}
	return w.forward(), nil
}

// Retreat moves back one step, keeping every answer. Landing on the chest
// pain step resumes its branch from what the record already holds.
func (w *PhysicalWizard) Retreat() bool {
	if !w.step.back() {
		return false
	}
	w.settle()
	return true
}

func (w *PhysicalWizard) documentPending() bool {
	r := w.record
	return r.ChestPain && r.MedicalClearance != nil && *r.MedicalClearance && r.MedicalDocument == nil
}

func (w *PhysicalWizard) forward() Transition {
	t := w.step.forward()
	if t.Advanced {
		w.settle()
	}
	return t
}

func (w *PhysicalWizard) settle() {
	switch {
	case w.step.index > w.catalog.ChestPainStep():
		w.branch = Advanced
	case w.step.index < w.catalog.ChestPainStep():
		w.branch = AskingChestPain
	default:
		w.branch = resumeBranch(w.record)
	}
}

// resumeBranch is the chest pain sub-state implied by the record. An
// attached document keeps the upload open so it can be replaced.
func resumeBranch(r PhysicalRecord) BranchState {
	switch {
	case !r.ChestPain:
		return AskingChestPain
	case r.MedicalClearance != nil && *r.MedicalClearance:
		return AwaitingUpload
	default:
		return AskingClearance
	}
}

// AcceptsDocument reports whether an upload can be attached right now.
func (w *PhysicalWizard) AcceptsDocument() bool {
	return w.onChestPain() && w.branch == AwaitingUpload
}

// PhysicalView is what the client renders for the current step.
type PhysicalView struct {
	Step       int             `json:"step"`
	TotalSteps int             `json:"total_steps"`
	Progress   string          `json:"progress"`
	Branch     BranchState     `json:"branch"`
	Current    StepDefinition  `json:"current"`
	Selected   any             `json:"selected"`
	Clearance  *StepDefinition `json:"clearance,omitempty"`
	// UploadPrompt is shown while the document is still missing.
	UploadPrompt string         `json:"upload_prompt,omitempty"`
	Record       PhysicalRecord `json:"record"`
}

func (w *PhysicalWizard) View() PhysicalView {
	current := w.catalog.Step(w.step.index)
	view := PhysicalView{
		Step:       w.step.index,
		TotalSteps: w.step.total,
		Progress:   fmt.Sprintf("Questão %d de %d", w.step.index, w.step.total),
		Branch:     w.branch,
		Current:    current,
		Record:     w.record,
	}
	if w.step.atLast() {
		view.Progress = "Última etapa"
	}
	if current.Field != "" {
		view.Selected = GetPhysicalField(w.record, current.Field)
	}
	if w.onChestPain() && (w.branch == AskingClearance || w.branch == AwaitingUpload) {
		clearance := w.catalog.Clearance
		view.Clearance = &clearance
		if w.documentPending() {
			view.UploadPrompt = clearance.UploadPrompt
		}
	}
	return view
}
