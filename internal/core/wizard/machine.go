// Package wizard drives the multi-step creation/edit flow of a property draft.
// Step membership and required fields come from hierarchy.Classify, so the
// wizard validates exactly what it renders.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"korx-catalog/internal/core/domain"
	"korx-catalog/internal/core/hierarchy"

	"github.com/google/uuid"
)

// Submitter - сторона, принимающая готовый черновик (клиент каталог-сервера).
type Submitter interface {
	SubmitProperty(ctx context.Context, draft domain.PropertyRecord, media []domain.MediaAttachment) (int64, error)
}

// Machine - одна сессия редактирования. Не потокобезопасна: сессией владеет
// один пользователь, параллельные запросы сериализует вызывающая сторона.
type Machine struct {
	id          uuid.UUID
	record      domain.PropertyRecord
	media       []domain.MediaAttachment
	step        Step
	globalError string
	propertyID  int64
	createdAt   time.Time
	updatedAt   time.Time

	now func() time.Time
}

// New starts a session on BasicInfo for the given record (empty for creation).
func New(record domain.PropertyRecord) *Machine {
	record = record.Clone()
	record.EnsureCollections()
	now := time.Now().UTC()
	return &Machine{
		id:        uuid.New(),
		record:    record,
		media:     []domain.MediaAttachment{},
		step:      StepBasicInfo,
		createdAt: now,
		updatedAt: now,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Restore rebuilds a session from its snapshot.
func Restore(s domain.DraftSnapshot) (*Machine, error) {
	step, err := ParseStep(s.Step)
	if err != nil {
		return nil, err
	}
	if s.Submitted {
		step = StepSubmitted
	}
	m := New(s.Record)
	m.id = s.ID
	m.step = step
	m.media = append(m.media, s.Media...)
	m.globalError = s.GlobalError
	m.propertyID = s.PropertyID
	m.createdAt = s.CreatedAt
	m.updatedAt = s.UpdatedAt
	m.realign()
	return m, nil
}

// Snapshot returns a copy of the session state for persistence.
func (m *Machine) Snapshot() domain.DraftSnapshot {
	return domain.DraftSnapshot{
		ID:          m.id,
		Step:        m.step.String(),
		Record:      m.record.Clone(),
		Media:       append([]domain.MediaAttachment{}, m.media...),
		GlobalError: m.globalError,
		Submitted:   m.step == StepSubmitted,
		PropertyID:  m.propertyID,
		CreatedAt:   m.createdAt,
		UpdatedAt:   m.updatedAt,
	}
}

func (m *Machine) ID() uuid.UUID { return m.id }

func (m *Machine) Current() Step { return m.step }

func (m *Machine) Record() domain.PropertyRecord { return m.record.Clone() }

func (m *Machine) GlobalError() string { return m.globalError }

func (m *Machine) PropertyID() int64 { return m.propertyID }

// Closed reports whether the draft was submitted; every mutation then fails.
func (m *Machine) Closed() bool { return m.step == StepSubmitted }

func (m *Machine) Classification() domain.Classification {
	return hierarchy.Classify(m.record)
}

// Steps returns the member steps for the current record.
func (m *Machine) Steps() []Step {
	return Steps(m.Classification())
}

// SetRecord replaces the draft. Values that no longer apply (bedrooms after
// switching to shop) are kept; they are just not shown or validated.
func (m *Machine) SetRecord(r domain.PropertyRecord) error {
	if m.Closed() {
		return ErrWizardClosed
	}
	r = r.Clone()
	r.EnsureCollections()
	m.record = r
	m.touch()
	m.realign()
	return nil
}

// AddMedia attaches a picked file to the draft.
func (m *Machine) AddMedia(att domain.MediaAttachment) error {
	if m.Closed() {
		return ErrWizardClosed
	}
	if att.Path == "" {
		return fmt.Errorf("%w: media path is empty", domain.ErrInvalidArgument)
	}
	if att.Kind != "video" {
		att.Kind = "photo"
	}
	m.media = append(m.media, att)
	m.touch()
	return nil
}

// Next validates the current step and advances to the next member step.
func (m *Machine) Next() error {
	if m.Closed() {
		return ErrWizardClosed
	}
	if m.step == StepReview {
		return ErrUseSubmit
	}
	c := m.Classification()
	if verr := validateStep(m.step, m.record, c); verr != nil {
		return verr
	}
	steps := Steps(c)
	for _, s := range steps {
		if s > m.step {
			m.step = s
			break
		}
	}
	m.touch()
	return nil
}

// Back retreats one member step without validation.
func (m *Machine) Back() error {
	if m.Closed() {
		return ErrWizardClosed
	}
	steps := m.Steps()
	for i := len(steps) - 1; i >= 0; i-- {
		if steps[i] < m.step {
			m.step = steps[i]
			m.touch()
			return nil
		}
	}
	return ErrNoPreviousStep
}

// JumpTo is the Review "Edit" affordance: a direct jump to any prior step.
func (m *Machine) JumpTo(target Step) error {
	if m.Closed() {
		return ErrWizardClosed
	}
	if m.step != StepReview {
		return ErrNotOnReview
	}
	if target >= StepReview || !isMember(m.Steps(), target) {
		return fmt.Errorf("%w: %s", ErrStepNotAvailable, target)
	}
	m.step = target
	m.touch()
	return nil
}

// Validate checks every member step, in order, and returns the first failure.
func (m *Machine) Validate() *ValidationError {
	c := m.Classification()
	for _, s := range Steps(c) {
		if verr := validateStep(s, m.record, c); verr != nil {
			return verr
		}
	}
	return nil
}

// Submit sends the draft from Review. Any failure keeps the draft and the
// Review step and is exposed as GlobalError.
func (m *Machine) Submit(ctx context.Context, submitter Submitter) error {
	if m.Closed() {
		return ErrWizardClosed
	}
	if m.step != StepReview {
		return ErrNotOnReview
	}

	if verr := m.Validate(); verr != nil {
		m.globalError = verr.Error()
		m.touch()
		return verr
	}

	draft := hierarchy.PrepareForSubmit(m.record)
	media := append([]domain.MediaAttachment{}, m.media...)

	id, err := submitter.SubmitProperty(ctx, draft, media)
	if err != nil {
		var subErr *domain.SubmissionError
		if errors.As(err, &subErr) && subErr.Message != "" {
			m.globalError = subErr.Message
		} else {
			m.globalError = "Submission failed, please try again"
		}
		m.touch()
		return err
	}

	m.propertyID = id
	m.record.PropertyID = id
	m.globalError = ""
	m.step = StepSubmitted
	m.touch()
	return nil
}

// StepView describes what the given step renders for the current record.
func (m *Machine) StepView(step Step) StepView {
	c := m.Classification()
	view := StepView{
		Step:     step,
		Name:     step.String(),
		Visible:  []domain.Field{},
		Required: []domain.Field{},
	}
	if step == StepLocation && c.InheritsLocation {
		view.Inherited = true
		view.Notice = InheritedLocationNotice
		return view
	}
	if !isMember(Steps(c), step) {
		return view
	}
	for _, f := range stepFields[step] {
		if c.VisibleFields.Has(f) {
			view.Visible = append(view.Visible, f)
		}
	}
	view.Required = append(view.Required, requiredFields(step, c)...)
	return view
}

// realign moves off a step that is no longer a member (e.g. Pricing after
// the record became a container) to the next member step.
func (m *Machine) realign() {
	if m.Closed() {
		return
	}
	steps := m.Steps()
	if isMember(steps, m.step) {
		return
	}
	for _, s := range steps {
		if s > m.step {
			m.step = s
			return
		}
	}
	m.step = StepReview
}

func (m *Machine) touch() {
	m.updatedAt = m.now()
}

// State - полное представление сессии для внешнего слоя.
type State struct {
	ID          string                   `json:"id"`
	Step        string                   `json:"step"`
	Steps       []string                 `json:"steps"`
	Current     StepView                 `json:"current"`
	Record      domain.PropertyRecord    `json:"record"`
	Media       []domain.MediaAttachment `json:"media"`
	GlobalError string                   `json:"global_error,omitempty"`
	Submitted   bool                     `json:"submitted"`
	PropertyID  int64                    `json:"property_id,omitempty"`
}

// State describes the session as it is now.
func (m *Machine) State() State {
	steps := m.Steps()
	names := make([]string, 0, len(steps))
	for _, s := range steps {
		names = append(names, s.String())
	}
	st := State{
		ID:          m.id.String(),
		Step:        m.step.String(),
		Steps:       names,
		Record:      m.record.Clone(),
		Media:       append([]domain.MediaAttachment{}, m.media...),
		GlobalError: m.globalError,
		Submitted:   m.Closed(),
		PropertyID:  m.propertyID,
	}
	if !m.Closed() {
		st.Current = m.StepView(m.step)
	} else {
		st.Current = StepView{Step: StepSubmitted, Name: StepSubmitted.String(), Visible: []domain.Field{}, Required: []domain.Field{}}
	}
	return st
}
