package wizard

import (
	"context"
	"fmt"
	"time"

	"nr6/internal/calculator"
	"nr6/internal/domain"
)

// DraftSaver persists the running record after it changes.
type DraftSaver interface {
	Save(ctx context.Context, rec domain.FilingData) error
	Clear(ctx context.Context) error
}

// Transition reports the outcome of a successful forward move.
type Transition struct {
	Step        Step  `json:"step"`
	ScrollToTop bool  `json:"scroll_to_top"`
	DraftErr    error `json:"-"`
}

// Summary is the read-only review rendered on the payment step.
type Summary struct {
	Record     domain.FilingData `json:"record"`
	Savings    domain.Savings    `json:"savings"`
	RentalType string            `json:"rental_type_label"`
	Attachment *AttachmentInfo   `json:"attachment,omitempty"`
}

// AttachmentInfo describes a held attachment without its bytes.
type AttachmentInfo struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// Wizard is the five-step intake state machine. It is not safe for
// concurrent use; callers serialize access per session.
type Wizard struct {
	step       Step
	record     domain.FilingData
	attachment *Attachment
	drafts     DraftSaver
	now        func() time.Time
}

// New starts a wizard on step 1 with rec as the running record, typically
// the defaults merged with a recovered draft.
func New(rec domain.FilingData, drafts DraftSaver) *Wizard {
	return &Wizard{
		step:   StepProperty,
		record: rec,
		drafts: drafts,
		now:    time.Now,
	}
}

func (w *Wizard) Step() Step { return w.step }

func (w *Wizard) Record() domain.FilingData { return w.record }

func (w *Wizard) Savings() domain.Savings { return calculator.Calculate(w.record) }

func (w *Wizard) Attachment() *Attachment { return w.attachment }

// Advance validates in against the current step's schema, merges it into the
// record, moves forward one step, and saves the draft. A draft save failure
// does not undo the transition; it is reported in Transition.DraftErr.
func (w *Wizard) Advance(ctx context.Context, in StepInput) (Transition, error) {
	if w.step >= StepPayment {
		return Transition{}, fmt.Errorf("%w: already on the last step", domain.ErrStepMismatch)
	}
	if in == nil || in.Step() != w.step {
		return Transition{}, fmt.Errorf("%w: on step %d", domain.ErrStepMismatch, w.step)
	}
	if err := in.Validate(w.now()); err != nil {
		if ve, ok := err.(*ValidationError); ok {
			ve.Step = w.step
		}
		return Transition{}, err
	}

	in.apply(&w.record)
	w.step++

	t := Transition{Step: w.step, ScrollToTop: true}
	if w.drafts != nil {
		t.DraftErr = w.drafts.Save(ctx, w.record)
	}
	return t, nil
}

// Retreat moves back one step without validation. It reports whether the
// step changed.
func (w *Wizard) Retreat() bool {
	if w.step <= StepProperty {
		return false
	}
	w.step--
	return true
}

// Attach holds a validated attachment. Only the contact step accepts files.
func (w *Wizard) Attach(a *Attachment) error {
	if w.step != StepContact {
		return fmt.Errorf("%w: attachments are accepted on step %d", domain.ErrStepMismatch, StepContact)
	}
	w.attachment = a
	return nil
}

// Detach drops the held attachment.
func (w *Wizard) Detach() {
	w.attachment = nil
}

// Summary builds the payment-step review from the record and the calculator.
func (w *Wizard) Summary() Summary {
	s := Summary{
		Record:     w.record,
		Savings:    w.Savings(),
		RentalType: w.record.RentalType.Label(),
	}
	if w.attachment != nil {
		s.Attachment = &AttachmentInfo{
			Filename:    w.attachment.Filename,
			ContentType: w.attachment.ContentType,
			Size:        w.attachment.Size(),
		}
	}
	return s
}

// Reset returns to step 1 with default values and clears the draft.
func (w *Wizard) Reset(ctx context.Context) error {
	w.step = StepProperty
	w.record = domain.NewFilingData(w.now())
	w.attachment = nil
	if w.drafts == nil {
		return nil
	}
	return w.drafts.Clear(ctx)
}
