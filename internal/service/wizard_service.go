package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"nr6/internal/domain"
	"nr6/internal/draft"
	"nr6/internal/port"
	"nr6/internal/wizard"
)

// WizardState is the client view of one session's wizard.
type WizardState struct {
	SessionID  string                 `json:"session_id"`
	Step       wizard.Step            `json:"step"`
	StepTitle  string                 `json:"step_title"`
	TotalSteps int                    `json:"total_steps"`
	Record     domain.FilingData      `json:"record"`
	Savings    domain.Savings         `json:"savings"`
	Attachment *wizard.AttachmentInfo `json:"attachment,omitempty"`
	Summary    *wizard.Summary        `json:"summary,omitempty"`
	// ScrollToTop is set after a forward transition.
	ScrollToTop bool `json:"scroll_to_top,omitempty"`
}

// AttachInput carries an uploaded supporting document.
type AttachInput struct {
	Filename    string
	ContentType string
	Data        []byte
}

// WizardService owns the per-session wizards. Every operation on an unknown
// but well-formed session id restores it from its draft slot.
type WizardService interface {
	Start(ctx context.Context) (*WizardState, error)
	Resume(ctx context.Context, sessionID string) (*WizardState, error)
	State(ctx context.Context, sessionID string) (*WizardState, error)
	Next(ctx context.Context, sessionID string, raw []byte) (*WizardState, error)
	Prev(ctx context.Context, sessionID string) (*WizardState, error)
	Attach(ctx context.Context, sessionID string, input AttachInput) (*WizardState, error)
	Detach(ctx context.Context, sessionID string) (*WizardState, error)
	Reset(ctx context.Context, sessionID string) (*WizardState, error)

	// With runs fn while holding the session lock.
	With(ctx context.Context, sessionID string, fn func(w *wizard.Wizard) error) error
	// Drop forgets the in-memory wizard. The draft slot is untouched.
	Drop(sessionID string)
}

type wizardSession struct {
	mu  sync.Mutex
	wiz *wizard.Wizard
}

type wizardService struct {
	drafts   port.DraftStore
	sessions *cache.Cache
	log      *zap.Logger
	now      func() time.Time
}

// NewWizardService creates a WizardService. Idle sessions are evicted after
// sessionTTL; their drafts outlive them in the draft store.
func NewWizardService(drafts port.DraftStore, sessionTTL time.Duration, log *zap.Logger) WizardService {
	if sessionTTL <= 0 {
		sessionTTL = 2 * time.Hour
	}
	return &wizardService{
		drafts:   drafts,
		sessions: cache.New(sessionTTL, 10*time.Minute),
		log:      log,
		now:      time.Now,
	}
}

func (s *wizardService) Start(ctx context.Context) (*WizardState, error) {
	return s.Resume(ctx, uuid.NewString())
}

func (s *wizardService) Resume(ctx context.Context, sessionID string) (*WizardState, error) {
	var state *WizardState
	err := s.With(ctx, sessionID, func(w *wizard.Wizard) error {
		state = stateOf(sessionID, w)
		return nil
	})
	return state, err
}

func (s *wizardService) State(ctx context.Context, sessionID string) (*WizardState, error) {
	if _, ok := s.sessions.Get(sessionID); !ok {
		return nil, domain.ErrSessionNotFound
	}
	return s.Resume(ctx, sessionID)
}

func (s *wizardService) Next(ctx context.Context, sessionID string, raw []byte) (*WizardState, error) {
	var state *WizardState
	err := s.With(ctx, sessionID, func(w *wizard.Wizard) error {
		in, err := wizard.DecodeStep(w.Step(), raw)
		if err != nil {
			if ve, ok := err.(*wizard.ValidationError); ok {
				ve.Step = w.Step()
			}
			return err
		}
		t, err := w.Advance(ctx, in)
		if err != nil {
			return err
		}
		if t.DraftErr != nil {
			s.log.Warn("saving wizard draft failed",
				zap.String("session_id", sessionID), zap.Error(t.DraftErr))
		}
		state = stateOf(sessionID, w)
		state.ScrollToTop = t.ScrollToTop
		return nil
	})
	return state, err
}

func (s *wizardService) Prev(ctx context.Context, sessionID string) (*WizardState, error) {
	var state *WizardState
	err := s.With(ctx, sessionID, func(w *wizard.Wizard) error {
		w.Retreat()
		state = stateOf(sessionID, w)
		return nil
	})
	return state, err
}

func (s *wizardService) Attach(ctx context.Context, sessionID string, input AttachInput) (*WizardState, error) {
	var state *WizardState
	err := s.With(ctx, sessionID, func(w *wizard.Wizard) error {
		a, err := wizard.NewAttachment(input.Filename, input.ContentType, input.Data)
		if err != nil {
			return err
		}
		if err := w.Attach(a); err != nil {
			return err
		}
		state = stateOf(sessionID, w)
		return nil
	})
	return state, err
}

func (s *wizardService) Detach(ctx context.Context, sessionID string) (*WizardState, error) {
	var state *WizardState
	err := s.With(ctx, sessionID, func(w *wizard.Wizard) error {
		w.Detach()
		state = stateOf(sessionID, w)
		return nil
	})
	return state, err
}

func (s *wizardService) Reset(ctx context.Context, sessionID string) (*WizardState, error) {
	var state *WizardState
	err := s.With(ctx, sessionID, func(w *wizard.Wizard) error {
		if err := w.Reset(ctx); err != nil {
			s.log.Warn("clearing wizard draft failed", zap.String("session_id", sessionID), zap.Error(err))
		}
		state = stateOf(sessionID, w)
		return nil
	})
	return state, err
}

func (s *wizardService) With(ctx context.Context, sessionID string, fn func(w *wizard.Wizard) error) error {
	sess, err := s.session(ctx, sessionID)
	if err != nil {
		return err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return fn(sess.wiz)
}

func (s *wizardService) Drop(sessionID string) {
	s.sessions.Delete(sessionID)
}

// session returns the live session, restoring it from its draft when absent.
func (s *wizardService) session(ctx context.Context, sessionID string) (*wizardSession, error) {
	if _, err := uuid.Parse(sessionID); err != nil {
		return nil, fmt.Errorf("%w: malformed session id", domain.ErrSessionNotFound)
	}
	if v, ok := s.sessions.Get(sessionID); ok {
		s.sessions.SetDefault(sessionID, v)
		return v.(*wizardSession), nil
	}

	slot := draft.NewSlot(s.drafts, sessionID, s.log)
	fresh := &wizardSession{wiz: wizard.New(slot.Restore(ctx, s.now()), slot)}
	if err := s.sessions.Add(sessionID, fresh, cache.DefaultExpiration); err != nil {
		// Lost the race to a concurrent restore; use the winner.
		if v, ok := s.sessions.Get(sessionID); ok {
			return v.(*wizardSession), nil
		}
		s.sessions.SetDefault(sessionID, fresh)
	}
	return fresh, nil
}

func stateOf(sessionID string, w *wizard.Wizard) *WizardState {
	sum := w.Summary()
	st := &WizardState{
		SessionID:  sessionID,
		Step:       w.Step(),
		StepTitle:  w.Step().Title(),
		TotalSteps: wizard.TotalSteps,
		Record:     sum.Record,
		Savings:    sum.Savings,
		Attachment: sum.Attachment,
	}
	if w.Step() == wizard.StepPayment {
		st.Summary = &sum
	}
	return st
}
