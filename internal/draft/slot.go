// Package draft keeps the in-progress wizard record between visits. Each
// session owns one slot under a fixed key prefix.
package draft

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"nr6/internal/domain"
	"nr6/internal/port"
)

// KeyPrefix is the constant slot name; the session id is appended to it.
const KeyPrefix = "nr6_wizard_draft"

// Key returns the slot key for a session.
func Key(sessionID string) string {
	return KeyPrefix + ":" + sessionID
}

// Slot is one session's draft. It satisfies wizard.DraftSaver.
type Slot struct {
	store port.DraftStore
	key   string
	log   *zap.Logger
}

// NewSlot binds a session to a draft store.
func NewSlot(store port.DraftStore, sessionID string, log *zap.Logger) *Slot {
	if log == nil {
		log = zap.NewNop()
	}
	return &Slot{store: store, key: Key(sessionID), log: log}
}

// Save serializes the whole record.
func (s *Slot) Save(ctx context.Context, rec domain.FilingData) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.store.Save(ctx, s.key, data)
}

// Clear deletes the slot.
func (s *Slot) Clear(ctx context.Context) error {
	return s.store.Delete(ctx, s.key)
}

// Restore returns the defaults with any recovered fields merged over them.
// A missing slot, a backend error, or an unparseable payload all yield the
// plain defaults; none of them is reported to the caller.
func (s *Slot) Restore(ctx context.Context, now time.Time) domain.FilingData {
	defaults := domain.NewFilingData(now)

	data, err := s.store.Load(ctx, s.key)
	if err != nil {
		if !errors.Is(err, domain.ErrDraftNotFound) {
			s.log.Debug("draft load failed, using defaults", zap.String("key", s.key), zap.Error(err))
		}
		return defaults
	}

	rec := defaults
	if err := json.Unmarshal(data, &rec); err != nil {
		s.log.Debug("draft unparseable, using defaults", zap.String("key", s.key), zap.Error(err))
		return defaults
	}
	return rec
}
