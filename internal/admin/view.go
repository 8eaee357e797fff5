// Package admin implements the back-office read model: two live
// subscriptions over filings and contact submissions, with optimistic edits
// on the open detail record.
package admin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"nr6/internal/csvexport"
	"nr6/internal/domain"
	"nr6/internal/port"
)

// ErrViewClosed is returned by View methods after Close.
var ErrViewClosed = errors.New("admin view closed")

// Backend loads and mutates the collections behind a View. Lists are ordered
// by created_at descending.
type Backend interface {
	ListFilings(ctx context.Context) ([]domain.Filing, error)
	ListContacts(ctx context.Context) ([]domain.ContactSubmission, error)
	UpdateFilingStatus(ctx context.Context, id uuid.UUID, status domain.FilingStatus) error
	UpdateFilingNotes(ctx context.Context, id uuid.UUID, notes string) error
	UpdateContactStatus(ctx context.Context, id uuid.UUID, status domain.ContactStatus) error
	UpdateContactNotes(ctx context.Context, id uuid.UUID, notes string) error
}

// Change is one refreshed collection delivered by Next.
type Change struct {
	Topic    domain.Topic
	Filings  []domain.Filing
	Contacts []domain.ContactSubmission
}

// View holds the loaded collections for one admin session.
type View struct {
	backend Backend
	log     *zap.Logger

	filingEvents  <-chan domain.Event
	contactEvents <-chan domain.Event

	mu        sync.Mutex
	disposers []port.Disposer
	closed    bool
	pending   map[domain.Topic]bool
	filings   []domain.Filing
	contacts  []domain.ContactSubmission
	filing    *domain.Filing
	contact   *domain.ContactSubmission
}

// Open subscribes to both topics and loads the initial snapshots. The
// subscriptions are taken first so no change between load and subscribe is
// missed. If any step fails, everything acquired so far is released.
func Open(ctx context.Context, feed port.ChangeFeed, backend Backend, log *zap.Logger) (*View, error) {
	if log == nil {
		log = zap.NewNop()
	}
	v := &View{backend: backend, log: log, pending: make(map[domain.Topic]bool)}

	ok := false
	defer func() {
		if !ok {
			v.release()
		}
	}()

	filingEvents, dispose, err := feed.Subscribe(domain.TopicFilings)
	if err != nil {
		return nil, fmt.Errorf("subscribing to filings: %w", err)
	}
	v.disposers = append(v.disposers, dispose)
	v.filingEvents = filingEvents

	contactEvents, dispose, err := feed.Subscribe(domain.TopicContacts)
	if err != nil {
		return nil, fmt.Errorf("subscribing to contacts: %w", err)
	}
	v.disposers = append(v.disposers, dispose)
	v.contactEvents = contactEvents

	if v.filings, err = backend.ListFilings(ctx); err != nil {
		return nil, fmt.Errorf("loading filings: %w", err)
	}
	if v.contacts, err = backend.ListContacts(ctx); err != nil {
		return nil, fmt.Errorf("loading contacts: %w", err)
	}

	ok = true
	return v, nil
}

// Next waits for a change and reloads the changed collection, both on ctx.
// A topic whose reload fails stays pending and is reloaded by the next call.
// It returns ctx.Err() when ctx ends and ErrViewClosed once the view is
// closed.
func (v *View) Next(ctx context.Context) (Change, error) {
	topic, err := v.Wait(ctx)
	if err != nil {
		return Change{}, err
	}
	return v.Reload(ctx, topic)
}

// Wait returns the next topic that needs a reload. Topics left pending by a
// failed Reload are returned first, without blocking.
func (v *View) Wait(ctx context.Context) (domain.Topic, error) {
	v.mu.Lock()
	closed := v.closed
	var topic domain.Topic
	switch {
	case v.pending[domain.TopicFilings]:
		topic = domain.TopicFilings
	case v.pending[domain.TopicContacts]:
		topic = domain.TopicContacts
	}
	v.mu.Unlock()
	if closed {
		return "", ErrViewClosed
	}
	if topic != "" {
		return topic, nil
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case _, ok := <-v.filingEvents:
		if !ok {
			return "", ErrViewClosed
		}
		topic = domain.TopicFilings
	case _, ok := <-v.contactEvents:
		if !ok {
			return "", ErrViewClosed
		}
		topic = domain.TopicContacts
	}
	v.mu.Lock()
	v.pending[topic] = true
	v.mu.Unlock()
	return topic, nil
}

// Reload refreshes one collection and clears its pending mark. On error the
// topic stays pending.
func (v *View) Reload(ctx context.Context, topic domain.Topic) (Change, error) {
	switch topic {
	case domain.TopicFilings:
		list, err := v.backend.ListFilings(ctx)
		if err != nil {
			return Change{}, fmt.Errorf("reloading filings: %w", err)
		}
		v.mu.Lock()
		defer v.mu.Unlock()
		if v.closed {
			return Change{}, ErrViewClosed
		}
		v.filings = list
		delete(v.pending, topic)
		if v.filing != nil {
			if f := findFiling(list, v.filing.ID); f != nil {
				cp := *f
				v.filing = &cp
			}
		}
		return Change{Topic: topic, Filings: cloneFilings(list)}, nil
	default:
		list, err := v.backend.ListContacts(ctx)
		if err != nil {
			return Change{}, fmt.Errorf("reloading contacts: %w", err)
		}
		v.mu.Lock()
		defer v.mu.Unlock()
		if v.closed {
			return Change{}, ErrViewClosed
		}
		v.contacts = list
		delete(v.pending, topic)
		if v.contact != nil {
			if c := findContact(list, v.contact.ID); c != nil {
				cp := *c
				v.contact = &cp
			}
		}
		return Change{Topic: topic, Contacts: cloneContacts(list)}, nil
	}
}

// Filings returns the loaded filings, newest first.
func (v *View) Filings() []domain.Filing {
	v.mu.Lock()
	defer v.mu.Unlock()
	return cloneFilings(v.filings)
}

// Contacts returns the loaded contact submissions, newest first.
func (v *View) Contacts() []domain.ContactSubmission {
	v.mu.Lock()
	defer v.mu.Unlock()
	return cloneContacts(v.contacts)
}

// SelectFiling opens a loaded filing in the detail view.
func (v *View) SelectFiling(id uuid.UUID) (domain.Filing, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return domain.Filing{}, ErrViewClosed
	}
	f := findFiling(v.filings, id)
	if f == nil {
		return domain.Filing{}, domain.ErrFilingNotFound
	}
	cp := *f
	v.filing = &cp
	return cp, nil
}

// SelectContact opens a loaded contact submission in the detail view.
func (v *View) SelectContact(id uuid.UUID) (domain.ContactSubmission, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return domain.ContactSubmission{}, ErrViewClosed
	}
	c := findContact(v.contacts, id)
	if c == nil {
		return domain.ContactSubmission{}, domain.ErrContactNotFound
	}
	cp := *c
	v.contact = &cp
	return cp, nil
}

// SelectedFiling returns the open filing, if any.
func (v *View) SelectedFiling() (domain.Filing, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.filing == nil {
		return domain.Filing{}, false
	}
	return *v.filing, true
}

// SelectedContact returns the open contact submission, if any.
func (v *View) SelectedContact() (domain.ContactSubmission, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.contact == nil {
		return domain.ContactSubmission{}, false
	}
	return *v.contact, true
}

// SetFilingStatus updates the open filing locally, then remotely. The next
// subscription event corrects the local copy if the remote write differs.
func (v *View) SetFilingStatus(ctx context.Context, status domain.FilingStatus) error {
	if !status.IsValid() {
		return domain.ErrInvalidStatus
	}
	id, err := v.editFiling(func(f *domain.Filing) { f.Status = status })
	if err != nil {
		return err
	}
	return v.remote("filing status", id, v.backend.UpdateFilingStatus(ctx, id, status))
}

// SetFilingNote updates the open filing's note locally, then remotely.
func (v *View) SetFilingNote(ctx context.Context, notes string) error {
	id, err := v.editFiling(func(f *domain.Filing) { f.Notes = notes })
	if err != nil {
		return err
	}
	return v.remote("filing note", id, v.backend.UpdateFilingNotes(ctx, id, notes))
}

// SetContactStatus updates the open contact locally, deriving replied, then
// remotely.
func (v *View) SetContactStatus(ctx context.Context, status domain.ContactStatus) error {
	if !status.IsValid() {
		return domain.ErrInvalidStatus
	}
	id, err := v.editContact(func(c *domain.ContactSubmission) {
		c.Status = status
		c.Replied = status != domain.ContactStatusNew
	})
	if err != nil {
		return err
	}
	return v.remote("contact status", id, v.backend.UpdateContactStatus(ctx, id, status))
}

// SetContactNote updates the open contact's note locally, then remotely.
func (v *View) SetContactNote(ctx context.Context, notes string) error {
	id, err := v.editContact(func(c *domain.ContactSubmission) { c.Notes = notes })
	if err != nil {
		return err
	}
	return v.remote("contact note", id, v.backend.UpdateContactNotes(ctx, id, notes))
}

// remote logs a failed write. The local copy stays optimistic until the next
// subscription event.
func (v *View) remote(what string, id uuid.UUID, err error) error {
	if err != nil {
		v.log.Warn("admin update failed", zap.String("field", what), zap.String("id", id.String()), zap.Error(err))
	}
	return err
}

func (v *View) editFiling(fn func(*domain.Filing)) (uuid.UUID, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return uuid.Nil, ErrViewClosed
	}
	if v.filing == nil {
		return uuid.Nil, domain.ErrFilingNotFound
	}
	fn(v.filing)
	if f := findFiling(v.filings, v.filing.ID); f != nil {
		fn(f)
	}
	return v.filing.ID, nil
}

func (v *View) editContact(fn func(*domain.ContactSubmission)) (uuid.UUID, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return uuid.Nil, ErrViewClosed
	}
	if v.contact == nil {
		return uuid.Nil, domain.ErrContactNotFound
	}
	fn(v.contact)
	if c := findContact(v.contacts, v.contact.ID); c != nil {
		fn(c)
	}
	return v.contact.ID, nil
}

// ExportCSV writes the currently loaded filings.
func (v *View) ExportCSV(w io.Writer) error {
	return csvexport.Export(w, v.Filings())
}

// Close releases both subscriptions. It is safe to call more than once.
func (v *View) Close() {
	v.release()
}

func (v *View) release() {
	v.mu.Lock()
	disposers := v.disposers
	v.disposers = nil
	v.closed = true
	v.mu.Unlock()
	for _, d := range disposers {
		d()
	}
}

func findFiling(list []domain.Filing, id uuid.UUID) *domain.Filing {
	for i := range list {
		if list[i].ID == id {
			return &list[i]
		}
	}
	return nil
}

func findContact(list []domain.ContactSubmission, id uuid.UUID) *domain.ContactSubmission {
	for i := range list {
		if list[i].ID == id {
			return &list[i]
		}
	}
	return nil
}

func cloneFilings(in []domain.Filing) []domain.Filing {
	out := make([]domain.Filing, len(in))
	copy(out, in)
	return out
}

func cloneContacts(in []domain.ContactSubmission) []domain.ContactSubmission {
	out := make([]domain.ContactSubmission, len(in))
	copy(out, in)
	return out
}
