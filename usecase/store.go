package usecase

import (
	"context"
	"sync"

	"main/model"
)

// NotesGateway performs mutations against the backing store. Every call is a
// network round trip; the store never patches its collection from a gateway
// result, the next snapshot is the source of truth.
type NotesGateway interface {
	CreateNote(ctx context.Context, userID string, fields model.NoteFields) (*model.Note, error)
	UpdateNote(ctx context.Context, noteID string, patch model.NotePatch) (*model.Note, error)
	DeleteNote(ctx context.Context, noteID string) error
	GetNote(ctx context.Context, noteID string) (*model.Note, error)
}

// NotesSubscriber delivers full authoritative snapshots of one user's notes
// whenever the backing store changes. The returned function releases the
// live-update channel and must be called exactly once.
type NotesSubscriber interface {
	Subscribe(userID string, onSnapshot func([]*model.Note), onError func(error)) (func(), error)
}

// Result is the outcome of a store mutation. Expected failures never cross
// the boundary as errors; they come back as {Success: false, Error: message}.
type Result struct {
	Success bool        `json:"success"`
	Note    *model.Note `json:"note,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func failure(err error) Result {
	return Result{Error: err.Error()}
}

// StoreState is the read-only view handed to UI consumers.
type StoreState struct {
	Notes         []*model.Note      `json:"notes"`
	FilteredNotes []*model.Note      `json:"filtered_notes"`
	Loading       bool               `json:"loading"`
	Error         string             `json:"error,omitempty"`
	Controls      model.ViewControls `json:"controls"`
}

// NoteStore owns the in-memory collection of one user's notes plus the view
// controls, and reconciles both against the subscriber and the gateway.
type NoteStore struct {
	gateway    NotesGateway
	subscriber NotesSubscriber

	mu          sync.RWMutex
	userID      string
	unsubscribe func()
	epoch       uint64
	notes       []*model.Note
	controls    model.ViewControls
	loading     bool
	lastError   string
}

func NewNoteStore(gateway NotesGateway, subscriber NotesSubscriber) *NoteStore {
	return &NoteStore{
		gateway:    gateway,
		subscriber: subscriber,
		controls:   model.DefaultViewControls(),
		loading:    true,
	}
}

// Attach binds the store to a user and opens the snapshot subscription. An
// empty user id means no session: the store resets instead. Re-attaching the
// same user is a no-op; attaching a different user replaces the subscription.
func (s *NoteStore) Attach(userID string) error {
	if userID == "" {
		s.Detach()
		return nil
	}

	s.mu.Lock()
	if s.userID == userID && s.unsubscribe != nil {
		s.mu.Unlock()
		return nil
	}
	previous := s.unsubscribe
	s.unsubscribe = nil
	s.userID = userID
	s.epoch++
	epoch := s.epoch
	s.notes = nil
	s.controls = model.DefaultViewControls()
	s.loading = true
	s.lastError = ""
	s.mu.Unlock()

	if previous != nil {
		previous()
	}

	// The callbacks carry the epoch they were subscribed under, so a
	// snapshot still in flight from a replaced subscription cannot land.
	unsubscribe, err := s.subscriber.Subscribe(userID,
		func(notes []*model.Note) { s.applySnapshot(epoch, notes) },
		func(err error) { s.applyStreamError(epoch, err) })
	if err != nil {
		s.mu.Lock()
		if epoch == s.epoch {
			s.lastError = err.Error()
			s.loading = false
		}
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	if epoch != s.epoch {
		// Detached or re-attached while subscribing; release immediately.
		s.mu.Unlock()
		unsubscribe()
		return nil
	}
	s.unsubscribe = unsubscribe
	s.mu.Unlock()
	return nil
}

// Detach releases the subscription and restores the initial state. Safe to
// call when nothing is attached.
func (s *NoteStore) Detach() {
	s.mu.Lock()
	unsubscribe := s.unsubscribe
	s.unsubscribe = nil
	s.userID = ""
	s.epoch++
	s.notes = nil
	s.controls = model.DefaultViewControls()
	s.loading = true
	s.lastError = ""
	s.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

// applySnapshot replaces the whole collection with an authoritative snapshot.
// No merge against the previous collection happens here. Snapshots from a
// stale epoch are dropped.
func (s *NoteStore) applySnapshot(epoch uint64, notes []*model.Note) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.epoch {
		return
	}
	s.notes = notes
	s.loading = false
	s.lastError = ""
}

// applyStreamError records the failure for display. The existing collection
// is kept: stale data beats a blank list. Errors from a stale epoch are
// dropped.
func (s *NoteStore) applyStreamError(epoch uint64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.epoch {
		return
	}
	s.lastError = err.Error()
	s.loading = false
}

// State returns the current raw collection together with the derived
// projection and view controls.
func (s *NoteStore) State() StoreState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return StoreState{
		Notes:         s.notes,
		FilteredNotes: ProjectNotes(s.notes, s.controls),
		Loading:       s.loading,
		Error:         s.lastError,
		Controls:      s.controls,
	}
}

func (s *NoteStore) currentUser() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

func (s *NoteStore) recordError(err error) {
	s.mu.Lock()
	s.lastError = err.Error()
	s.mu.Unlock()
}

// Create asks the gateway for a new note. The local collection is left alone;
// the created note shows up with the next snapshot.
func (s *NoteStore) Create(ctx context.Context, fields model.NoteFields) Result {
	userID := s.currentUser()
	if userID == "" {
		return failure(model.ErrNotAuthenticated)
	}

	note, err := s.gateway.CreateNote(ctx, userID, fields)
	if err != nil {
		s.recordError(err)
		return failure(err)
	}
	return Result{Success: true, Note: note}
}

// Update applies a partial patch through the gateway, non-optimistically.
func (s *NoteStore) Update(ctx context.Context, noteID string, patch model.NotePatch) Result {
	if s.currentUser() == "" {
		return failure(model.ErrNotAuthenticated)
	}

	note, err := s.gateway.UpdateNote(ctx, noteID, patch)
	if err != nil {
		s.recordError(err)
		return failure(err)
	}
	return Result{Success: true, Note: note}
}

// Delete removes the note through the gateway. The collection shrinks when
// the delete snapshot arrives.
func (s *NoteStore) Delete(ctx context.Context, noteID string) Result {
	if s.currentUser() == "" {
		return failure(model.ErrNotAuthenticated)
	}

	if err := s.gateway.DeleteNote(ctx, noteID); err != nil {
		s.recordError(err)
		return failure(err)
	}
	return Result{Success: true}
}

// TogglePin flips the pin flag of the given note.
func (s *NoteStore) TogglePin(ctx context.Context, note *model.Note) Result {
	pinned := !note.IsPinned
	return s.Update(ctx, note.ID, model.NotePatch{IsPinned: &pinned})
}

// GetNote fetches a single note directly from the gateway. A missing note
// surfaces as model.ErrNoteNotFound so callers can render a not-found state
// instead of a transient error.
func (s *NoteStore) GetNote(ctx context.Context, noteID string) (*model.Note, error) {
	userID := s.currentUser()
	if userID == "" {
		return nil, model.ErrNotAuthenticated
	}
	note, err := s.gateway.GetNote(ctx, noteID)
	if err != nil {
		return nil, err
	}
	// Another user's note is indistinguishable from a missing one.
	if note.UserID != userID {
		return nil, model.ErrNoteNotFound
	}
	return note, nil
}

// View-control setters. Pure state replacement, no external calls; the next
// State call reflects them.

func (s *NoteStore) SetSearchTerm(term string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.controls.SearchTerm = term
}

func (s *NoteStore) SetSorting(sortBy, sortOrder string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.controls.SortBy = sortBy
	s.controls.SortOrder = sortOrder
}

func (s *NoteStore) SetColorFilter(color string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.controls.SelectedColor = color
}

func (s *NoteStore) SetTagFilter(tags []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.controls.SelectedTags = tags
}

func (s *NoteStore) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = ""
}

// Reset clears the collection and restores the default view controls. The
// subscription, when present, stays open; Detach tears both down.
func (s *NoteStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = nil
	s.controls = model.DefaultViewControls()
	s.loading = true
	s.lastError = ""
}
