package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"main/model"
)

type fakeGateway struct {
	mu          sync.Mutex
	createCalls int
	updateCalls int
	deleteCalls int
	getCalls    int

	createErr error
	updateErr error
	deleteErr error
	getErr    error

	notes map[string]*model.Note
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{notes: make(map[string]*model.Note)}
}

func (f *fakeGateway) CreateNote(ctx context.Context, userID string, fields model.NoteFields) (*model.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	note := &model.Note{
		ID:      "generated-id",
		UserID:  userID,
		Title:   fields.Title,
		Content: fields.Content,
		Color:   model.NormalizeColor(fields.Color),
		Tags:    model.NormalizeTags(fields.Tags),
	}
	f.notes[note.ID] = note
	return note, nil
}

func (f *fakeGateway) UpdateNote(ctx context.Context, noteID string, patch model.NotePatch) (*model.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	note, ok := f.notes[noteID]
	if !ok {
		return nil, model.ErrNoteNotFound
	}
	if patch.Title != nil {
		note.Title = *patch.Title
	}
	if patch.IsPinned != nil {
		note.IsPinned = *patch.IsPinned
	}
	return note, nil
}

func (f *fakeGateway) DeleteNote(ctx context.Context, noteID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.notes[noteID]; !ok {
		return model.ErrNoteNotFound
	}
	delete(f.notes, noteID)
	return nil
}

func (f *fakeGateway) GetNote(ctx context.Context, noteID string) (*model.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	if f.getErr != nil {
		return nil, f.getErr
	}
	note, ok := f.notes[noteID]
	if !ok {
		return nil, model.ErrNoteNotFound
	}
	return note, nil
}

type fakeSubscriber struct {
	mu               sync.Mutex
	subscribeCalls   int
	unsubscribeCalls int
	subscribeErr     error

	onSnapshot func([]*model.Note)
	onError    func(error)
}

func (f *fakeSubscriber) Subscribe(userID string, onSnapshot func([]*model.Note), onError func(error)) (func(), error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subscribeCalls++
	if f.subscribeErr != nil {
		return nil, f.subscribeErr
	}
	f.onSnapshot = onSnapshot
	f.onError = onError
	return func() {
		f.mu.Lock()
		f.unsubscribeCalls++
		f.mu.Unlock()
	}, nil
}

func (f *fakeSubscriber) push(notes []*model.Note) {
	f.mu.Lock()
	cb := f.onSnapshot
	f.mu.Unlock()
	cb(notes)
}

func (f *fakeSubscriber) fail(err error) {
	f.mu.Lock()
	cb := f.onError
	f.mu.Unlock()
	cb(err)
}

func attachedStore(t *testing.T) (*NoteStore, *fakeGateway, *fakeSubscriber) {
	t.Helper()
	gateway := newFakeGateway()
	subscriber := &fakeSubscriber{}
	store := NewNoteStore(gateway, subscriber)
	if err := store.Attach("user-1"); err != nil {
		t.Fatalf("attach failed: %v", err)
	}
	return store, gateway, subscriber
}

func TestStoreCreateWithoutSession(t *testing.T) {
	gateway := newFakeGateway()
	store := NewNoteStore(gateway, &fakeSubscriber{})

	result := store.Create(context.Background(), model.NoteFields{Title: "hello"})

	if result.Success {
		t.Fatal("create without a session must fail")
	}
	if result.Error != model.ErrNotAuthenticated.Error() {
		t.Errorf("expected authentication failure, got %q", result.Error)
	}
	if gateway.createCalls != 0 {
		t.Errorf("gateway invoked %d times without a session", gateway.createCalls)
	}
}

func TestStoreMutationsWithoutSession(t *testing.T) {
	gateway := newFakeGateway()
	store := NewNoteStore(gateway, &fakeSubscriber{})
	ctx := context.Background()

	if r := store.Update(ctx, "n1", model.NotePatch{}); r.Success {
		t.Error("update without a session must fail")
	}
	if r := store.Delete(ctx, "n1"); r.Success {
		t.Error("delete without a session must fail")
	}
	if _, err := store.GetNote(ctx, "n1"); !errors.Is(err, model.ErrNotAuthenticated) {
		t.Errorf("expected ErrNotAuthenticated, got %v", err)
	}
	if gateway.updateCalls+gateway.deleteCalls+gateway.getCalls != 0 {
		t.Error("gateway must not be invoked without a session")
	}
}

func TestStoreSnapshotReplacesCollection(t *testing.T) {
	store, _, subscriber := attachedStore(t)

	if !store.State().Loading {
		t.Error("store should report loading before the first snapshot")
	}

	subscriber.push([]*model.Note{
		makeNote("a", "First", ""),
		makeNote("b", "Second", ""),
	})

	state := store.State()
	if state.Loading {
		t.Error("loading must clear after a snapshot")
	}
	if len(state.Notes) != 2 {
		t.Fatalf("expected 2 notes, got %d", len(state.Notes))
	}

	// The next snapshot is a total replacement, not a merge.
	subscriber.push([]*model.Note{makeNote("c", "Only", "")})

	state = store.State()
	if len(state.Notes) != 1 || state.Notes[0].ID != "c" {
		t.Errorf("snapshot must replace the collection, got %v", ids(state.Notes))
	}
}

func TestStoreSubscriptionErrorKeepsStaleNotes(t *testing.T) {
	store, _, subscriber := attachedStore(t)

	subscriber.push([]*model.Note{makeNote("a", "Keep me", "")})
	subscriber.fail(errors.New("stream interrupted"))

	state := store.State()
	if state.Error != "stream interrupted" {
		t.Errorf("expected recorded error, got %q", state.Error)
	}
	if len(state.Notes) != 1 {
		t.Error("subscription errors must not drop the existing collection")
	}

	// A later snapshot recovers and clears the error.
	subscriber.push([]*model.Note{makeNote("a", "Keep me", ""), makeNote("b", "New", "")})
	state = store.State()
	if state.Error != "" {
		t.Errorf("snapshot should clear the error, got %q", state.Error)
	}
	if len(state.Notes) != 2 {
		t.Error("recovery snapshot not applied")
	}
}

func TestStoreRejectedUpdateLeavesCollectionUnchanged(t *testing.T) {
	store, gateway, subscriber := attachedStore(t)

	subscriber.push([]*model.Note{makeNote("n1", "Original", "")})
	gateway.updateErr = errors.New("permission denied")

	title := "Changed"
	result := store.Update(context.Background(), "n1", model.NotePatch{Title: &title})

	if result.Success {
		t.Fatal("rejected update must not report success")
	}
	if result.Error != "permission denied" {
		t.Errorf("failure must carry the gateway message, got %q", result.Error)
	}

	state := store.State()
	if state.Notes[0].Title != "Original" {
		t.Error("collection changed despite the rejected mutation")
	}
	if state.Error != "permission denied" {
		t.Errorf("store should record the failure, got %q", state.Error)
	}
}

func TestStoreCreateDoesNotPatchCollection(t *testing.T) {
	store, gateway, subscriber := attachedStore(t)
	subscriber.push(nil)

	result := store.Create(context.Background(), model.NoteFields{Title: "hello"})
	if !result.Success {
		t.Fatalf("create failed: %s", result.Error)
	}
	if result.Note == nil || result.Note.UserID != "user-1" {
		t.Error("created note must belong to the attached user")
	}
	if gateway.createCalls != 1 {
		t.Errorf("expected one gateway call, got %d", gateway.createCalls)
	}

	// Non-optimistic: the note appears only with the next snapshot.
	if len(store.State().Notes) != 0 {
		t.Error("collection must not change before the snapshot arrives")
	}
}

func TestStoreTogglePinFlipsFlag(t *testing.T) {
	store, gateway, subscriber := attachedStore(t)

	note := makeNote("n1", "Pin me", "")
	gateway.notes["n1"] = note
	subscriber.push([]*model.Note{note})

	result := store.TogglePin(context.Background(), note)
	if !result.Success {
		t.Fatalf("toggle failed: %s", result.Error)
	}
	if !result.Note.IsPinned {
		t.Error("unpinned note should come back pinned")
	}

	result = store.TogglePin(context.Background(), result.Note)
	if !result.Success || result.Note.IsPinned {
		t.Error("pinned note should come back unpinned")
	}
}

func TestStoreGetNoteOwnership(t *testing.T) {
	store, gateway, _ := attachedStore(t)

	foreign := makeNote("other", "Not yours", "")
	foreign.UserID = "user-2"
	gateway.notes["other"] = foreign

	if _, err := store.GetNote(context.Background(), "other"); !errors.Is(err, model.ErrNoteNotFound) {
		t.Errorf("foreign note must look missing, got %v", err)
	}
	if _, err := store.GetNote(context.Background(), "absent"); !errors.Is(err, model.ErrNoteNotFound) {
		t.Errorf("missing note must return ErrNoteNotFound, got %v", err)
	}
}

func TestStoreViewControlSettersAffectState(t *testing.T) {
	store, _, subscriber := attachedStore(t)

	subscriber.push([]*model.Note{
		makeNote("a", "Apple", "", withColor(model.ColorBlue), withTags("fruit")),
		makeNote("b", "Banana", "", withTags("fruit")),
		makeNote("c", "Carrot", "", withTags("veg")),
	})

	store.SetSearchTerm("a")
	store.SetTagFilter([]string{"fruit"})
	store.SetColorFilter(model.ColorBlue)
	store.SetSorting(model.SortByTitle, model.SortOrderAsc)

	state := store.State()
	if len(state.Notes) != 3 {
		t.Error("raw collection must stay unfiltered")
	}
	assertOrder(t, state.FilteredNotes, "a")
	if state.Controls.SearchTerm != "a" || state.Controls.SortBy != model.SortByTitle {
		t.Error("controls not reflected in state")
	}
}

func TestStoreDetachUnsubscribesOnceAndResets(t *testing.T) {
	store, _, subscriber := attachedStore(t)
	subscriber.push([]*model.Note{makeNote("a", "A", "")})
	store.SetSearchTerm("a")

	store.Detach()
	store.Detach() // second call must be a no-op

	if subscriber.unsubscribeCalls != 1 {
		t.Errorf("expected exactly one unsubscribe, got %d", subscriber.unsubscribeCalls)
	}

	state := store.State()
	if len(state.Notes) != 0 || !state.Loading || state.Controls.SearchTerm != "" {
		t.Error("detach must restore the initial state")
	}
}

func TestStoreAttachSameUserIsNoop(t *testing.T) {
	store, _, subscriber := attachedStore(t)

	if err := store.Attach("user-1"); err != nil {
		t.Fatalf("re-attach failed: %v", err)
	}
	if subscriber.subscribeCalls != 1 {
		t.Errorf("re-attaching the same user must not resubscribe, got %d calls", subscriber.subscribeCalls)
	}
}

func TestStoreAttachDifferentUserReplacesSubscription(t *testing.T) {
	store, _, subscriber := attachedStore(t)
	subscriber.push([]*model.Note{makeNote("a", "A", "")})

	if err := store.Attach("user-2"); err != nil {
		t.Fatalf("attach failed: %v", err)
	}

	if subscriber.unsubscribeCalls != 1 {
		t.Errorf("old subscription must be released, got %d unsubscribes", subscriber.unsubscribeCalls)
	}
	if subscriber.subscribeCalls != 2 {
		t.Errorf("expected a fresh subscription, got %d subscribes", subscriber.subscribeCalls)
	}
	if len(store.State().Notes) != 0 {
		t.Error("previous user's notes must not leak into the new session")
	}
}

func TestStoreIgnoresSnapshotFromReplacedSubscription(t *testing.T) {
	store, _, subscriber := attachedStore(t)

	// Hold on to the first subscription's callbacks, then switch users.
	subscriber.mu.Lock()
	staleSnapshot := subscriber.onSnapshot
	staleError := subscriber.onError
	subscriber.mu.Unlock()

	if err := store.Attach("user-2"); err != nil {
		t.Fatalf("attach failed: %v", err)
	}
	subscriber.push([]*model.Note{makeNote("current", "Current", "")})

	// A snapshot still in flight from the old subscription must not land.
	staleSnapshot([]*model.Note{makeNote("ghost", "Ghost", "")})

	state := store.State()
	if len(state.Notes) != 1 || state.Notes[0].ID != "current" {
		t.Errorf("stale snapshot repopulated the store: %v", ids(state.Notes))
	}

	staleError(errors.New("old stream died"))
	if store.State().Error != "" {
		t.Error("stale stream error must be dropped")
	}
}

func TestStoreIgnoresCallbacksAfterDetach(t *testing.T) {
	store, _, subscriber := attachedStore(t)

	subscriber.mu.Lock()
	staleSnapshot := subscriber.onSnapshot
	staleError := subscriber.onError
	subscriber.mu.Unlock()

	store.Detach()

	staleSnapshot([]*model.Note{makeNote("ghost", "Ghost", "")})
	staleError(errors.New("late failure"))

	state := store.State()
	if len(state.Notes) != 0 || state.Error != "" || !state.Loading {
		t.Errorf("detached store accepted stale callbacks: %+v", state)
	}
}

func TestStoreAttachEmptyUserResets(t *testing.T) {
	store, _, subscriber := attachedStore(t)

	if err := store.Attach(""); err != nil {
		t.Fatalf("attach with empty user must not error: %v", err)
	}
	if subscriber.unsubscribeCalls != 1 {
		t.Error("empty user id must tear the subscription down")
	}
}

func TestStoreAttachSubscribeFailure(t *testing.T) {
	subscriber := &fakeSubscriber{subscribeErr: errors.New("watch unavailable")}
	store := NewNoteStore(newFakeGateway(), subscriber)

	if err := store.Attach("user-1"); err == nil {
		t.Fatal("expected subscribe failure to propagate")
	}

	state := store.State()
	if state.Error != "watch unavailable" || state.Loading {
		t.Errorf("failure must be recorded and loading cleared, got %+v", state)
	}
}

func TestStoreClearErrorAndReset(t *testing.T) {
	store, _, subscriber := attachedStore(t)
	subscriber.push([]*model.Note{makeNote("a", "A", "")})
	subscriber.fail(errors.New("boom"))

	store.ClearError()
	if store.State().Error != "" {
		t.Error("ClearError must wipe the recorded error")
	}

	store.SetSearchTerm("x")
	store.Reset()

	state := store.State()
	if len(state.Notes) != 0 || !state.Loading || state.Controls.SearchTerm != "" {
		t.Error("reset must restore the initial state")
	}
	if subscriber.unsubscribeCalls != 0 {
		t.Error("reset must keep the subscription open")
	}
}

func TestStoreManagerLifecycle(t *testing.T) {
	gateway := newFakeGateway()
	subscriber := &fakeSubscriber{}
	manager := NewStoreManager(gateway, subscriber)

	if _, err := manager.StoreFor(""); !errors.Is(err, model.ErrNotAuthenticated) {
		t.Errorf("empty user id must return ErrNotAuthenticated, got %v", err)
	}

	store, err := manager.StoreFor("user-1")
	if err != nil {
		t.Fatalf("StoreFor failed: %v", err)
	}

	again, err := manager.StoreFor("user-1")
	if err != nil {
		t.Fatalf("StoreFor failed: %v", err)
	}
	if store != again {
		t.Error("same user must get the same store instance")
	}
	if subscriber.subscribeCalls != 1 {
		t.Errorf("expected a single subscription, got %d", subscriber.subscribeCalls)
	}
	if manager.ActiveCount() != 1 {
		t.Errorf("expected 1 active store, got %d", manager.ActiveCount())
	}

	manager.Release("user-1")
	if subscriber.unsubscribeCalls != 1 {
		t.Errorf("release must unsubscribe exactly once, got %d", subscriber.unsubscribeCalls)
	}
	if manager.ActiveCount() != 0 {
		t.Errorf("expected 0 active stores, got %d", manager.ActiveCount())
	}

	// Releasing twice or for an unknown user is harmless.
	manager.Release("user-1")
	manager.Release("ghost")
	if subscriber.unsubscribeCalls != 1 {
		t.Error("repeated release must not unsubscribe again")
	}
}
