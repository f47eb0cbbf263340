package usecase

import (
	"sync"

	"main/model"
)

// StoreManager hands out one NoteStore per authenticated user and tears it
// down on logout so the live subscription is released exactly once.
type StoreManager struct {
	gateway    NotesGateway
	subscriber NotesSubscriber

	mu     sync.Mutex
	stores map[string]*NoteStore
}

func NewStoreManager(gateway NotesGateway, subscriber NotesSubscriber) *StoreManager {
	return &StoreManager{
		gateway:    gateway,
		subscriber: subscriber,
		stores:     make(map[string]*NoteStore),
	}
}

// StoreFor returns the user's store, creating and attaching it on first use.
func (m *StoreManager) StoreFor(userID string) (*NoteStore, error) {
	if userID == "" {
		return nil, model.ErrNotAuthenticated
	}

	m.mu.Lock()
	store, ok := m.stores[userID]
	if !ok {
		store = NewNoteStore(m.gateway, m.subscriber)
		m.stores[userID] = store
	}
	m.mu.Unlock()

	if err := store.Attach(userID); err != nil {
		return nil, err
	}
	return store, nil
}

// Release detaches and forgets the user's store. Called when the session
// ends; a later StoreFor builds a fresh one.
func (m *StoreManager) Release(userID string) {
	m.mu.Lock()
	store, ok := m.stores[userID]
	delete(m.stores, userID)
	m.mu.Unlock()

	if ok {
		store.Detach()
	}
}

// ActiveCount reports how many stores currently hold a live subscription.
func (m *StoreManager) ActiveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.stores)
}
