package session

import (
	"errors"
	"sync"
	"time"

	"github.com/blitzchess/relay-server/game/rules"
	"github.com/google/uuid"
)

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionFull      = errors.New("session is full")
	ErrAlreadyInSession = errors.New("player already in a session")
	ErrPlayerNotFound   = errors.New("player not in any session")
)

// Store is the single authority over live sessions. It owns creation, lookup,
// mutation of membership, and removal. Raw map access is never exposed.
type Store struct {
	sessions map[string]*Session
	order    []string          // session IDs in creation order, for FindWaiting
	byPlayer map[string]string // player ID -> session ID
	mu       sync.RWMutex
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*Session),
		byPlayer: make(map[string]string),
	}
}

// Create stores a new Waiting session holding only the given player, who is
// assigned white. The game handle becomes exclusively owned by the session.
func (st *Store) Create(playerID string, game rules.Game) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if _, taken := st.byPlayer[playerID]; taken {
		return nil, ErrAlreadyInSession
	}

	now := time.Now()
	s := &Session{
		ID:        uuid.NewString(),
		Players:   []string{playerID},
		Colors:    map[string]rules.Color{playerID: rules.White},
		Status:    StatusWaiting,
		Game:      game,
		CreatedAt: now,
	}

	st.sessions[s.ID] = s
	st.order = append(st.order, s.ID)
	st.byPlayer[playerID] = s.ID
	return s, nil
}

// Join seats the player in the session as black and marks it Active.
func (st *Store) Join(id, playerID string) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if len(s.Players) >= MaxPlayers {
		return nil, ErrSessionFull
	}
	if _, taken := st.byPlayer[playerID]; taken {
		return nil, ErrAlreadyInSession
	}

	s.Players = append(s.Players, playerID)
	s.Colors[playerID] = rules.Black
	s.Status = StatusActive
	st.byPlayer[playerID] = s.ID
	return s, nil
}

// Get returns the session with the given ID.
func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	s, ok := st.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// FindWaiting returns the oldest session still waiting for an opponent, or
// nil if there is none. Tie-break is creation order, not map iteration order.
func (st *Store) FindWaiting() *Session {
	st.mu.RLock()
	defer st.mu.RUnlock()

	for _, id := range st.order {
		if s := st.sessions[id]; s != nil && s.Status == StatusWaiting {
			return s
		}
	}
	return nil
}

// FindByPlayer returns the session the player is seated in.
func (st *Store) FindByPlayer(playerID string) (*Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	id, ok := st.byPlayer[playerID]
	if !ok {
		return nil, ErrPlayerNotFound
	}
	s, ok := st.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// DropPlayer unseats the player from their session and clears the reverse
// index entry. The session itself stays stored; the caller decides its fate.
func (st *Store) DropPlayer(playerID string) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	id, ok := st.byPlayer[playerID]
	if !ok {
		return nil, ErrPlayerNotFound
	}
	s, ok := st.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}

	s.removePlayer(playerID)
	delete(st.byPlayer, playerID)
	return s, nil
}

// Remove deletes the session and unmaps any players still seated in it.
func (st *Store) Remove(id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}

	for _, p := range s.Players {
		delete(st.byPlayer, p)
	}
	delete(st.sessions, id)
	for i, oid := range st.order {
		if oid == id {
			st.order = append(st.order[:i], st.order[i+1:]...)
			break
		}
	}
	return nil
}

// List returns a snapshot of all stored sessions in creation order.
func (st *Store) List() []*Session {
	st.mu.RLock()
	defer st.mu.RUnlock()

	result := make([]*Session, 0, len(st.sessions))
	for _, id := range st.order {
		if s := st.sessions[id]; s != nil {
			result = append(result, s)
		}
	}
	return result
}

// ForEach calls fn for every stored session, in creation order, while holding
// the store lock. fn must not call back into the store.
func (st *Store) ForEach(fn func(*Session)) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	for _, id := range st.order {
		if s := st.sessions[id]; s != nil {
			fn(s)
		}
	}
}

// Count returns the number of stored sessions.
func (st *Store) Count() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
