package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/blitzchess/relay-server/game/rules"
	"github.com/blitzchess/relay-server/game/session"
)

// gameServiceImpl implements the GameService interface.
type gameServiceImpl struct {
	store    *session.Store
	oracle   rules.Oracle
	notifier Notifier
	mu       sync.RWMutex
}

// NewGameService creates the game service. The mutex serializes matchmaking
// and every session read-modify-write cycle; see the package documentation.
func NewGameService(store *session.Store, oracle rules.Oracle, notifier Notifier) GameService {
	return &gameServiceImpl{
		store:    store,
		oracle:   oracle,
		notifier: notifier,
	}
}

// FindGame implements the find-or-create matchmaking sequence atomically.
func (s *gameServiceImpl) FindGame(ctx context.Context, playerID string) (*GameStart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if waiting := s.store.FindWaiting(); waiting != nil {
		joined, err := s.store.Join(waiting.ID, playerID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMatchmakingFailed, err)
		}

		s.notifier.Join(joined.ID, playerID)
		start := &GameStart{
			GameID:  joined.ID,
			Players: append([]string(nil), joined.Players...),
			Color:   string(rules.Black),
			FEN:     joined.Game.FEN(),
		}
		// Both players receive the join announcement; the creator keeps the
		// color from its own earlier gameStart.
		s.notifier.ToGame(joined.ID, EventGameStart, start)

		log.Printf("[MATCH] session=%s joined player=%s players=%d", joined.ID, playerID, len(joined.Players))
		return start, nil
	}

	created, err := s.store.Create(playerID, s.oracle.NewGame())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMatchmakingFailed, err)
	}

	s.notifier.Join(created.ID, playerID)
	start := &GameStart{
		GameID:  created.ID,
		Players: append([]string(nil), created.Players...),
		Color:   string(rules.White),
		FEN:     created.Game.FEN(),
	}
	s.notifier.ToPlayer(playerID, EventGameStart, start)

	log.Printf("[MATCH] session=%s created player=%s", created.ID, playerID)
	return start, nil
}

// SubmitMove runs the move gate: session existence, turn ownership, then
// oracle legality. The first failing check wins and nothing is broadcast.
func (s *gameServiceImpl) SubmitMove(ctx context.Context, req MoveRequest) (*GameStateUpdate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.store.Get(req.GameID)
	if err != nil {
		return nil, err
	}

	if sess.Game.Turn() != req.Color {
		return nil, ErrNotYourTurn
	}

	move := rules.Move{From: req.From, To: req.To, Promotion: req.Promotion}
	if err := sess.Game.ApplyMove(move); err != nil {
		return nil, err
	}

	sess.LastMoveAt = time.Now()

	over, outcome := sess.Game.Terminal()
	update := &GameStateUpdate{
		FEN:         sess.Game.FEN(),
		PGN:         sess.Game.PGN(),
		Turn:        sess.Game.Turn().Short(),
		IsCheck:     sess.Game.InCheck(),
		IsCheckmate: over && outcome.Status == rules.StatusCheckmate,
	}
	s.notifier.ToGame(sess.ID, EventGameState, update)

	log.Printf("[MOVE] session=%s %s %s-%s turn=%s check=%t", sess.ID, req.Color, req.From, req.To, update.Turn, update.IsCheck)

	if over {
		s.finishSession(sess, outcome)
	}

	return update, nil
}

// finishSession broadcasts the result and evicts the session. Callers hold
// the service lock.
func (s *gameServiceImpl) finishSession(sess *session.Session, outcome rules.Outcome) {
	sess.Status = session.StatusFinished

	s.notifier.ToGame(sess.ID, EventGameOver, &GameOver{
		Winner: outcome.Winner,
		Status: outcome.Status,
	})

	if err := s.store.Remove(sess.ID); err != nil {
		log.Printf("[END] session=%s remove failed: %v", sess.ID, err)
	}
	s.notifier.CloseGame(sess.ID)

	log.Printf("[END] session=%s status=%s", sess.ID, outcome.Status)
}

// HandleDisconnect destroys the disconnected player's session. A one-sided
// session cannot continue, so the session is removed even when a player
// remains; the survivor is notified first.
func (s *gameServiceImpl) HandleDisconnect(playerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.store.DropPlayer(playerID)
	if err != nil {
		// Player was not seated anywhere; nothing to clean up.
		return
	}

	if len(sess.Players) > 0 {
		s.notifier.ToGame(sess.ID, EventPlayerLeft, &PlayerLeft{Reason: "Opponent disconnected"})
	}

	if err := s.store.Remove(sess.ID); err != nil {
		log.Printf("[LEAVE] session=%s remove failed: %v", sess.ID, err)
	}
	s.notifier.CloseGame(sess.ID)

	log.Printf("[LEAVE] session=%s player=%s remaining=%d", sess.ID, playerID, len(sess.Players))
}

// GetSession returns a snapshot of one session.
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.store.Get(sessionID)
	if err != nil {
		return nil, err
	}
	return snapshot(sess), nil
}

// ListSessions returns snapshots of all live sessions in creation order.
func (s *gameServiceImpl) ListSessions(ctx context.Context) []*SessionInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.store.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, snapshot(sess))
	}
	return result
}

// Stats reports live counters for the status endpoint.
func (s *gameServiceImpl) Stats(ctx context.Context) Stats {
	return Stats{Sessions: s.store.Count()}
}

func snapshot(sess *session.Session) *SessionInfo {
	return &SessionInfo{
		ID:         sess.ID,
		Players:    append([]string(nil), sess.Players...),
		Status:     sess.Status,
		FEN:        sess.Game.FEN(),
		Turn:       sess.Game.Turn().Short(),
		CreatedAt:  sess.CreatedAt,
		LastMoveAt: sess.LastMoveAt,
	}
}
