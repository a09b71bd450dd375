package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/blitzchess/relay-server/game/rules"
	"github.com/blitzchess/relay-server/game/service"
	"github.com/blitzchess/relay-server/game/session"
)

// recordedEvent is one Notifier delivery captured by the mock.
type recordedEvent struct {
	Target  string // "player:<id>" or "game:<id>"
	Event   string
	Payload interface{}
}

// MockNotifier implements service.Notifier and records deliveries in order.
type MockNotifier struct {
	mu     sync.Mutex
	events []recordedEvent
	joins  map[string][]string // gameID -> playerIDs
	closed []string
}

func NewMockNotifier() *MockNotifier {
	return &MockNotifier{joins: make(map[string][]string)}
}

func (m *MockNotifier) Join(gameID, playerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.joins[gameID] = append(m.joins[gameID], playerID)
}

func (m *MockNotifier) ToPlayer(playerID, event string, payload interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, recordedEvent{"player:" + playerID, event, payload})
}

func (m *MockNotifier) ToGame(gameID, event string, payload interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, recordedEvent{"game:" + gameID, event, payload})
}

func (m *MockNotifier) CloseGame(gameID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = append(m.closed, gameID)
}

func (m *MockNotifier) Events() []recordedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]recordedEvent(nil), m.events...)
}

func (m *MockNotifier) EventsOfType(event string) []recordedEvent {
	var out []recordedEvent
	for _, e := range m.Events() {
		if e.Event == event {
			out = append(out, e)
		}
	}
	return out
}

func newTestService() (service.GameService, *session.Store, *MockNotifier) {
	store := session.NewStore()
	notifier := NewMockNotifier()
	svc := service.NewGameService(store, rules.NewChessOracle(), notifier)
	return svc, store, notifier
}

func TestFindGame_PairsTwoPlayers(t *testing.T) {
	svc, store, notifier := newTestService()
	ctx := context.Background()

	first, err := svc.FindGame(ctx, "alice")
	if err != nil {
		t.Fatalf("FindGame failed for alice: %v", err)
	}
	if first.Color != "white" {
		t.Errorf("First caller should be white, got %s", first.Color)
	}

	second, err := svc.FindGame(ctx, "bob")
	if err != nil {
		t.Fatalf("FindGame failed for bob: %v", err)
	}
	if second.Color != "black" {
		t.Errorf("Second caller should be black, got %s", second.Color)
	}
	if second.GameID != first.GameID {
		t.Errorf("Players should share a session: %s vs %s", first.GameID, second.GameID)
	}
	if len(second.Players) != 2 {
		t.Errorf("Expected 2 players in gameStart, got %v", second.Players)
	}

	sess, err := store.Get(first.GameID)
	if err != nil {
		t.Fatalf("Session should be stored: %v", err)
	}
	if sess.Status != session.StatusActive {
		t.Errorf("Expected active session, got %s", sess.Status)
	}

	starts := notifier.EventsOfType(service.EventGameStart)
	if len(starts) != 2 {
		t.Fatalf("Expected 2 gameStart deliveries, got %d", len(starts))
	}
	if starts[0].Target != "player:alice" {
		t.Errorf("First gameStart should go to alice alone, went to %s", starts[0].Target)
	}
	if starts[1].Target != "game:"+first.GameID {
		t.Errorf("Second gameStart should broadcast to the game, went to %s", starts[1].Target)
	}
}

func TestFindGame_PlayerAlreadySeated(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.FindGame(ctx, "alice"); err != nil {
		t.Fatalf("FindGame failed: %v", err)
	}
	_, err := svc.FindGame(ctx, "alice")
	if !errors.Is(err, service.ErrMatchmakingFailed) {
		t.Errorf("Expected ErrMatchmakingFailed, got %v", err)
	}
	if store.Count() != 1 {
		t.Errorf("Expected 1 session after rejected rematch, got %d", store.Count())
	}
}

func TestFindGame_Concurrent(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	const players = 20
	var wg sync.WaitGroup
	for i := 0; i < players; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if _, err := svc.FindGame(ctx, fmt.Sprintf("player-%d", n)); err != nil {
				t.Errorf("FindGame failed: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if store.Count() != players/2 {
		t.Errorf("Expected %d sessions, got %d", players/2, store.Count())
	}
	seen := make(map[string]string)
	for _, sess := range store.List() {
		if len(sess.Players) != session.MaxPlayers {
			t.Errorf("Session %s has %d players", sess.ID, len(sess.Players))
		}
		for _, p := range sess.Players {
			if other, dup := seen[p]; dup {
				t.Errorf("Player %s seated in both %s and %s", p, other, sess.ID)
			}
			seen[p] = sess.ID
		}
	}
}

// startGame pairs two players and returns the shared game ID.
func startGame(t *testing.T, svc service.GameService) string {
	t.Helper()
	start, err := svc.FindGame(context.Background(), "alice")
	if err != nil {
		t.Fatalf("FindGame failed: %v", err)
	}
	if _, err := svc.FindGame(context.Background(), "bob"); err != nil {
		t.Fatalf("FindGame failed: %v", err)
	}
	return start.GameID
}

func move(gameID, color, from, to string) service.MoveRequest {
	playerID := "alice"
	if color == "black" {
		playerID = "bob"
	}
	return service.MoveRequest{
		GameID:   gameID,
		PlayerID: playerID,
		Color:    rules.Color(color),
		From:     from,
		To:       to,
	}
}

func TestSubmitMove_Legal(t *testing.T) {
	svc, store, notifier := newTestService()
	gameID := startGame(t, svc)
	ctx := context.Background()

	update, err := svc.SubmitMove(ctx, move(gameID, "white", "e2", "e4"))
	if err != nil {
		t.Fatalf("SubmitMove failed: %v", err)
	}
	if update.Turn != "b" {
		t.Errorf("Turn should flip to black, got %s", update.Turn)
	}
	if update.IsCheck || update.IsCheckmate {
		t.Error("Opening move should not set check flags")
	}

	states := notifier.EventsOfType(service.EventGameState)
	if len(states) != 1 {
		t.Fatalf("Expected 1 gameState broadcast, got %d", len(states))
	}
	if states[0].Target != "game:"+gameID {
		t.Errorf("gameState should broadcast to the game, went to %s", states[0].Target)
	}

	sess, _ := store.Get(gameID)
	if sess.LastMoveAt.IsZero() {
		t.Error("LastMoveAt should be set after an accepted move")
	}
}

func TestSubmitMove_WrongTurn(t *testing.T) {
	svc, store, notifier := newTestService()
	gameID := startGame(t, svc)

	_, err := svc.SubmitMove(context.Background(), move(gameID, "black", "e7", "e5"))
	if !errors.Is(err, service.ErrNotYourTurn) {
		t.Fatalf("Expected ErrNotYourTurn, got %v", err)
	}

	if len(notifier.EventsOfType(service.EventGameState)) != 0 {
		t.Error("Rejected move must not broadcast")
	}
	sess, _ := store.Get(gameID)
	if sess.Game.Turn() != rules.White {
		t.Error("Rejected move must not mutate state")
	}
}

func TestSubmitMove_Illegal(t *testing.T) {
	svc, _, notifier := newTestService()
	gameID := startGame(t, svc)

	_, err := svc.SubmitMove(context.Background(), move(gameID, "white", "e2", "e5"))
	if !errors.Is(err, service.ErrIllegalMove) {
		t.Fatalf("Expected ErrIllegalMove, got %v", err)
	}
	if len(notifier.EventsOfType(service.EventGameState)) != 0 {
		t.Error("Illegal move must not broadcast")
	}
}

func TestSubmitMove_UnknownSession(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.SubmitMove(context.Background(), move("no-such-game", "white", "e2", "e4"))
	if !errors.Is(err, service.ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestSubmitMove_Checkmate(t *testing.T) {
	svc, store, notifier := newTestService()
	gameID := startGame(t, svc)
	ctx := context.Background()

	// Fool's mate: 1.f3 e5 2.g4 Qh4#
	seq := []service.MoveRequest{
		move(gameID, "white", "f2", "f3"),
		move(gameID, "black", "e7", "e5"),
		move(gameID, "white", "g2", "g4"),
		move(gameID, "black", "d8", "h4"),
	}
	var last *service.GameStateUpdate
	for _, req := range seq {
		var err error
		last, err = svc.SubmitMove(ctx, req)
		if err != nil {
			t.Fatalf("Move %s-%s failed: %v", req.From, req.To, err)
		}
	}

	if !last.IsCheckmate {
		t.Error("Final update should flag checkmate")
	}

	events := notifier.Events()
	if len(events) < 2 {
		t.Fatalf("Expected gameState then gameOver, got %d events", len(events))
	}
	finalState := events[len(events)-2]
	gameOver := events[len(events)-1]
	if finalState.Event != service.EventGameState {
		t.Errorf("Expected gameState before gameOver, got %s", finalState.Event)
	}
	if gameOver.Event != service.EventGameOver {
		t.Fatalf("Expected trailing gameOver, got %s", gameOver.Event)
	}

	result, ok := gameOver.Payload.(*service.GameOver)
	if !ok {
		t.Fatalf("Unexpected gameOver payload type %T", gameOver.Payload)
	}
	if result.Status != rules.StatusCheckmate {
		t.Errorf("Expected status checkmate, got %s", result.Status)
	}
	if result.Winner == nil || *result.Winner != rules.Black {
		t.Errorf("Expected black to win, got %v", result.Winner)
	}

	// The session is gone: further moves resolve to SessionNotFound.
	if _, err := store.Get(gameID); !errors.Is(err, session.ErrSessionNotFound) {
		t.Error("Terminal session should be evicted from the store")
	}
	if _, err := svc.SubmitMove(ctx, move(gameID, "white", "a2", "a3")); !errors.Is(err, service.ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound after game over, got %v", err)
	}
}

func TestHandleDisconnect(t *testing.T) {
	t.Run("active session notifies survivor and evicts", func(t *testing.T) {
		svc, store, notifier := newTestService()
		gameID := startGame(t, svc)

		svc.HandleDisconnect("alice")

		left := notifier.EventsOfType(service.EventPlayerLeft)
		if len(left) != 1 {
			t.Fatalf("Expected 1 playerLeft, got %d", len(left))
		}
		if left[0].Target != "game:"+gameID {
			t.Errorf("playerLeft should go to the session group, went to %s", left[0].Target)
		}
		if _, err := store.Get(gameID); !errors.Is(err, session.ErrSessionNotFound) {
			t.Error("Session should be removed on disconnect")
		}
		if _, err := svc.SubmitMove(context.Background(), move(gameID, "black", "e7", "e5")); !errors.Is(err, service.ErrSessionNotFound) {
			t.Errorf("Expected ErrSessionNotFound for survivor's move, got %v", err)
		}
	})

	t.Run("waiting session evicts silently", func(t *testing.T) {
		svc, store, notifier := newTestService()
		if _, err := svc.FindGame(context.Background(), "alice"); err != nil {
			t.Fatalf("FindGame failed: %v", err)
		}

		svc.HandleDisconnect("alice")

		if len(notifier.EventsOfType(service.EventPlayerLeft)) != 0 {
			t.Error("No playerLeft expected when nobody remains")
		}
		if store.Count() != 0 {
			t.Errorf("Expected empty store, got %d", store.Count())
		}
	})

	t.Run("unknown player is a no-op", func(t *testing.T) {
		svc, _, notifier := newTestService()
		svc.HandleDisconnect("ghost")
		if len(notifier.Events()) != 0 {
			t.Errorf("Expected no events, got %v", notifier.Events())
		}
	})
}

func TestInspection(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	gameID := startGame(t, svc)

	info, err := svc.GetSession(ctx, gameID)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if info.Status != session.StatusActive || len(info.Players) != 2 {
		t.Errorf("Unexpected snapshot: %+v", info)
	}
	if info.Turn != "w" {
		t.Errorf("Expected white to move, got %s", info.Turn)
	}

	list := svc.ListSessions(ctx)
	if len(list) != 1 || list[0].ID != gameID {
		t.Errorf("Unexpected session list: %+v", list)
	}

	if got := svc.Stats(ctx); got.Sessions != 1 {
		t.Errorf("Expected 1 live session, got %d", got.Sessions)
	}

	if _, err := svc.GetSession(ctx, "nope"); !errors.Is(err, service.ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}
