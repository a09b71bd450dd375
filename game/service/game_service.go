package service

import "context"

// GameService defines the matchmaking and relay operations the transports
// call into.
type GameService interface {
	// FindGame seats the player in the oldest waiting session, or opens a
	// new waiting session if none exists. The returned GameStart reflects
	// the caller's seat; start notifications are pushed via the Notifier.
	FindGame(ctx context.Context, playerID string) (*GameStart, error)

	// SubmitMove validates and applies a move. On success the new state is
	// broadcast to the session group; on failure nothing is broadcast and
	// the error is returned for delivery to the originator only.
	SubmitMove(ctx context.Context, req MoveRequest) (*GameStateUpdate, error)

	// HandleDisconnect tears down the session containing the player, if any.
	// The remaining player (if one) is notified before eviction.
	HandleDisconnect(playerID string)

	// GetSession returns a read-only snapshot of one session.
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)

	// ListSessions returns read-only snapshots of all live sessions.
	ListSessions(ctx context.Context) []*SessionInfo

	// Stats reports live counters for the status endpoint.
	Stats(ctx context.Context) Stats
}

// Notifier is the outbound delivery capability, implemented by the websocket
// hub. Group membership is per session: Join subscribes a player to a
// session's broadcasts, CloseGame dissolves the group without disconnecting
// anyone.
type Notifier interface {
	Join(gameID, playerID string)
	ToPlayer(playerID, event string, payload interface{})
	ToGame(gameID, event string, payload interface{})
	CloseGame(gameID string)
}
