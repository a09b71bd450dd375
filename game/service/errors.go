package service

import (
	"errors"

	"github.com/blitzchess/relay-server/game/rules"
	"github.com/blitzchess/relay-server/game/session"
)

// Error taxonomy surfaced to the originating player. Transports map these to
// user-visible error messages; none of them broadcast or mutate state.
var (
	// ErrSessionNotFound means the referenced session does not exist (or was
	// already evicted).
	ErrSessionNotFound = session.ErrSessionNotFound

	// ErrNotYourTurn means the submitting color does not own the current turn.
	ErrNotYourTurn = errors.New("not your turn")

	// ErrIllegalMove means the rules oracle rejected the move.
	ErrIllegalMove = rules.ErrIllegalMove

	// ErrMatchmakingFailed wraps unexpected failures during find-or-create,
	// including a player asking for a game while already seated in one.
	ErrMatchmakingFailed = errors.New("matchmaking failed")
)
