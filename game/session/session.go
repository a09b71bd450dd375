package session

import (
	"time"

	"github.com/blitzchess/relay-server/game/rules"
)

// MaxPlayers is the participant capacity of a session.
const MaxPlayers = 2

// Status describes where a session is in its lifecycle.
type Status string

const (
	// StatusWaiting means the session has one player and is matchable.
	StatusWaiting Status = "waiting"
	// StatusActive means both seats are filled and the game is in progress.
	StatusActive Status = "active"
	// StatusFinished is transient: it is set while the final result is
	// broadcast, immediately before the session is removed.
	StatusFinished Status = "finished"
)

// Session is one match between two players. The Game handle is owned
// exclusively by this session and is only touched by the service layer while
// it holds its lock.
type Session struct {
	ID         string
	Players    []string
	Colors     map[string]rules.Color
	Status     Status
	Game       rules.Game
	CreatedAt  time.Time
	LastMoveAt time.Time
}

// HasPlayer reports whether the player is seated in this session.
func (s *Session) HasPlayer(playerID string) bool {
	for _, p := range s.Players {
		if p == playerID {
			return true
		}
	}
	return false
}

// ColorOf returns the color assigned to the player, or "" if not seated.
func (s *Session) ColorOf(playerID string) rules.Color {
	return s.Colors[playerID]
}

// removePlayer drops the player from the participant list. It does not touch
// the store indexes; only Store.DropPlayer calls it.
func (s *Session) removePlayer(playerID string) {
	for i, p := range s.Players {
		if p == playerID {
			s.Players = append(s.Players[:i], s.Players[i+1:]...)
			delete(s.Colors, playerID)
			return
		}
	}
}
