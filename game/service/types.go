package service

import (
	"time"

	"github.com/blitzchess/relay-server/game/rules"
	"github.com/blitzchess/relay-server/game/session"
)

// Event names pushed to clients. These are the wire-level message types.
const (
	EventGameStart  = "gameStart"
	EventGameState  = "gameState"
	EventGameOver   = "gameOver"
	EventPlayerLeft = "playerLeft"
	EventError      = "error"
)

// GameStart announces a session to its players. Color is the color assigned
// to the player whose join triggered the event; a client keeps the color from
// the first gameStart it receives.
type GameStart struct {
	GameID  string   `json:"gameId"`
	Players []string `json:"players"`
	Color   string   `json:"color"`
	FEN     string   `json:"fen"`
}

// GameStateUpdate is broadcast to the session group after every accepted move.
type GameStateUpdate struct {
	FEN         string `json:"fen"`
	PGN         string `json:"pgn"`
	Turn        string `json:"turn"`
	IsCheck     bool   `json:"isCheck"`
	IsCheckmate bool   `json:"isCheckmate"`
}

// GameOver is broadcast once when a session reaches a terminal state.
// Winner is null for draws and unclassified terminal reasons.
type GameOver struct {
	Winner *rules.Color `json:"winner"`
	Status string       `json:"status"`
}

// PlayerLeft is broadcast to the remaining player when their opponent
// disconnects, immediately before the session is destroyed.
type PlayerLeft struct {
	Reason string `json:"reason"`
}

// MoveRequest is a move submission from a player.
type MoveRequest struct {
	GameID    string
	PlayerID  string
	Color     rules.Color
	From      string
	To        string
	Promotion string
}

// SessionInfo is a read-only snapshot of a session for inspection surfaces.
type SessionInfo struct {
	ID         string         `json:"id"`
	Players    []string       `json:"players"`
	Status     session.Status `json:"status"`
	FEN        string         `json:"fen"`
	Turn       string         `json:"turn"`
	CreatedAt  time.Time      `json:"created_at"`
	LastMoveAt time.Time      `json:"last_move_at,omitzero"`
}

// Stats is the payload behind the operational status endpoint.
type Stats struct {
	Sessions int `json:"sessions"`
}
