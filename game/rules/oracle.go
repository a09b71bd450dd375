package rules

import "errors"

// ErrIllegalMove is returned by Game.ApplyMove when the move is not legal in
// the current position. The position is left unchanged.
var ErrIllegalMove = errors.New("illegal move")

// Color identifies a side. The zero value is not a valid color.
type Color string

const (
	White Color = "white"
	Black Color = "black"
)

// Short returns the one-letter wire form used in FEN-style payloads ("w"/"b").
func (c Color) Short() string {
	if c == White {
		return "w"
	}
	return "b"
}

// Opponent returns the other side.
func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

// Valid reports whether c is one of the two defined colors.
func (c Color) Valid() bool {
	return c == White || c == Black
}

// Move is a proposed move in algebraic square coordinates. Promotion is a
// single piece letter ("q", "r", "b", "n") and defaults to queen when empty,
// matching the behavior clients expect from the original wire protocol.
type Move struct {
	From      string
	To        string
	Promotion string
}

// Outcome classifies a terminal position. Winner is nil for draws and for
// unclassified terminal methods.
type Outcome struct {
	Winner *Color
	Status string
}

// Terminal status values.
const (
	StatusCheckmate = "checkmate"
	StatusDraw      = "draw"
	StatusUnknown   = "unknown"
)

// Game is the per-session rules handle. Implementations are not safe for
// concurrent use; each handle is owned exclusively by one session and the
// service layer serializes access.
type Game interface {
	// ApplyMove validates and applies the move, returning ErrIllegalMove
	// (possibly wrapped) if the move is not legal.
	ApplyMove(m Move) error

	// Turn returns the side to move.
	Turn() Color

	// FEN returns the current position in Forsyth-Edwards notation.
	FEN() string

	// PGN returns the move record of the game so far.
	PGN() string

	// InCheck reports whether the side to move is currently in check.
	InCheck() bool

	// Terminal reports whether the game has ended and, if so, the outcome.
	Terminal() (bool, Outcome)
}

// Oracle creates rules handles for new sessions.
type Oracle interface {
	NewGame() Game
}
