package rules

import (
	"fmt"

	"github.com/notnil/chess"
)

// ChessOracle is the default Oracle, producing standard chess games validated
// by github.com/notnil/chess.
type ChessOracle struct{}

// NewChessOracle returns the standard chess oracle.
func NewChessOracle() *ChessOracle {
	return &ChessOracle{}
}

// NewGame returns a fresh game in the starting position.
func (o *ChessOracle) NewGame() Game {
	return &chessGame{game: chess.NewGame()}
}

// chessGame adapts *chess.Game to the Game interface.
type chessGame struct {
	game *chess.Game
}

func (g *chessGame) ApplyMove(m Move) error {
	mv, err := g.decode(m)
	if err != nil {
		return fmt.Errorf("%w: %s%s", ErrIllegalMove, m.From, m.To)
	}
	if err := g.game.Move(mv); err != nil {
		return fmt.Errorf("%w: %s%s", ErrIllegalMove, m.From, m.To)
	}
	return nil
}

// decode resolves the move against the current position using UCI notation.
// A bare from/to pair is tried first; the queen-promotion suffix is appended
// only when needed, so "e2e4" never becomes the invalid "e2e4q".
func (g *chessGame) decode(m Move) (*chess.Move, error) {
	notation := chess.UCINotation{}
	if m.Promotion != "" {
		return notation.Decode(g.game.Position(), m.From+m.To+m.Promotion)
	}
	mv, err := notation.Decode(g.game.Position(), m.From+m.To)
	if err == nil {
		return mv, nil
	}
	return notation.Decode(g.game.Position(), m.From+m.To+"q")
}

func (g *chessGame) Turn() Color {
	if g.game.Position().Turn() == chess.White {
		return White
	}
	return Black
}

func (g *chessGame) FEN() string {
	return g.game.Position().String()
}

func (g *chessGame) PGN() string {
	return g.game.String()
}

func (g *chessGame) InCheck() bool {
	moves := g.game.Moves()
	if len(moves) == 0 {
		return false
	}
	return moves[len(moves)-1].HasTag(chess.Check)
}

func (g *chessGame) Terminal() (bool, Outcome) {
	if g.game.Outcome() == chess.NoOutcome {
		return false, Outcome{}
	}
	return true, g.classify()
}

// classify maps the engine's terminal method onto the wire statuses. Draw
// methods are collapsed to "draw"; anything unrecognized falls through to
// "unknown" rather than being guessed at.
func (g *chessGame) classify() Outcome {
	switch g.game.Method() {
	case chess.Checkmate:
		winner := Black
		if g.game.Outcome() == chess.WhiteWon {
			winner = White
		}
		return Outcome{Winner: &winner, Status: StatusCheckmate}
	case chess.Stalemate,
		chess.ThreefoldRepetition,
		chess.FivefoldRepetition,
		chess.FiftyMoveRule,
		chess.SeventyFiveMoveRule,
		chess.InsufficientMaterial,
		chess.DrawOffer:
		return Outcome{Status: StatusDraw}
	default:
		return Outcome{Status: StatusUnknown}
	}
}
