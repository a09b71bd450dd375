// Package rules defines the move-legality capability the relay core depends
// on, plus the default chess implementation backed by notnil/chess.
//
// The core never inspects a board directly. It holds an opaque Game handle
// per session and asks it to apply moves, report the side to move, and
// classify terminal positions. Any conformant Oracle/Game pair satisfies the
// contract, which keeps the matchmaking and relay logic independent of the
// rules engine.
//
// Core Types:
//
// Oracle produces fresh Game handles. Game applies moves and exposes the
// serialized position (FEN), the move record (PGN), check state, and terminal
// classification. Color and Move are the small value types shared with the
// service layer.
//
// Terminal Classification:
//
// A terminal position resolves to one of three statuses: "checkmate" (with a
// winner), "draw" (stalemate, repetition, fifty-move rule, insufficient
// material, agreed draw), or "unknown" for any terminal method the engine
// reports that is not explicitly classified. The catch-all is part of the
// wire contract and is kept reachable on purpose.
//
// Usage:
//
//	oracle := rules.NewChessOracle()
//	game := oracle.NewGame()
//
//	err := game.ApplyMove(rules.Move{From: "e2", To: "e4"})
//	if err != nil {
//		// rules.ErrIllegalMove
//	}
//
//	if over, outcome := game.Terminal(); over {
//		// outcome.Status, outcome.Winner
//	}
package rules
