// Package service implements the matchmaking and relay core.
//
// The service package implements:
//   - Matchmaking: pairing an incoming player with the oldest waiting
//     session, or opening a new one
//   - The move gate: session existence, turn ownership, and rules-oracle
//     legality checks, in that order, failing fast
//   - Lifecycle management: finalizing sessions on terminal game states and
//     tearing them down on player disconnect
//   - Read-only session inspection for the REST and MCP surfaces
//
// Core Interfaces:
//
// GameService is the main interface the transports call into. Notifier is the
// outbound capability (per-game broadcast plus direct-to-player delivery)
// implemented by the websocket hub; the service never talks to a socket.
//
// Architecture:
//
// The service sits between the transports and the session store / rules
// oracle. All mutating operations (FindGame, SubmitMove, HandleDisconnect)
// are serialized by a single service-level lock, which makes find-or-create
// matchmaking strictly exclusive — at most one waiting session can exist at
// any time — and makes each session's read-modify-write cycle atomic. Turn
// validation is the only ordering mechanism between the two players of a
// session: the loser of a submit race simply gets a wrong-turn error.
//
// Error Semantics:
//
// Validation and processing failures are returned to the caller (and surface
// to the originating player only); they never broadcast and never mutate
// state. Terminal results and disconnects broadcast to the session group and
// then evict the session, after which its ID resolves to ErrSessionNotFound.
package service
