// Package session provides the in-memory session store for the relay server.
//
// The session package implements:
//   - The Session record: participants, color assignments, status, and the
//     exclusively-owned rules handle
//   - Thread-safe storage, lookup, and removal keyed by session ID
//   - Insertion-ordered scanning for the matchmaker (FindWaiting)
//   - A reverse participant index enforcing one session per player
//
// Core Types:
//
// Store is the single authority over live sessions. Session holds the state
// of one match; its rules handle is never shared between sessions.
//
// Session Identifiers:
//
// Sessions use random UUIDs generated at creation time.
//
// Concurrency:
//
// The store is safe for concurrent use; every exported method takes the
// internal lock. Note that the store only protects its own maps: callers that
// read-modify-write a Session (the service layer) must serialize those cycles
// themselves, which the game service does with its own lock.
//
// Lifecycle:
//
// A session is created Waiting with one player, becomes Active when a second
// player joins, and is removed on a terminal game result or on any player
// disconnect. Active never transitions back to Waiting.
package session
