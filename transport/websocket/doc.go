// Package websocket provides the WebSocket transport for the relay server.
//
// The websocket package implements:
//   - Real-time bidirectional communication with players
//   - Per-session broadcast groups (the service's Notifier capability)
//   - Routing of inbound findGame/move messages into the game service
//   - Connection lifecycle management, including disconnect-driven session
//     teardown
//
// Architecture:
//
// The package uses a hub-and-spoke model. The Hub tracks every connected
// player and the broadcast group of each live game. Each connection runs a
// dedicated read goroutine (which routes messages into the service) and a
// dedicated write goroutine (which drains the client's buffered send
// channel), so one slow client never blocks another.
//
// Message Protocol:
//
// Messages are JSON envelopes {type, payload}:
//   - Incoming: {"type": "findGame"} and
//     {"type": "move", "payload": {"gameId": ..., "from": "e2", "to": "e4",
//     "color": "white", "promotion": "q"}}
//   - Outgoing: connected, gameStart, gameState, gameOver, playerLeft, and
//     error events, with payloads defined in the service package
//
// Player Identity:
//
// Each connection is assigned a random player ID at upgrade time and told it
// via the initial "connected" event. The ID is the participant identifier
// everywhere else in the system.
//
// Error Delivery:
//
// Validation and processing failures are sent as an error event to the
// originating connection only; they are never broadcast to the game group.
//
// Connection Lifecycle:
//
// 1. Client connects and receives its player ID
// 2. Client sends findGame and is seated in a session group
// 3. Accepted moves are broadcast to the group
// 4. Disconnection tears down the player's session via the game service
package websocket
