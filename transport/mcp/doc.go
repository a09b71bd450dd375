// Package mcp provides a Model Context Protocol surface for the relay server.
//
// The mcp package implements:
//   - MCP server for AI agent integration
//   - Read-only tool definitions over the REST inspection API
//   - HTTP transport via the /mcp endpoint
//
// MCP Tools:
//
// The package exposes the following tools for AI agents:
//   - server_health: Get process health with session and player counts
//   - list_sessions: List all live game sessions
//   - get_session: Get a specific session snapshot
//   - protocol_reference: Describe the WebSocket gameplay protocol
//
// Gameplay itself is deliberately out of reach: matchmaking and moves only
// happen over a live WebSocket connection, so the MCP surface can never
// mutate a game it is observing.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	http.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
//		// forward the JSON-RPC body to client.GetMCPServer().HandleMessage
//	})
package mcp
