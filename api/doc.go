// Package api provides the HTTP surface of the relay server.
//
// The api package implements:
//   - The operational health/status endpoint
//   - Read-only session inspection endpoints
//   - The WebSocket upgrade route
//
// Endpoints:
//
// Operational:
//   - GET /health - process health, live session count, connected players
//
// Session Inspection:
//   - GET /api/sessions - list all live sessions
//   - GET /api/sessions/{id} - get a specific session snapshot
//
// Gameplay:
//   - GET /ws - upgrade to the WebSocket protocol (see transport/websocket)
//
// All gameplay happens over the WebSocket connection; the REST surface is
// deliberately read-only.
//
// Request/Response Format:
//
// All endpoints return JSON. Errors are returned as JSON with appropriate
// HTTP status codes:
//
//	{
//	  "error": "error message"
//	}
package api
