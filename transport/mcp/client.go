package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/blitzchess/relay-server/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Chess Relay Server",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Chess Relay Server - MCP Interface

This is a thin client that proxies all requests to the REST API server.

The relay pairs anonymous players into chess games and broadcasts moves
between them over WebSocket connections. This interface is read-only: it
observes live sessions but cannot join games or submit moves.

AVAILABLE TOOLS:
- server_health: Process health with live session and player counts
- list_sessions: List all live sessions
- get_session: Get a specific session snapshot (players, status, position)
- protocol_reference: The WebSocket protocol clients use to play

NOTE: Sessions are ephemeral. A session disappears as soon as its game
ends or either player disconnects, so a snapshot may be gone by the time
you fetch it again.`),
	)

	// Register all tools
	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "server_health",
		Description: "Get server health with live session and connected player counts",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleServerHealth)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all live game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get a snapshot of a specific session: players, status, and current position",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID to retrieve",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "protocol_reference",
		Description: "Describe the WebSocket protocol game clients use to find games and play moves",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleProtocolReference)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// Tool handlers

func (c *Client) handleServerHealth(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var health struct {
		Status  string `json:"status"`
		Games   int    `json:"games"`
		Players int    `json:"players"`
	}

	err := c.apiCall("GET", "/health", nil, &health)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Status: %s\nLive games: %d\nConnected players: %d\n",
		health.Status, health.Games, health.Players)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	err := c.apiCall("GET", "/api/sessions", nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Live Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		result += fmt.Sprintf("- %s (%s, %d player(s), created %s)\n",
			s.ID, s.Status, len(s.Players), s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var session service.SessionInfo
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s", sessionID), nil, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatSessionInfo(&session)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleProtocolReference(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reference := `Chess Relay Server - WebSocket Protocol

Connect to GET /ws. Every frame is a JSON envelope:

	{"type": "<name>", "payload": {...}}

On connect the server assigns you an identity:

	<- {"type": "connected", "payload": {"playerId": "..."}}

MATCHMAKING:
Send findGame with no payload. You either join the oldest waiting game
or create a new one and wait:

	-> {"type": "findGame"}
	<- {"type": "gameStart", "payload": {"gameId", "players", "color", "fen"}}

Keep the color from the FIRST gameStart you receive. The event fires
again for the whole game when the second player joins.

PLAYING:
Moves are coordinate pairs. Promotion is a single letter (q, r, b, n)
and defaults to queen when omitted:

	-> {"type": "move", "payload": {"gameId", "from": "e2", "to": "e4", "color": "white"}}
	<- {"type": "gameState", "payload": {"fen", "pgn", "turn", "isCheck", "isCheckmate"}}

gameState is broadcast to both players after every accepted move. A
rejected move produces an error event for the sender only:

	<- {"type": "error", "payload": {"message": "Not your turn"}}

Error messages: "Game not found", "Not your turn", "Invalid move",
"Failed to find a game".

GAME END:
When the game reaches a terminal position both players receive gameOver
and the session is destroyed:

	<- {"type": "gameOver", "payload": {"winner": "white"|"black"|null, "status": "checkmate"|"draw"}}

If your opponent disconnects mid-game you receive playerLeft and the
session is destroyed; send findGame again to be re-paired:

	<- {"type": "playerLeft", "payload": {"reason": "Opponent disconnected"}}`

	return mcp.NewToolResultText(reference), nil
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Session: %s\nStatus: %s\nCreated: %s\n",
		session.ID, session.Status,
		session.CreatedAt.Format("2006-01-02 15:04:05")))

	b.WriteString(fmt.Sprintf("Players: %s\n", strings.Join(session.Players, ", ")))

	if session.FEN != "" {
		b.WriteString(fmt.Sprintf("Position: %s\n", session.FEN))
	}
	if session.Turn != "" {
		b.WriteString(fmt.Sprintf("To move: %s\n", session.Turn))
	}
	if !session.LastMoveAt.IsZero() {
		b.WriteString(fmt.Sprintf("Last move: %s\n", session.LastMoveAt.Format("15:04:05")))
	}

	return b.String()
}
