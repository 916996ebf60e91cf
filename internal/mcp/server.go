package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"whiteboard/internal/service"
	"whiteboard/internal/storage"
)

// Server is the MCP server for the whiteboard. It exposes the executor's
// tool vocabulary, a board resource and a planning prompt to AI agents.
type Server struct {
	mcp      *server.MCPServer
	board    *service.BoardService
	approval *ApprovalQueue
	log      *zap.Logger
	userID   string

	mu            sync.Mutex
	activeBoardID string
}

// Deps holds everything the app layer hands to the MCP server.
type Deps struct {
	Board           *service.BoardService
	Emitter         service.EventEmitter
	Approvals       *storage.ApprovalStore // when set, approvals are resolved through the store
	ApprovalTimeout time.Duration
	DefaultBoard    string
	UserID          string
	Log             *zap.Logger
}

// New creates and configures a new MCP server with all tools, resources
// and prompts.
func New(deps Deps) *Server {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	approval := NewApprovalQueue(deps.Emitter, deps.ApprovalTimeout, log)
	if deps.Approvals != nil {
		approval.SetStore(deps.Approvals)
	}
	userID := deps.UserID
	if userID == "" {
		userID = service.DefaultUserID
	}
	s := &Server{
		board:         deps.Board,
		approval:      approval,
		log:           log,
		userID:        userID,
		activeBoardID: deps.DefaultBoard,
	}

	s.mcp = server.NewMCPServer(
		"whiteboard-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
		server.WithPromptCapabilities(true),
	)

	s.registerBoardTools()
	s.registerCatalogTools()
	s.registerResources()
	s.registerPrompts()
	return s
}

// ServeStdio serves MCP on stdin/stdout until ctx ends or stdin closes.
func (s *Server) ServeStdio(ctx context.Context) error {
	s.log.Info("[mcp] starting stdio server", zap.String("board", s.ActiveBoard()))
	stdio := server.NewStdioServer(s.mcp)
	return stdio.Listen(ctx, os.Stdin, os.Stdout)
}

// MCPServer exposes the underlying server, for in-process transports.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// Approve forwards a user approval to the approval queue.
func (s *Server) Approve(actionID string) bool {
	return s.approval.Approve(actionID)
}

// Reject forwards a user rejection to the approval queue.
func (s *Server) Reject(actionID string) bool {
	return s.approval.Reject(actionID)
}

func (s *Server) ActiveBoard() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeBoardID
}

func (s *Server) setActiveBoard(id string) {
	s.mu.Lock()
	s.activeBoardID = id
	s.mu.Unlock()
}

// ── Helpers ────────────────────────────────────────────────

// resolveBoardID returns args["boardId"] or the active board.
func (s *Server) resolveBoardID(args map[string]any) (string, error) {
	if id, ok := args["boardId"].(string); ok && id != "" {
		return id, nil
	}
	if id := s.ActiveBoard(); id != "" {
		return id, nil
	}
	return "", fmt.Errorf("no boardId provided and no active board set (use set_active_board first)")
}

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}
