package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"whiteboard/internal/domain"
	"whiteboard/internal/executor"
	"whiteboard/internal/service"
)

func boolPtr(v bool) *bool { return &v }

var boardIDOption = mcp.WithString("boardId",
	mcp.Description("Board to act on (optional, defaults to the active board)"),
)

func (s *Server) registerBoardTools() {
	// ── set_active_board ───────────────────────────────
	s.mcp.AddTool(mcp.NewTool("set_active_board",
		mcp.WithDescription("Set the board that later tool calls act on when they omit boardId"),
		mcp.WithString("boardId",
			mcp.Description("ID of the board to make active"),
			mcp.Required(),
		),
	), s.handleSetActiveBoard)

	// ── list_boards ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_boards",
		mcp.WithDescription("List every board that has been used"),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{ReadOnlyHint: boolPtr(true)}),
	), s.handleListBoards)

	// ── execute_tool_calls ─────────────────────────────
	s.mcp.AddTool(mcp.NewTool("execute_tool_calls",
		mcp.WithDescription("Run several whiteboard tool calls as one batch. Later calls can refer to objects created earlier in the batch by index (e.g. fromIndex). All new objects are committed together."),
		mcp.WithArray("toolCalls",
			mcp.Description(`Tool calls in order, each {"name": "...", "arguments": {...}}`),
			mcp.Items(map[string]any{"type": "object"}),
			mcp.Required(),
		),
		boardIDOption,
		mcp.WithObject("viewport",
			mcp.Description("Caller viewport {position:{x,y}, scale, width, height}; centres auto-placed objects"),
		),
		mcp.WithObject("selectionArea",
			mcp.Description("Selected region {x, y, width, height}; arrange tools lay out inside it"),
		),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleExecuteToolCalls)
}

// registerCatalogTools exposes every executor tool as its own MCP tool.
func (s *Server) registerCatalogTools() {
	for _, spec := range executor.Catalog() {
		s.mcp.AddTool(mcp.NewTool(spec.Name, toolOptions(spec)...), s.catalogHandler(spec))
	}
}

func toolOptions(spec executor.ToolSpec) []mcp.ToolOption {
	opts := []mcp.ToolOption{mcp.WithDescription(spec.Description)}
	for _, p := range spec.Params {
		props := []mcp.PropertyOption{mcp.Description(p.Description)}
		if p.Required {
			props = append(props, mcp.Required())
		}
		switch p.Type {
		case "number", "integer":
			opts = append(opts, mcp.WithNumber(p.Name, props...))
		case "boolean":
			opts = append(opts, mcp.WithBoolean(p.Name, props...))
		case "array":
			items := p.Items
			if items == "" {
				items = "string"
			}
			props = append(props, mcp.Items(map[string]any{"type": items}))
			opts = append(opts, mcp.WithArray(p.Name, props...))
		default:
			if len(p.Enum) > 0 {
				props = append(props, mcp.Enum(p.Enum...))
			}
			opts = append(opts, mcp.WithString(p.Name, props...))
		}
	}
	opts = append(opts, boardIDOption)
	switch {
	case spec.Destructive:
		opts = append(opts, mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}))
	case spec.ReadOnly:
		opts = append(opts, mcp.WithToolAnnotation(mcp.ToolAnnotation{ReadOnlyHint: boolPtr(true)}))
	}
	return opts
}

func (s *Server) catalogHandler(spec executor.ToolSpec) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()
		boardID, err := s.resolveBoardID(args)
		if err != nil {
			return nil, err
		}
		call := domain.ToolCall{ID: uuid.NewString(), Name: spec.Name, Arguments: withoutBoardID(args)}
		return s.run(ctx, boardID, []domain.ToolCall{call}, executor.Options{})
	}
}

func (s *Server) handleSetActiveBoard(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	boardID := req.GetString("boardId", "")
	if boardID == "" {
		return nil, fmt.Errorf("boardId is required")
	}
	s.setActiveBoard(boardID)
	return textResult(fmt.Sprintf("Active board set to %s", boardID)), nil
}

func (s *Server) handleListBoards(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	boards, err := s.board.Boards(ctx)
	if err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}
	return jsonResult(boards)
}

func (s *Server) handleExecuteToolCalls(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	boardID, err := s.resolveBoardID(args)
	if err != nil {
		return nil, err
	}

	raw, err := toolCallsJSON(args["toolCalls"])
	if err != nil {
		return nil, err
	}
	calls, err := domain.ParseToolCalls(raw)
	if err != nil {
		return nil, err
	}
	if len(calls) == 0 {
		return nil, fmt.Errorf("toolCalls is empty")
	}

	var opts executor.Options
	if data, err := json.Marshal(withoutBoardID(args)); err == nil {
		if err := json.Unmarshal(data, &opts); err != nil {
			return nil, fmt.Errorf("invalid viewport or selectionArea: %w", err)
		}
	}
	return s.run(ctx, boardID, calls, opts)
}

// toolCallsJSON accepts the batch as a JSON array or a JSON-encoded string.
func toolCallsJSON(v any) ([]byte, error) {
	switch t := v.(type) {
	case nil:
		return nil, fmt.Errorf("toolCalls is required")
	case string:
		return []byte(t), nil
	default:
		data, err := json.Marshal(t)
		if err != nil {
			return nil, fmt.Errorf("encode toolCalls: %w", err)
		}
		return data, nil
	}
}

// run gets approval for destructive calls, then executes the batch.
func (s *Server) run(ctx context.Context, boardID string, calls []domain.ToolCall, opts executor.Options) (*mcp.CallToolResult, error) {
	if desc, meta, ok := destructiveSummary(boardID, calls); ok {
		if err := s.approval.Request(ctx, "deleteObject", desc, meta); err != nil {
			return textResult(fmt.Sprintf("Action not performed: %v", err)), nil
		}
	}

	res, err := s.board.Execute(ctx, service.ExecuteRequest{
		BoardID:   boardID,
		UserID:    s.userID,
		Source:    "mcp",
		ToolCalls: calls,
		Options:   opts,
	})
	if err != nil {
		s.log.Error("[mcp] execute failed", zap.String("board", boardID), zap.Error(err))
		return nil, fmt.Errorf("execute: %w", err)
	}
	return jsonResult(res)
}

// destructiveSummary describes the destructive calls in a batch for the
// approval prompt. ok is false when the batch has none.
func destructiveSummary(boardID string, calls []domain.ToolCall) (desc, meta string, ok bool) {
	var ids []string
	var names []string
	for _, c := range calls {
		spec, found := executor.Lookup(c.Name)
		if !found || !spec.Destructive {
			continue
		}
		names = append(names, c.Name)
		ids = append(ids, objectIDs(c.Arguments)...)
	}
	if len(names) == 0 {
		return "", "", false
	}
	desc = fmt.Sprintf("%s on board %s: %d object(s)", strings.Join(names, ", "), boardID, len(ids))
	data, _ := json.Marshal(map[string]any{"boardId": boardID, "objectIds": ids})
	return desc, string(data), true
}

func objectIDs(args map[string]any) []string {
	var ids []string
	switch v := args["objectIds"].(type) {
	case []any:
		for _, x := range v {
			if s, ok := x.(string); ok {
				ids = append(ids, s)
			}
		}
	case []string:
		ids = append(ids, v...)
	case string:
		for _, part := range strings.Split(v, ",") {
			if p := strings.TrimSpace(part); p != "" {
				ids = append(ids, p)
			}
		}
	}
	if id, ok := args["objectId"].(string); ok && id != "" {
		ids = append(ids, id)
	}
	return ids
}

func withoutBoardID(args map[string]any) map[string]any {
	out := make(map[string]any, len(args))
	for k, v := range args {
		if k != "boardId" {
			out[k] = v
		}
	}
	return out
}
