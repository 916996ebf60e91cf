package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"whiteboard/internal/executor"
)

const (
	boardURIPrefix = "board://"
	boardURISuffix = "/objects"
)

func (s *Server) registerResources() {
	// ── board://boards ─────────────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		boardURIPrefix+"boards",
		"All Boards",
		mcp.WithMIMEType("application/json"),
	), s.handleBoardsResource)

	// ── board://{boardId}/objects ──────────────────────
	s.mcp.AddResourceTemplate(
		mcp.NewResourceTemplate(
			boardURIPrefix+"{boardId}"+boardURISuffix,
			"Objects on a Board",
			mcp.WithTemplateDescription("Every object on the board plus a count by type and color"),
			mcp.WithTemplateMIMEType("application/json"),
		),
		s.handleBoardObjectsResource,
	)
}

type boardResource struct {
	BoardID  string            `json:"boardId"`
	Analysis executor.Analysis `json:"analysis"`
	Objects  any               `json:"objects"`
}

func (s *Server) handleBoardsResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	boards, err := s.board.Boards(ctx)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(boards, "", "  ")
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (s *Server) handleBoardObjectsResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := req.Params.URI
	boardID := boardIDFromURI(uri)
	if boardID == "" {
		return nil, fmt.Errorf("could not extract boardId from URI: %s", uri)
	}

	objs, err := s.board.Objects(ctx, boardID)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(boardResource{
		BoardID:  boardID,
		Analysis: executor.Analyze(objs),
		Objects:  objs,
	}, "", "  ")
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// boardIDFromURI extracts the ID from "board://{id}/objects".
func boardIDFromURI(uri string) string {
	if !strings.HasPrefix(uri, boardURIPrefix) || !strings.HasSuffix(uri, boardURISuffix) {
		return ""
	}
	id := strings.TrimSuffix(strings.TrimPrefix(uri, boardURIPrefix), boardURISuffix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
