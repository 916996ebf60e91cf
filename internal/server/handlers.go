package server

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"whiteboard/internal/executor"
	"whiteboard/internal/export"
	"whiteboard/internal/service"
	"whiteboard/internal/storage"
)

func (s *Server) health(c *fiber.Ctx) error {
	status := fiber.Map{"status": "ok", "time": time.Now().UTC().Format(time.RFC3339)}
	if s.db != nil {
		if err := s.db.Ping(c.UserContext()); err != nil {
			status["status"] = "degraded"
			status["db"] = err.Error()
			return c.Status(fiber.StatusServiceUnavailable).JSON(status)
		}
	}
	return c.JSON(status)
}

type toolResponse struct {
	executor.ToolSpec
	Schema map[string]any `json:"schema"`
}

func (s *Server) listTools(c *fiber.Ctx) error {
	specs := executor.Catalog()
	out := make([]toolResponse, len(specs))
	for i, t := range specs {
		out[i] = toolResponse{ToolSpec: t, Schema: t.JSONSchema()}
	}
	return c.JSON(out)
}

func (s *Server) listBoards(c *fiber.Ctx) error {
	boards, err := s.board.Boards(c.UserContext())
	if err != nil {
		return s.internal(c, "list boards", err)
	}
	return c.JSON(boards)
}

func (s *Server) listObjects(c *fiber.Ctx) error {
	objs, err := s.board.Objects(c.UserContext(), c.Params("id"))
	if err != nil {
		return s.internal(c, "list objects", err)
	}
	return c.JSON(fiber.Map{"boardId": c.Params("id"), "objects": objs})
}

// execute runs a batch. The body is {toolCalls, selectionArea?, viewport?,
// userId?, analysisDone?}; the board comes from the path.
func (s *Server) execute(c *fiber.Ctx) error {
	var req service.ExecuteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": fmt.Sprintf("invalid body: %v", err)})
	}
	if len(req.ToolCalls) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "toolCalls is required"})
	}
	req.BoardID = c.Params("id")
	req.Source = "http"

	res, err := s.board.Execute(c.UserContext(), req)
	if err != nil {
		s.log.Error("[http] execute failed", zap.String("board", req.BoardID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error(), "result": res})
	}
	return c.JSON(res)
}

func (s *Server) listRuns(c *fiber.Ctx) error {
	runs, err := s.board.Runs().List(c.UserContext(), c.Params("id"), c.QueryInt("limit", 50))
	if err != nil {
		return s.internal(c, "list runs", err)
	}
	return c.JSON(runs)
}

func (s *Server) exportPDF(c *fiber.Ctx) error {
	id := c.Params("id")
	objs, err := s.board.Objects(c.UserContext(), id)
	if err != nil {
		return s.internal(c, "export", err)
	}
	var buf bytes.Buffer
	if err := export.WriteBoard(&buf, "Board "+id, objs); err != nil {
		return s.internal(c, "render pdf", err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="board-%s.pdf"`, id))
	return c.Send(buf.Bytes())
}

func (s *Server) listApprovals(c *fiber.Ctx) error {
	if s.approvals == nil {
		return c.JSON([]storage.Approval{})
	}
	pending, err := s.approvals.ListPending(c.UserContext())
	if err != nil {
		return s.internal(c, "list approvals", err)
	}
	return c.JSON(pending)
}

func (s *Server) resolveApproval(approved bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if s.approvals == nil {
			return fiber.ErrNotFound
		}
		id := c.Params("approvalId")
		err := s.approvals.Resolve(c.UserContext(), id, approved)
		if errors.Is(err, storage.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		if err != nil {
			return s.internal(c, "resolve approval", err)
		}
		return c.JSON(fiber.Map{"id": id, "approved": approved})
	}
}

func (s *Server) internal(c *fiber.Ctx, op string, err error) error {
	s.log.Error("[http] "+op, zap.String("path", c.Path()), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
