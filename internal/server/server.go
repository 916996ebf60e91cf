// Package server exposes the board engine over HTTP and pushes board
// changes to websocket subscribers.
package server

import (
	"context"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"whiteboard/internal/config"
	"whiteboard/internal/service"
	"whiteboard/internal/storage"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server is the fiber app plus the services its handlers call.
type Server struct {
	app       *fiber.App
	cfg       config.ServerConfig
	board     *service.BoardService
	approvals *storage.ApprovalStore
	hub       *Hub
	db        Pinger
	log       *zap.Logger
}

// New builds the app and registers every route. approvals and db may be nil.
func New(cfg config.ServerConfig, board *service.BoardService, approvals *storage.ApprovalStore, hub *Hub, db Pinger, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if hub == nil {
		hub = NewHub(log)
	}
	bodyLimit := cfg.BodyLimit
	if bodyLimit <= 0 {
		bodyLimit = 4 * 1024 * 1024
	}
	app := fiber.New(fiber.Config{
		AppName:               "whiteboard",
		BodyLimit:             bodyLimit,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
		IdleTimeout:           120 * time.Second,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	s := &Server{app: app, cfg: cfg, board: board, approvals: approvals, hub: hub, db: db, log: log}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// App returns the fiber app, mainly for app.Test in tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) setupMiddleware() {
	s.app.Use(recover.New())
	s.app.Use(logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	origin := s.cfg.CORSOrigin
	if origin == "" {
		origin = "*"
	}
	s.app.Use(cors.New(cors.Config{
		AllowOrigins: origin,
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, OPTIONS",
	}))
}

func (s *Server) setupRoutes() {
	s.app.Get("/health", s.health)

	api := s.app.Group("/api")
	api.Get("/tools", s.listTools)
	api.Get("/boards", s.listBoards)

	boards := api.Group("/boards/:id")
	boards.Get("/objects", s.listObjects)
	boards.Post("/execute", s.execute)
	boards.Get("/runs", s.listRuns)
	boards.Get("/export.pdf", s.exportPDF)

	approvals := api.Group("/approvals")
	approvals.Get("", s.listApprovals)
	approvals.Post("/:approvalId/approve", s.resolveApproval(true))
	approvals.Post("/:approvalId/reject", s.resolveApproval(false))

	s.app.Get("/ws/boards/:id", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return c.Next()
	}, websocket.New(s.hub.HandleWebSocket, websocket.Config{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
	}))
}

// Listen serves until Shutdown is called.
func (s *Server) Listen(addr string) error {
	s.log.Info("[http] listening", zap.String("addr", addr))
	return s.app.Listen(addr)
}

func (s *Server) Shutdown(timeout time.Duration) error {
	return s.app.ShutdownWithTimeout(timeout)
}

// errorHandler renders fiber errors as {"error": "..."}.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}
