package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"whiteboard/internal/config"
	"whiteboard/internal/logging"
	mcpserver "whiteboard/internal/mcp"
	"whiteboard/internal/service"
)

// ServeMCP runs a standalone MCP server on stdin/stdout. Destructive tools
// wait on approval rows that the HTTP server resolves.
func ServeMCP(cfg config.Config) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// stdout carries the protocol; logs go to stderr
	log := logging.Must(cfg.Log.Level, cfg.Log.Dev)
	defer log.Sync()

	a, err := New(cfg, log, service.NopEmitter{})
	if err != nil {
		return err
	}
	defer a.Close()

	srv := mcpserver.New(mcpserver.Deps{
		Board:           a.board,
		Approvals:       a.approvals,
		ApprovalTimeout: cfg.MCP.ApprovalTimeout,
		DefaultBoard:    cfg.MCP.DefaultBoard,
		UserID:          cfg.MCP.UserID,
		Log:             log.Named("mcp"),
	})
	return srv.ServeStdio(ctx)
}
