package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"whiteboard/internal/config"
	"whiteboard/internal/logging"
	"whiteboard/internal/server"
	"whiteboard/internal/service"
)

const shutdownTimeout = 10 * time.Second

// ServeHTTP runs the REST and websocket server, the run pruner and the
// optional tool-call inbox until SIGINT or SIGTERM.
func ServeHTTP(cfg config.Config) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log := logging.Must(cfg.Log.Level, cfg.Log.Dev)
	defer log.Sync()

	hub := server.NewHub(log)
	a, err := New(cfg, log, hub)
	if err != nil {
		return err
	}
	defer a.Close()

	pruner := service.NewPruner(a.runs, cfg.Runs.RetentionDays, log)
	if err := pruner.Start(ctx, cfg.Runs.PruneSchedule); err != nil {
		return err
	}

	var inbox *service.Inbox
	if cfg.InboxDir != "" {
		inbox = service.NewInbox(cfg.InboxDir, a.board, log)
		if err := inbox.Start(ctx); err != nil {
			pruner.Stop(ctx)
			return err
		}
	}

	srv := server.New(cfg.Server, a.board, a.approvals, hub, a.db, log)
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Listen(cfg.Server.Addr)
	}()

	select {
	case err = <-errCh:
	case <-ctx.Done():
		log.Info("[app] shutting down")
		if serr := srv.Shutdown(shutdownTimeout); serr != nil {
			log.Warn("[app] http shutdown", zap.Error(serr))
		}
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stopCancel()
	if inbox != nil {
		inbox.Stop(stopCtx)
	}
	pruner.Stop(stopCtx)
	return err
}
