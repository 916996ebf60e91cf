package app

import (
	"fmt"

	"go.uber.org/zap"

	"whiteboard/internal/config"
	"whiteboard/internal/executor"
	"whiteboard/internal/service"
	"whiteboard/internal/storage"
)

// App holds the storage and services shared by the HTTP and MCP entry
// points.
type App struct {
	cfg config.Config
	log *zap.Logger

	db        *storage.DB
	objects   *storage.ObjectStore
	runs      *storage.RunStore
	approvals *storage.ApprovalStore

	board *service.BoardService
}

// New opens the board store and builds the board service. Events go to
// emitter; nil drops them.
func New(cfg config.Config, log *zap.Logger, emitter service.EventEmitter) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if emitter == nil {
		emitter = service.NopEmitter{}
	}

	db, err := storage.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.Database.Driver, err)
	}

	a := &App{
		cfg:       cfg,
		log:       log,
		db:        db,
		objects:   storage.NewObjectStore(db),
		runs:      storage.NewRunStore(db),
		approvals: storage.NewApprovalStore(db),
	}
	a.board = service.NewBoardService(
		a.objects,
		service.NewRunLog(a.runs),
		executor.New(log.Named("executor")),
		emitter,
		log,
	)
	log.Info("[app] storage ready", zap.String("driver", db.Driver()))
	return a, nil
}

func (a *App) Board() *service.BoardService { return a.board }

// Close releases the database.
func (a *App) Close() {
	if err := a.db.Close(); err != nil {
		a.log.Warn("[app] close database", zap.Error(err))
	}
}
