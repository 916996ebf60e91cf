package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"whiteboard/internal/domain"
	"whiteboard/internal/executor"
	"whiteboard/internal/storage"
)

// DefaultUserID is stamped on objects when the caller gives no user.
const DefaultUserID = "assistant"

// ─────────────────────────────────────────────────────────────
// Event payloads
// ─────────────────────────────────────────────────────────────

// BoardEvent is implemented by every payload the service emits, so a
// transport can route it to the board's subscribers.
type BoardEvent interface {
	Board() string
}

// Change kinds carried by ObjectsChanged.
const (
	ChangeCreated = "created"
	ChangeUpdated = "updated"
	ChangeDeleted = "deleted"
	ChangeCleared = "cleared"
)

type ObjectsChanged struct {
	BoardID string          `json:"boardId"`
	UserID  string          `json:"userId"`
	Kind    string          `json:"kind"`
	Objects []domain.Object `json:"objects,omitempty"`
	IDs     []string        `json:"ids,omitempty"`
}

func (e ObjectsChanged) Board() string { return e.BoardID }

type RunCompleted struct {
	BoardID string          `json:"boardId"`
	Run     storage.Run     `json:"run"`
	Result  executor.Result `json:"result"`
}

func (e RunCompleted) Board() string { return e.BoardID }

// ─────────────────────────────────────────────────────────────
// BoardService
// ─────────────────────────────────────────────────────────────

// BoardService runs tool-call batches against stored boards.
type BoardService struct {
	objects *storage.ObjectStore
	runs    *RunLog
	exec    *executor.Executor
	emitter EventEmitter
	log     *zap.Logger
}

func NewBoardService(objects *storage.ObjectStore, runs *RunLog, exec *executor.Executor, emitter EventEmitter, log *zap.Logger) *BoardService {
	if emitter == nil {
		emitter = NopEmitter{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	if exec == nil {
		exec = executor.New(log)
	}
	return &BoardService{objects: objects, runs: runs, exec: exec, emitter: emitter, log: log}
}

// ExecuteRequest is one batch of tool calls for a board. The executor
// options are inlined so selectionArea and viewport sit beside toolCalls
// in JSON.
type ExecuteRequest struct {
	BoardID   string            `json:"boardId"`
	UserID    string            `json:"userId"`
	Source    string            `json:"source,omitempty"`
	ToolCalls []domain.ToolCall `json:"toolCalls"`
	executor.Options
}

// Open loads a snapshot of the board and returns a session that writes
// through to the store.
func (s *BoardService) Open(ctx context.Context, boardID, userID string) (*BoardSession, error) {
	if boardID == "" {
		return nil, errors.New("board id is required")
	}
	if userID == "" {
		userID = DefaultUserID
	}
	if err := s.objects.EnsureBoard(ctx, boardID, ""); err != nil {
		return nil, err
	}
	snap, err := s.objects.List(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("load board %s: %w", boardID, err)
	}
	return &BoardSession{svc: s, boardID: boardID, userID: userID, snapshot: snap}, nil
}

// Objects returns the current objects on a board.
func (s *BoardService) Objects(ctx context.Context, boardID string) ([]domain.Object, error) {
	return s.objects.List(ctx, boardID)
}

func (s *BoardService) Boards(ctx context.Context) ([]storage.Board, error) {
	return s.objects.ListBoards(ctx)
}

func (s *BoardService) Runs() *RunLog {
	return s.runs
}

// Execute runs req against a fresh snapshot, records the run and
// announces it. The returned error is the executor's commit error.
func (s *BoardService) Execute(ctx context.Context, req ExecuteRequest) (executor.Result, error) {
	sess, err := s.Open(ctx, req.BoardID, req.UserID)
	if err != nil {
		return executor.Result{}, err
	}

	res, execErr := s.exec.Execute(ctx, req.ToolCalls, sess, req.Options)

	run := storage.Run{
		BoardID:       sess.boardID,
		UserID:        sess.userID,
		Source:        req.Source,
		Summary:       res.Summary,
		CreatedCount:  len(res.CreatedIDs),
		ModifiedCount: len(res.ModifiedIDs),
		DeletedCount:  len(res.DeletedIDs),
	}
	if execErr != nil {
		run.Error = execErr.Error()
	}
	if data, err := json.Marshal(req.ToolCalls); err == nil {
		run.CallsJSON = string(data)
	}
	if s.runs != nil {
		if err := s.runs.Record(ctx, &run); err != nil {
			s.log.Warn("[board] record run failed", zap.String("board", sess.boardID), zap.Error(err))
		}
	}
	s.emitter.Emit(ctx, EventRunCompleted, RunCompleted{BoardID: sess.boardID, Run: run, Result: res})

	s.log.Info("[board] executed",
		zap.String("board", sess.boardID),
		zap.String("source", req.Source),
		zap.Int("calls", len(req.ToolCalls)),
		zap.String("summary", res.Summary),
	)
	return res, execErr
}

// ─────────────────────────────────────────────────────────────
// BoardSession: domain.BoardOperations over the store
// ─────────────────────────────────────────────────────────────

// BoardSession is the sink one executor run writes to.
type BoardSession struct {
	svc      *BoardService
	boardID  string
	userID   string
	snapshot []domain.Object
}

var (
	_ domain.BoardOperations = (*BoardSession)(nil)
	_ domain.Clearer         = (*BoardSession)(nil)
)

func (b *BoardSession) BoardID() string { return b.boardID }

// Objects returns the snapshot taken when the session was opened.
func (b *BoardSession) Objects() []domain.Object {
	out := make([]domain.Object, len(b.snapshot))
	for i, o := range b.snapshot {
		out[i] = o.Clone()
	}
	return out
}

func (b *BoardSession) UserID() string { return b.userID }

func (b *BoardSession) CreateObject(ctx context.Context, obj domain.Object) error {
	return b.CreateObjectsBatch(ctx, []domain.Object{obj})
}

func (b *BoardSession) CreateObjectsBatch(ctx context.Context, objs []domain.Object) error {
	if err := b.svc.objects.CreateObjects(ctx, b.boardID, objs); err != nil {
		return err
	}
	b.emit(ctx, ObjectsChanged{Kind: ChangeCreated, Objects: objs})
	return nil
}

func (b *BoardSession) UpdateObject(ctx context.Context, id string, patch domain.ObjectPatch) error {
	o, err := b.svc.objects.UpdateObject(ctx, b.boardID, id, patch)
	if err != nil {
		return err
	}
	b.emit(ctx, ObjectsChanged{Kind: ChangeUpdated, Objects: []domain.Object{o}})
	return nil
}

func (b *BoardSession) DeleteObjects(ctx context.Context, ids []string) error {
	n, err := b.svc.objects.DeleteObjects(ctx, b.boardID, ids)
	if err != nil {
		return err
	}
	if n > 0 {
		b.emit(ctx, ObjectsChanged{Kind: ChangeDeleted, IDs: ids})
	}
	return nil
}

func (b *BoardSession) ClearObjects(ctx context.Context) error {
	n, err := b.svc.objects.ClearBoard(ctx, b.boardID)
	if err != nil {
		return err
	}
	b.svc.log.Info("[board] cleared", zap.String("board", b.boardID), zap.Int64("objects", n))
	b.emit(ctx, ObjectsChanged{Kind: ChangeCleared})
	return nil
}

func (b *BoardSession) emit(ctx context.Context, ev ObjectsChanged) {
	ev.BoardID = b.boardID
	ev.UserID = b.userID
	b.svc.emitter.Emit(ctx, EventObjectsChanged, ev)
}
