// Package executor applies tool calls emitted by a language model to a
// whiteboard.
//
// One Execute call reads a snapshot of the board, runs every tool call in
// order against that snapshot plus the objects it has staged so far, and
// commits all new objects with a single CreateObjectsBatch. Updates and
// deletes of objects that already exist are sent to the board as they
// happen.
//
// Execute takes no locks. Two concurrent runs against the same board each
// place objects against their own snapshot and may pick overlapping spots;
// the board's own merge rules decide the outcome. Placement is best-effort,
// not a consistency guarantee.
package executor

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"

	"whiteboard/internal/domain"
)

// NoActionsSummary is returned when a batch produced nothing to report.
const NoActionsSummary = "No actions performed."

// Options carries caller context that some tools need.
type Options struct {
	// SelectionArea constrains arrange operations when no frame is given.
	SelectionArea *domain.Rect `json:"selectionArea,omitempty"`
	// Viewport centres auto-placed objects and sizes directional moves.
	Viewport *domain.Viewport `json:"viewport,omitempty"`
	// AnalysisDone skips analyzeObjects because the caller already ran it.
	AnalysisDone bool `json:"analysisDone,omitempty"`
	// Seed drives the random placement fallback and "random" colors.
	// Zero derives a seed from the board size.
	Seed int64 `json:"seed,omitempty"`
}

// Result reports what a batch did.
type Result struct {
	CreatedIDs  []string `json:"createdIds"`
	ModifiedIDs []string `json:"modifiedIds"`
	DeletedIDs  []string `json:"deletedIds,omitempty"`
	Summary     string   `json:"summary"`
}

// Executor runs tool-call batches. The zero value is not usable; call New.
type Executor struct {
	log   *zap.Logger
	newID domain.IDGenerator
	now   func() time.Time
}

// Option configures an Executor.
type Option func(*Executor)

// WithIDGenerator replaces the UUID generator, mainly for tests.
func WithIDGenerator(gen domain.IDGenerator) Option {
	return func(e *Executor) { e.newID = gen }
}

// WithClock replaces time.Now for createdAt stamps.
func WithClock(now func() time.Time) Option {
	return func(e *Executor) { e.now = now }
}

// New creates an Executor. A nil logger discards output.
func New(log *zap.Logger, opts ...Option) *Executor {
	if log == nil {
		log = zap.NewNop()
	}
	e := &Executor{log: log, newID: domain.NewID, now: time.Now}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Execute runs calls in order against board. Individual tool failures are
// reported in the summary; the only error returned is a failed final commit.
func (e *Executor) Execute(ctx context.Context, calls []domain.ToolCall, board domain.BoardOperations, opts Options) (Result, error) {
	b := newBatch(ctx, e, board, opts)

	for _, call := range calls {
		h, ok := handlers[call.Name]
		if !ok {
			b.note("Unknown tool %q skipped.", call.Name)
			e.log.Warn("[executor] unknown tool", zap.String("tool", call.Name), zap.String("call", call.ID))
			continue
		}
		e.log.Debug("[executor] tool call", zap.String("tool", call.Name), zap.String("call", call.ID))
		h(b, args(call.Arguments))
	}

	res := Result{
		CreatedIDs:  []string{},
		ModifiedIDs: b.modified,
		DeletedIDs:  b.deleted,
	}
	if len(b.staged) > 0 {
		if err := board.CreateObjectsBatch(ctx, b.staged); err != nil {
			res.Summary = b.summary()
			e.log.Error("[executor] batch commit failed", zap.Int("objects", len(b.staged)), zap.Error(err))
			return res, fmt.Errorf("commit %d objects: %w", len(b.staged), err)
		}
		res.CreatedIDs = make([]string, len(b.staged))
		for i, o := range b.staged {
			res.CreatedIDs[i] = o.ID
		}
	}
	res.Summary = b.summary()

	e.log.Info("[executor] batch done",
		zap.Int("calls", len(calls)),
		zap.Int("created", len(res.CreatedIDs)),
		zap.Int("modified", len(res.ModifiedIDs)),
		zap.Int("deleted", len(res.DeletedIDs)),
	)
	return res, nil
}

// Execute runs calls with a default Executor.
func Execute(ctx context.Context, calls []domain.ToolCall, board domain.BoardOperations, opts Options) (Result, error) {
	return New(nil).Execute(ctx, calls, board, opts)
}

func seedFor(opts Options, objects int) *rand.Rand {
	seed := opts.Seed
	if seed == 0 {
		seed = int64(objects) + 1
	}
	return rand.New(rand.NewSource(seed))
}

func (b *batch) summary() string {
	if len(b.notes) == 0 {
		return NoActionsSummary
	}
	return strings.Join(b.notes, " ")
}
