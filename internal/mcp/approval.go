package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"whiteboard/internal/service"
	"whiteboard/internal/storage"
)

// Approval events sent through the emitter in channel mode.
const (
	EventApprovalRequired  = "mcp:approval-required"
	EventApprovalDismissed = "mcp:approval-dismissed"
)

// ErrRejected is returned when a human declines an action.
var ErrRejected = errors.New("action rejected by user")

// PendingAction is a destructive operation awaiting user approval.
type PendingAction struct {
	ID          string `json:"id"`
	Tool        string `json:"tool"`
	Description string `json:"description"`
	CreatedAt   string `json:"createdAt"`
	Metadata    string `json:"metadata"` // JSON, e.g. the object IDs to highlight
}

// ApprovalQueue gates destructive tool calls behind a human decision.
// It has two modes:
//   - channel: an in-process UI calls Approve/Reject after an emitted event
//   - store: the request is written to mcp_approvals and polled, so the HTTP
//     server in another process can resolve it
type ApprovalQueue struct {
	mu      sync.Mutex
	pending map[string]chan bool
	emitter service.EventEmitter
	timeout time.Duration
	log     *zap.Logger

	store     *storage.ApprovalStore
	pollEvery time.Duration
}

func NewApprovalQueue(emitter service.EventEmitter, timeout time.Duration, log *zap.Logger) *ApprovalQueue {
	if emitter == nil {
		emitter = service.NopEmitter{}
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ApprovalQueue{
		pending:   make(map[string]chan bool),
		emitter:   emitter,
		timeout:   timeout,
		log:       log,
		pollEvery: 500 * time.Millisecond,
	}
}

// SetStore switches to store mode.
func (q *ApprovalQueue) SetStore(store *storage.ApprovalStore) {
	q.store = store
}

// Request blocks until the action is approved, rejected, timed out or ctx
// ends. Only an approval returns nil.
func (q *ApprovalQueue) Request(ctx context.Context, tool, description, metadata string) error {
	id := uuid.NewString()
	if metadata == "" {
		metadata = "{}"
	}
	q.log.Info("[approval] requested", zap.String("id", id), zap.String("tool", tool), zap.String("description", description))

	var err error
	if q.store != nil {
		err = q.requestViaStore(ctx, id, tool, description, metadata)
	} else {
		err = q.requestViaChannel(ctx, id, tool, description, metadata)
	}
	if err != nil {
		q.log.Info("[approval] not granted", zap.String("id", id), zap.Error(err))
	}
	return err
}

func (q *ApprovalQueue) requestViaStore(ctx context.Context, id, tool, description, metadata string) error {
	err := q.store.Insert(ctx, storage.Approval{ID: id, Tool: tool, Description: description, Metadata: metadata})
	if err != nil {
		return err
	}
	// the row is only useful while someone is waiting on it
	defer q.store.Delete(context.WithoutCancel(ctx), id)

	deadline := time.NewTimer(q.timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(q.pollEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			status, err := q.store.Status(ctx, id)
			if err != nil {
				continue
			}
			switch status {
			case storage.ApprovalApproved:
				return nil
			case storage.ApprovalRejected:
				return fmt.Errorf("%w: %s", ErrRejected, tool)
			}
		case <-deadline.C:
			return fmt.Errorf("action timed out after %s: %s", q.timeout, tool)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (q *ApprovalQueue) requestViaChannel(ctx context.Context, id, tool, description, metadata string) error {
	ch := make(chan bool, 1)
	q.mu.Lock()
	q.pending[id] = ch
	q.mu.Unlock()
	defer q.cleanup(id)

	q.emitter.Emit(ctx, EventApprovalRequired, PendingAction{
		ID:          id,
		Tool:        tool,
		Description: description,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
		Metadata:    metadata,
	})

	select {
	case approved := <-ch:
		if !approved {
			return fmt.Errorf("%w: %s", ErrRejected, tool)
		}
		return nil
	case <-time.After(q.timeout):
		q.emitter.Emit(ctx, EventApprovalDismissed, map[string]string{"id": id})
		return fmt.Errorf("action timed out after %s: %s", q.timeout, tool)
	case <-ctx.Done():
		q.emitter.Emit(ctx, EventApprovalDismissed, map[string]string{"id": id})
		return ctx.Err()
	}
}

// Approve resolves a pending channel-mode action. It reports whether the
// ID was waiting.
func (q *ApprovalQueue) Approve(actionID string) bool {
	return q.resolve(actionID, true)
}

// Reject is Approve's counterpart.
func (q *ApprovalQueue) Reject(actionID string) bool {
	return q.resolve(actionID, false)
}

func (q *ApprovalQueue) resolve(actionID string, approved bool) bool {
	q.mu.Lock()
	ch, ok := q.pending[actionID]
	q.mu.Unlock()
	if !ok {
		return false
	}
	select {
	case ch <- approved:
	default:
	}
	return true
}

func (q *ApprovalQueue) cleanup(id string) {
	q.mu.Lock()
	delete(q.pending, id)
	q.mu.Unlock()
}
