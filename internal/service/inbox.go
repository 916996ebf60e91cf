package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Inbox file suffixes. A processed file keeps its name with one of these
// appended, so the directory doubles as an audit trail.
const (
	InboxDoneSuffix   = ".done"
	InboxFailedSuffix = ".failed"
)

const inboxDebounce = 500 * time.Millisecond

// Inbox executes tool-call batches dropped as *.json files into a directory.
// Each file holds one ExecuteRequest.
type Inbox struct {
	dir   string
	board *BoardService
	log   *zap.Logger

	busy    inflight
	mu      sync.Mutex
	timers  map[string]*time.Timer
	watcher *fsnotify.Watcher
	cancel  context.CancelFunc
	done    chan struct{} // closed when loop returns
}

func NewInbox(dir string, board *BoardService, log *zap.Logger) *Inbox {
	if log == nil {
		log = zap.NewNop()
	}
	return &Inbox{dir: dir, board: board, log: log, timers: make(map[string]*time.Timer)}
}

// Start processes files already waiting, then watches for new ones until
// Stop or ctx ends.
func (in *Inbox) Start(ctx context.Context) error {
	if err := os.MkdirAll(in.dir, 0755); err != nil {
		return fmt.Errorf("create inbox dir: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(in.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", in.dir, err)
	}
	in.watcher = watcher

	ctx, cancel := context.WithCancel(ctx)
	in.cancel = cancel

	pending, _ := filepath.Glob(filepath.Join(in.dir, "*.json"))
	for _, path := range pending {
		in.Process(ctx, path)
	}

	in.done = make(chan struct{})
	go in.loop(ctx, watcher, in.done)
	in.log.Info("[inbox] watching", zap.String("dir", in.dir), zap.Int("backlog", len(pending)))
	return nil
}

func (in *Inbox) loop(ctx context.Context, watcher *fsnotify.Watcher, done chan<- struct{}) {
	defer close(done)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !strings.HasSuffix(event.Name, ".json") {
				continue
			}
			in.schedule(ctx, event.Name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			in.log.Warn("[inbox] watcher error", zap.Error(err))
		}
	}
}

// schedule waits for writes to a file to settle before processing it.
func (in *Inbox) schedule(ctx context.Context, path string) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if t, ok := in.timers[path]; ok {
		t.Stop()
	}
	in.timers[path] = time.AfterFunc(inboxDebounce, func() {
		in.mu.Lock()
		delete(in.timers, path)
		in.mu.Unlock()
		in.Process(ctx, path)
	})
}

// Process executes one inbox file and renames it to .done or .failed.
// It reports whether the batch succeeded.
func (in *Inbox) Process(ctx context.Context, path string) bool {
	if !in.busy.TryAcquire(path) {
		return false
	}
	defer in.busy.Release(path)

	data, err := os.ReadFile(path)
	if err != nil {
		// already moved by an earlier event
		if os.IsNotExist(err) {
			return false
		}
		in.log.Warn("[inbox] read failed", zap.String("file", path), zap.Error(err))
		return false
	}

	var req ExecuteRequest
	if err := json.Unmarshal(data, &req); err != nil {
		in.finish(path, InboxFailedSuffix, fmt.Errorf("decode: %w", err))
		return false
	}
	req.Source = "inbox"
	res, err := in.board.Execute(ctx, req)
	if err != nil {
		in.finish(path, InboxFailedSuffix, err)
		return false
	}
	in.log.Info("[inbox] processed",
		zap.String("file", filepath.Base(path)),
		zap.String("board", req.BoardID),
		zap.String("summary", res.Summary),
	)
	in.finish(path, InboxDoneSuffix, nil)
	return true
}

func (in *Inbox) finish(path, suffix string, cause error) {
	if cause != nil {
		in.log.Warn("[inbox] batch failed", zap.String("file", filepath.Base(path)), zap.Error(cause))
	}
	if err := os.Rename(path, path+suffix); err != nil {
		in.log.Error("[inbox] rename failed", zap.String("file", path), zap.Error(err))
	}
}

// Stop ends the watch and waits for in-flight files.
func (in *Inbox) Stop(ctx context.Context) {
	if in.cancel != nil {
		in.cancel()
	}
	if in.watcher != nil {
		in.watcher.Close()
		select {
		case <-in.done:
		case <-ctx.Done():
		}
		in.watcher = nil
	}
	in.mu.Lock()
	for path, t := range in.timers {
		t.Stop()
		delete(in.timers, path)
	}
	in.mu.Unlock()
	in.busy.Wait(ctx)
}
