package server

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"

	"whiteboard/internal/service"
)

// Message is the envelope pushed to websocket subscribers.
type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex // one writer at a time per connection
}

func (s *subscriber) send(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub fans board events out to the websocket connections watching each
// board. It implements service.EventEmitter.
type Hub struct {
	mu     sync.RWMutex
	boards map[string]map[*subscriber]struct{}
	log    *zap.Logger
}

var _ service.EventEmitter = (*Hub)(nil)

func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{boards: make(map[string]map[*subscriber]struct{}), log: log}
}

// Emit routes events that carry a board ID to that board's subscribers.
// Other events go to everyone.
func (h *Hub) Emit(_ context.Context, event string, data any) {
	msg, err := json.Marshal(Message{Type: event, Payload: data})
	if err != nil {
		h.log.Warn("[hub] encode event", zap.String("event", event), zap.Error(err))
		return
	}

	var targets []*subscriber
	h.mu.RLock()
	if ev, ok := data.(service.BoardEvent); ok {
		for s := range h.boards[ev.Board()] {
			targets = append(targets, s)
		}
	} else {
		for _, subs := range h.boards {
			for s := range subs {
				targets = append(targets, s)
			}
		}
	}
	h.mu.RUnlock()

	for _, s := range targets {
		if err := s.send(msg); err != nil {
			h.log.Debug("[hub] send failed", zap.String("event", event), zap.Error(err))
		}
	}
}

// Subscribers reports how many connections watch a board.
func (h *Hub) Subscribers(boardID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.boards[boardID])
}

func (h *Hub) add(boardID string, s *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.boards[boardID] == nil {
		h.boards[boardID] = make(map[*subscriber]struct{})
	}
	h.boards[boardID][s] = struct{}{}
}

func (h *Hub) remove(boardID string, s *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.boards[boardID], s)
	if len(h.boards[boardID]) == 0 {
		delete(h.boards, boardID)
	}
}

// HandleWebSocket keeps a board subscription open until the client leaves.
// Clients may send {"type":"ping"} and get a pong back.
func (h *Hub) HandleWebSocket(c *websocket.Conn) {
	boardID := c.Params("id")
	s := &subscriber{conn: c}
	h.add(boardID, s)
	h.log.Info("[hub] subscribed", zap.String("board", boardID))

	defer func() {
		h.remove(boardID, s)
		c.Close()
		h.log.Info("[hub] unsubscribed", zap.String("board", boardID))
	}()

	for {
		_, data, err := c.ReadMessage()
		if err != nil {
			return
		}
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		if msg.Type == "ping" {
			pong, _ := json.Marshal(Message{Type: "pong"})
			if err := s.send(pong); err != nil {
				return
			}
		}
	}
}
