package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"whiteboard/internal/config"
	"whiteboard/internal/executor"
	"whiteboard/internal/service"
	"whiteboard/internal/storage"
)

type testEnv struct {
	srv       *Server
	approvals *storage.ApprovalStore
	hub       *Hub
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	db, err := storage.Open(storage.DriverSQLite, filepath.Join(t.TempDir(), "http.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	hub := NewHub(nil)
	board := service.NewBoardService(
		storage.NewObjectStore(db),
		service.NewRunLog(storage.NewRunStore(db)),
		executor.New(nil),
		hub,
		nil,
	)
	approvals := storage.NewApprovalStore(db)
	srv := New(config.ServerConfig{}, board, approvals, hub, db, nil)
	return testEnv{srv: srv, approvals: approvals, hub: hub}
}

func do(t *testing.T, s *Server, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.App().Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	data, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	return resp, data
}

// ─────────────────────────────────────────────────────────────
// Routes
// ─────────────────────────────────────────────────────────────

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	resp, body := do(t, env.srv, http.MethodGet, "/health", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d: %s", resp.StatusCode, body)
	}
	if !strings.Contains(string(body), `"ok"`) {
		t.Errorf("body = %s", body)
	}
}

func TestListTools(t *testing.T) {
	env := newTestEnv(t)
	resp, body := do(t, env.srv, http.MethodGet, "/api/tools", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	var tools []map[string]any
	if err := json.Unmarshal(body, &tools); err != nil {
		t.Fatal(err)
	}
	if len(tools) != len(executor.Catalog()) {
		t.Errorf("got %d tools", len(tools))
	}
	if _, ok := tools[0]["schema"]; !ok {
		t.Errorf("tool has no schema: %v", tools[0])
	}
}

func TestExecuteThenListObjectsAndRuns(t *testing.T) {
	env := newTestEnv(t)

	body := `{"userId":"alice","toolCalls":[
		{"id":"1","name":"createStickyNote","arguments":{"text":"Idea"}},
		{"id":"2","type":"function","function":{"name":"createShape","arguments":"{\"shapeType\":\"rect\"}"}}
	],"viewport":{"position":{"x":0,"y":0},"scale":1,"width":1200,"height":800}}`
	resp, data := do(t, env.srv, http.MethodPost, "/api/boards/b1/execute", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("execute status %d: %s", resp.StatusCode, data)
	}
	var res executor.Result
	if err := json.Unmarshal(data, &res); err != nil {
		t.Fatal(err)
	}
	if len(res.CreatedIDs) != 2 {
		t.Fatalf("created = %v (summary %q)", res.CreatedIDs, res.Summary)
	}

	resp, data = do(t, env.srv, http.MethodGet, "/api/boards/b1/objects", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("objects status %d", resp.StatusCode)
	}
	var listed struct {
		Objects []map[string]any `json:"objects"`
	}
	if err := json.Unmarshal(data, &listed); err != nil {
		t.Fatal(err)
	}
	if len(listed.Objects) != 2 || listed.Objects[0]["createdBy"] != "alice" {
		t.Errorf("objects = %v", listed.Objects)
	}

	_, data = do(t, env.srv, http.MethodGet, "/api/boards/b1/runs?limit=5", "")
	var runs []storage.Run
	if err := json.Unmarshal(data, &runs); err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].Source != "http" {
		t.Errorf("runs = %+v", runs)
	}
}

func TestExecute_BadRequests(t *testing.T) {
	env := newTestEnv(t)
	tests := []struct {
		name string
		body string
	}{
		{"malformed", `{"toolCalls":`},
		{"no calls", `{"toolCalls":[]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := do(t, env.srv, http.MethodPost, "/api/boards/b1/execute", tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
		})
	}
}

func TestExportPDF(t *testing.T) {
	env := newTestEnv(t)
	do(t, env.srv, http.MethodPost, "/api/boards/b1/execute", `{"toolCalls":[{"name":"createFrame","arguments":{"title":"Plan"}}]}`)

	resp, data := do(t, env.srv, http.MethodGet, "/api/boards/b1/export.pdf", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("content type = %q", ct)
	}
	if !strings.HasPrefix(string(data), "%PDF-") {
		t.Error("body is not a PDF")
	}
}

func TestApprovals(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	if err := env.approvals.Insert(ctx, storage.Approval{ID: "ap1", Tool: "deleteObject", Description: "delete 2"}); err != nil {
		t.Fatal(err)
	}

	_, data := do(t, env.srv, http.MethodGet, "/api/approvals", "")
	if !strings.Contains(string(data), "ap1") {
		t.Errorf("pending list = %s", data)
	}

	resp, _ := do(t, env.srv, http.MethodPost, "/api/approvals/ap1/reject", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("reject status %d", resp.StatusCode)
	}
	if st, _ := env.approvals.Status(ctx, "ap1"); st != storage.ApprovalRejected {
		t.Errorf("status = %q", st)
	}

	resp, _ = do(t, env.srv, http.MethodPost, "/api/approvals/ap1/approve", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("resolving twice: status %d, want 404", resp.StatusCode)
	}
}

func TestWebSocketRouteRequiresUpgrade(t *testing.T) {
	env := newTestEnv(t)
	resp, _ := do(t, env.srv, http.MethodGet, "/ws/boards/b1", "")
	if resp.StatusCode != http.StatusUpgradeRequired {
		t.Errorf("status = %d, want 426", resp.StatusCode)
	}
}

// ─────────────────────────────────────────────────────────────
// Hub
// ─────────────────────────────────────────────────────────────

func TestHub_EmitWithoutSubscribers(t *testing.T) {
	h := NewHub(nil)
	h.Emit(context.Background(), service.EventObjectsChanged, service.ObjectsChanged{BoardID: "b1", Kind: service.ChangeCreated})
	h.Emit(context.Background(), "other", map[string]string{"a": "b"})
	if h.Subscribers("b1") != 0 {
		t.Error("expected no subscribers")
	}
}
