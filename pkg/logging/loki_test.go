package logging

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

func TestLokiHandler_FlushesBatchedEntries(t *testing.T) {
	var mu sync.Mutex
	var pushes []map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode push body: %v", err)
		}
		mu.Lock()
		pushes = append(pushes, body)
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	handler := NewLokiHandler(srv.URL,
		WithLokiLabels(map[string]string{"service": "pact"}),
		WithLokiLevel(LevelInfo),
		WithLokiBatchSize(100),
	)
	defer func() { _ = handler.Close() }()

	logger := slog.New(handler)
	logger.Info("mock server started", "port", 4290)

	if err := handler.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(pushes) == 0 {
		t.Fatal("expected at least one push to the Loki endpoint")
	}
	streams, ok := pushes[0]["streams"].([]any)
	if !ok || len(streams) != 1 {
		t.Fatalf("expected one stream, got %#v", pushes[0]["streams"])
	}
	stream := streams[0].(map[string]any)
	labels := stream["stream"].(map[string]any)
	if labels["service"] != "pact" {
		t.Errorf("expected service=pact label, got %#v", labels)
	}
}

func TestMultiHandler_WritesToAllHandlers(t *testing.T) {
	var aBuf, bBuf logCollector
	multi := NewMultiHandler(&aBuf, &bBuf)
	logger := slog.New(multi)

	logger.Info("hello", "k", "v")

	if len(aBuf.records) != 1 || len(bBuf.records) != 1 {
		t.Fatalf("expected both handlers to receive the record, got %d and %d", len(aBuf.records), len(bBuf.records))
	}
}

// logCollector is a minimal slog.Handler that remembers every record
// it was handed, used to confirm MultiHandler fans out to all of them.
type logCollector struct {
	records []slog.Record
}

func (c *logCollector) Enabled(context.Context, slog.Level) bool { return true }

func (c *logCollector) Handle(_ context.Context, r slog.Record) error {
	c.records = append(c.records, r)
	return nil
}

func (c *logCollector) WithAttrs(_ []slog.Attr) slog.Handler { return c }
func (c *logCollector) WithGroup(_ string) slog.Handler      { return c }
