package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// lokiFlushInterval bounds how long a record can sit buffered before
// LokiHandler pushes it on its own, even below batchSize, so a quiet
// mock server doesn't hold log lines in memory indefinitely.
const lokiFlushInterval = 5 * time.Second

// LokiHandler is a slog.Handler that batches records and pushes them
// to a Loki push-API endpoint. serve.go wires one in behind
// --loki-endpoint and fans it out alongside the primary text/JSON
// handler via MultiHandler.
type LokiHandler struct {
	endpoint string
	labels   map[string]string
	client   *http.Client
	level    slog.Level
	attrs    []slog.Attr
	groups   []string

	mu         sync.Mutex
	pending    []lokiEntry
	batchSize  int
	flushTimer *time.Timer
}

type lokiEntry struct {
	timestamp time.Time
	line      string
}

type lokiStream struct {
	Stream map[string]string `json:"stream"`
	Values [][]string        `json:"values"`
}

type lokiPushRequest struct {
	Streams []lokiStream `json:"streams"`
}

// LokiOption configures a LokiHandler built by NewLokiHandler.
type LokiOption func(*LokiHandler)

// WithLokiLabels merges additional stream labels over the default
// {"service": "pact"}; a default key it does not name keeps its
// default value.
func WithLokiLabels(labels map[string]string) LokiOption {
	return func(h *LokiHandler) {
		for k, v := range labels {
			h.labels[k] = v
		}
	}
}

// WithLokiLevel sets the minimum level the handler forwards to Loki,
// independent of the primary handler's level.
func WithLokiLevel(level slog.Level) LokiOption {
	return func(h *LokiHandler) { h.level = level }
}

// WithLokiBatchSize sets how many buffered records trigger an eager
// flush instead of waiting for the periodic timer.
func WithLokiBatchSize(size int) LokiOption {
	return func(h *LokiHandler) { h.batchSize = size }
}

// NewLokiHandler builds a handler that pushes to endpoint, a Loki
// push-API URL such as "http://localhost:3100/loki/api/v1/push".
func NewLokiHandler(endpoint string, opts ...LokiOption) *LokiHandler {
	h := &LokiHandler{
		endpoint:  endpoint,
		labels:    map[string]string{"service": "pact"},
		client:    &http.Client{Timeout: 5 * time.Second},
		level:     LevelInfo,
		batchSize: 100,
	}
	for _, opt := range opts {
		opt(h)
	}

	h.flushTimer = time.AfterFunc(lokiFlushInterval, h.tick)
	return h
}

func (h *LokiHandler) tick() {
	_ = h.Flush()
	h.flushTimer.Reset(lokiFlushInterval)
}

// Enabled implements slog.Handler.
func (h *LokiHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

// Handle implements slog.Handler. It buffers the record and kicks off
// an asynchronous flush once the batch reaches batchSize.
func (h *LokiHandler) Handle(_ context.Context, r slog.Record) error {
	line := h.encodeRecord(r)

	h.mu.Lock()
	h.pending = append(h.pending, lokiEntry{timestamp: r.Time, line: line})
	full := len(h.pending) >= h.batchSize
	h.mu.Unlock()

	if full {
		go func() { _ = h.Flush() }()
	}
	return nil
}

func (h *LokiHandler) encodeRecord(r slog.Record) string {
	fields := map[string]any{
		"level": r.Level.String(),
		"msg":   r.Message,
		"time":  r.Time.Format(time.RFC3339Nano),
	}
	for _, attr := range h.attrs {
		fields[attr.Key] = attr.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		fields[a.Key] = a.Value.Any()
		return true
	})

	encoded, _ := json.Marshal(fields)
	return string(encoded)
}

// WithAttrs implements slog.Handler.
func (h *LokiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &LokiHandler{
		endpoint:  h.endpoint,
		labels:    h.labels,
		client:    h.client,
		level:     h.level,
		attrs:     append(h.attrs[:len(h.attrs):len(h.attrs)], attrs...),
		groups:    h.groups,
		batchSize: h.batchSize,
	}
}

// WithGroup implements slog.Handler.
func (h *LokiHandler) WithGroup(name string) slog.Handler {
	return &LokiHandler{
		endpoint:  h.endpoint,
		labels:    h.labels,
		client:    h.client,
		level:     h.level,
		attrs:     h.attrs,
		groups:    append(h.groups[:len(h.groups):len(h.groups)], name),
		batchSize: h.batchSize,
	}
}

// Flush pushes every buffered record to Loki as a single stream. It
// is a no-op if nothing has been buffered since the last flush.
func (h *LokiHandler) Flush() error {
	h.mu.Lock()
	if len(h.pending) == 0 {
		h.mu.Unlock()
		return nil
	}
	batch := h.pending
	h.pending = nil
	h.mu.Unlock()

	values := make([][]string, len(batch))
	for i, entry := range batch {
		values[i] = []string{strconv.FormatInt(entry.timestamp.UnixNano(), 10), entry.line}
	}

	push := lokiPushRequest{Streams: []lokiStream{{Stream: h.labels, Values: values}}}
	body, err := json.Marshal(push)
	if err != nil {
		return fmt.Errorf("loki: marshal push request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, h.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("loki: build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("loki: push request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("loki: push returned status %d", resp.StatusCode)
	}
	return nil
}

// Close stops the background flush timer and flushes any records
// still buffered. serve.go calls this during graceful shutdown.
func (h *LokiHandler) Close() error {
	h.flushTimer.Stop()
	return h.Flush()
}
