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

const lokiFlushInterval = 5 * time.Second

// LokiHandler is a slog.Handler that pushes JSON log lines to Loki over HTTP.
// Records are batched and flushed when the batch is full, every five seconds,
// and on Close. Handlers derived through WithAttrs or WithGroup share the
// batch of the handler they came from.
type LokiHandler struct {
	sink   *lokiSink
	level  slog.Level
	scoped []scopedAttrs
	groups []string
}

// scopedAttrs remembers the groups that were open when attrs were added.
type scopedAttrs struct {
	groups []string
	attrs  []slog.Attr
}

// lokiSink owns the batch and the HTTP client shared by derived handlers.
type lokiSink struct {
	url        string
	labels     map[string]string
	client     *http.Client
	batchSize  int
	enabled    bool
	mu         sync.Mutex
	batch      []lokiEntry
	flushTimer *time.Timer
	failures   int
}

type lokiEntry struct {
	timestamp time.Time
	level     slog.Level
	line      string
}

type lokiPushRequest struct {
	Streams []lokiStream `json:"streams"`
}

type lokiStream struct {
	Stream map[string]string `json:"stream"`
	Values [][]string        `json:"values"`
}

// NewLokiHandler creates a new handler that sends logs to Loki.
// url: Loki base URL (e.g., "http://localhost:3100")
// labels: static labels attached to every stream; "level" is added per record
// batchSize: number of records to batch before sending (0 = send immediately)
func NewLokiHandler(url string, labels map[string]string, batchSize int, enabled bool, level slog.Level) *LokiHandler {
	sink := &lokiSink{
		url:       url + "/loki/api/v1/push",
		labels:    make(map[string]string, len(labels)),
		client:    &http.Client{Timeout: 5 * time.Second},
		batchSize: batchSize,
		enabled:   enabled,
		batch:     make([]lokiEntry, 0, batchSize),
	}
	for k, v := range labels {
		sink.labels[k] = v
	}

	if batchSize > 0 && enabled {
		sink.flushTimer = time.AfterFunc(lokiFlushInterval, sink.periodicFlush)
	}

	return &LokiHandler{sink: sink, level: level}
}

// Enabled reports whether the handler handles records at the given level.
func (h *LokiHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.sink.enabled && level >= h.level
}

// Handle encodes the record as one JSON line and queues it.
func (h *LokiHandler) Handle(_ context.Context, r slog.Record) error {
	if !h.sink.enabled {
		return nil
	}

	logData := map[string]any{
		"time":  r.Time.Format(time.RFC3339Nano),
		"level": r.Level.String(),
		"msg":   r.Message,
	}

	// Attributes of a group land in a nested object named after it.
	for _, sa := range h.scoped {
		target := nestedMap(logData, sa.groups)
		for _, a := range sa.attrs {
			addAttr(target, a)
		}
	}
	if r.NumAttrs() > 0 {
		target := nestedMap(logData, h.groups)
		r.Attrs(func(a slog.Attr) bool {
			addAttr(target, a)
			return true
		})
	}

	line, err := json.Marshal(logData)
	if err != nil {
		return fmt.Errorf("failed to marshal log to JSON: %w", err)
	}

	return h.sink.add(lokiEntry{timestamp: r.Time, level: r.Level, line: string(line)})
}

// WithAttrs returns a handler that adds attrs to every record.
func (h *LokiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	clone := *h
	clone.scoped = append(append([]scopedAttrs(nil), h.scoped...), scopedAttrs{
		groups: h.groups,
		attrs:  append([]slog.Attr(nil), attrs...),
	})
	return &clone
}

// WithGroup returns a handler that nests later attributes under name.
func (h *LokiHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = append(append([]string(nil), h.groups...), name)
	return &clone
}

// Failures returns the number of pushes Loki did not accept.
func (h *LokiHandler) Failures() int {
	h.sink.mu.Lock()
	defer h.sink.mu.Unlock()
	return h.sink.failures
}

// Close flushes any remaining logs and stops the periodic flush timer.
func (h *LokiHandler) Close() error {
	if h.sink.flushTimer != nil {
		h.sink.flushTimer.Stop()
	}
	return h.sink.flush()
}

func nestedMap(root map[string]any, groups []string) map[string]any {
	target := root
	for _, g := range groups {
		nested, ok := target[g].(map[string]any)
		if !ok {
			nested = make(map[string]any)
			target[g] = nested
		}
		target = nested
	}
	return target
}

func addAttr(dst map[string]any, a slog.Attr) {
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		nested := make(map[string]any)
		for _, ga := range v.Group() {
			addAttr(nested, ga)
		}
		if a.Key == "" {
			for k, val := range nested {
				dst[k] = val
			}
			return
		}
		dst[a.Key] = nested
		return
	}
	if err, ok := v.Any().(error); ok {
		dst[a.Key] = err.Error()
		return
	}
	dst[a.Key] = v.Any()
}

func (s *lokiSink) add(entry lokiEntry) error {
	s.mu.Lock()
	s.batch = append(s.batch, entry)
	full := s.batchSize <= 0 || len(s.batch) >= s.batchSize
	s.mu.Unlock()

	if full {
		return s.flush()
	}
	return nil
}

// flush sends the batched entries, one stream per level.
func (s *lokiSink) flush() error {
	s.mu.Lock()
	if len(s.batch) == 0 {
		s.mu.Unlock()
		return nil
	}
	entries := make([]lokiEntry, len(s.batch))
	copy(entries, s.batch)
	s.batch = s.batch[:0]
	s.mu.Unlock()

	streams := make([]lokiStream, 0, 1)
	index := make(map[slog.Level]int)
	for _, e := range entries {
		i, ok := index[e.level]
		if !ok {
			labels := make(map[string]string, len(s.labels)+1)
			for k, v := range s.labels {
				labels[k] = v
			}
			labels["level"] = e.level.String()
			streams = append(streams, lokiStream{Stream: labels})
			i = len(streams) - 1
			index[e.level] = i
		}
		// Loki expects [timestamp_in_nanoseconds, log_line]
		streams[i].Values = append(streams[i].Values, []string{
			strconv.FormatInt(e.timestamp.UnixNano(), 10),
			e.line,
		})
	}

	return s.push(lokiPushRequest{Streams: streams})
}

// push never fails the caller when Loki is unreachable; it counts the miss instead.
func (s *lokiSink) push(req lokiPushRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal push request: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.client.Timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		s.recordFailure()
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		s.recordFailure()
	}
	return nil
}

func (s *lokiSink) recordFailure() {
	s.mu.Lock()
	s.failures++
	s.mu.Unlock()
}

func (s *lokiSink) periodicFlush() {
	_ = s.flush()
	if s.flushTimer != nil {
		s.flushTimer.Reset(lokiFlushInterval)
	}
}
