package sinks

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"

	"github.com/raytag/endpoint/logging"
)

// JSON emits newline-delimited structured events for capture to a file
// (see OpenJSONFile) for postmortem reading rather than a live console.
type JSON struct {
	mu        sync.Mutex
	writer    *bufio.Writer
	encoder   *json.Encoder
	autoFlush bool
	maxBatch  int
	pending   int
}

// NewJSON constructs a JSON sink writing to the provided io.Writer,
// honoring cfg.MaxBatch (flush after N buffered events even if the
// flush-interval timer hasn't fired yet, bounding how many events a
// crash can lose) and cfg.FlushInterval (time-based flush).
func NewJSON(w io.Writer, cfg logging.JSONConfig) *JSON {
	if w == nil {
		w = io.Discard
	}
	buf := bufio.NewWriter(w)
	sink := &JSON{
		writer:    buf,
		encoder:   json.NewEncoder(buf),
		autoFlush: cfg.FlushInterval <= 0,
		maxBatch:  cfg.MaxBatch,
	}
	if cfg.FlushInterval > 0 {
		go sink.periodicFlush(cfg.FlushInterval)
	}
	return sink
}

// OpenJSONFile opens cfg.FilePath for append and wraps it in a JSON
// sink, for the on-device capture-to-flash use case; callers close the
// returned file once the sink's own Close has flushed it.
func OpenJSONFile(cfg logging.JSONConfig) (*JSON, *os.File, error) {
	f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return NewJSON(f, cfg), f, nil
}

// Write satisfies logging.Sink.
func (s *JSON) Write(event logging.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	wire := map[string]any{
		"type":      event.Type,
		"tick":      event.Tick,
		"time":      event.Time.Format(time.RFC3339Nano),
		"severity":  event.Severity,
		"category":  event.Category,
		"actor":     event.Actor,
		"targets":   event.Targets,
		"payload":   event.Payload,
		"extra":     event.Extra,
		"traceId":   event.TraceID,
		"commandId": event.CommandID,
	}
	if err := s.encoder.Encode(wire); err != nil {
		return err
	}
	s.pending++
	if s.autoFlush || (s.maxBatch > 0 && s.pending >= s.maxBatch) {
		s.pending = 0
		return s.writer.Flush()
	}
	return nil
}

// Close flushes buffers.
func (s *JSON) Close(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = 0
	return s.writer.Flush()
}

func (s *JSON) periodicFlush(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		s.mu.Lock()
		s.writer.Flush()
		s.pending = 0
		s.mu.Unlock()
	}
}
