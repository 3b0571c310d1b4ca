package logging

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"os"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	pgBatchSize     = 50
	pgFlushInterval = 5 * time.Second
)

// PGHandler is an slog.Handler that batches ERROR+ records into system_logs.
// Handlers derived with WithAttrs share the parent's buffer.
type PGHandler struct {
	sink  *pgSink
	attrs []slog.Attr
}

type pgSink struct {
	db     *gorm.DB
	mu     sync.Mutex
	buffer []models.SystemLog
	ticker *time.Ticker
	done   chan struct{}
}

func NewPGHandler(db *gorm.DB) *PGHandler {
	sink := &pgSink{
		db:     db,
		buffer: make([]models.SystemLog, 0, pgBatchSize),
		ticker: time.NewTicker(pgFlushInterval),
		done:   make(chan struct{}),
	}
	go sink.loop()
	return &PGHandler{sink: sink}
}

func (s *pgSink) loop() {
	for {
		select {
		case <-s.ticker.C:
			s.flush()
		case <-s.done:
			s.flush()
			return
		}
	}
}

func (s *pgSink) add(entry models.SystemLog) {
	s.mu.Lock()
	s.buffer = append(s.buffer, entry)
	full := len(s.buffer) >= pgBatchSize
	s.mu.Unlock()

	if full {
		go s.flush()
	}
}

func (s *pgSink) flush() {
	s.mu.Lock()
	if len(s.buffer) == 0 {
		s.mu.Unlock()
		return
	}
	batch := s.buffer
	s.buffer = make([]models.SystemLog, 0, pgBatchSize)
	s.mu.Unlock()

	if err := s.db.CreateInBatches(batch, pgBatchSize).Error; err != nil {
		// The default logger may route back here, so write to stderr only.
		slog.New(NewHandler(os.Stderr, "")).Error("failed to flush system logs", "error", err, "count", len(batch))
	}
}

// Stop flushes pending records and ends the flush loop.
func (h *PGHandler) Stop() {
	h.sink.ticker.Stop()
	close(h.sink.done)
}

func (h *PGHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelError
}

func (h *PGHandler) Handle(_ context.Context, record slog.Record) error {
	h.sink.add(systemLogFrom(record, h.attrs))
	return nil
}

func (h *PGHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &PGHandler{sink: h.sink, attrs: merged}
}

// WithGroup is a no-op; system_logs has no nesting.
func (h *PGHandler) WithGroup(string) slog.Handler {
	return h
}

// systemLogFrom maps well-known attributes onto columns and keeps the rest
// in Extra.
func systemLogFrom(record slog.Record, attrs []slog.Attr) models.SystemLog {
	entry := models.SystemLog{
		ID:        uuid.New(),
		Timestamp: record.Time,
		Level:     record.Level.String(),
		Message:   record.Message,
	}

	extra := make(map[string]interface{})
	apply := func(a slog.Attr) bool {
		switch a.Key {
		case "request_id":
			entry.RequestID = a.Value.String()
		case "user_email":
			if s := a.Value.String(); s != "" {
				entry.UserEmail = &s
			}
		case "action":
			entry.Action = a.Value.String()
		case "error":
			entry.Error = a.Value.String()
		case "latency_ms":
			switch v := a.Value.Any().(type) {
			case float64:
				entry.LatencyMs = int(math.Round(v))
			case int64:
				entry.LatencyMs = int(v)
			}
		default:
			extra[a.Key] = a.Value.Any()
		}
		return true
	}
	for _, a := range attrs {
		apply(a)
	}
	record.Attrs(apply)

	if len(extra) > 0 {
		if b, err := json.Marshal(extra); err == nil {
			entry.Extra = datatypes.JSON(b)
		}
	}
	return entry
}
