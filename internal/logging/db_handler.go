package logging

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"os"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/signalforge/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	dbBatchSize     = 50
	dbFlushInterval = 5 * time.Second
)

// DBHandler is an slog.Handler that batches ERROR+ records into system_logs.
type DBHandler struct {
	db     *gorm.DB
	mu     sync.Mutex
	buffer []models.SystemLog
	ticker *time.Ticker
	done   chan struct{}
	wg     sync.WaitGroup
	once   sync.Once

	stopped bool // guarded by mu
}

func NewDBHandler(db *gorm.DB) *DBHandler {
	return newDBHandler(db, dbFlushInterval)
}

func newDBHandler(db *gorm.DB, interval time.Duration) *DBHandler {
	h := &DBHandler{
		db:     db,
		buffer: make([]models.SystemLog, 0, dbBatchSize),
		ticker: time.NewTicker(interval),
		done:   make(chan struct{}),
	}
	h.wg.Add(1)
	go h.flushLoop()
	return h
}

func (h *DBHandler) flushLoop() {
	defer h.wg.Done()
	for {
		select {
		case <-h.ticker.C:
			h.flush()
		case <-h.done:
			h.flush()
			return
		}
	}
}

func (h *DBHandler) flush() {
	h.mu.Lock()
	if len(h.buffer) == 0 {
		h.mu.Unlock()
		return
	}
	batch := h.buffer
	h.buffer = make([]models.SystemLog, 0, dbBatchSize)
	h.mu.Unlock()

	if err := h.db.CreateInBatches(batch, dbBatchSize).Error; err != nil {
		// stderr only: logging through slog.Default would re-enter this handler
		slog.New(NewJSONHandler(os.Stderr)).Warn("failed to flush system logs to DB", "error", err, "count", len(batch))
	}
}

// Stop flushes pending records and waits for the flush loop and any batch
// flushes still in flight. It is safe to call more than once.
func (h *DBHandler) Stop() {
	h.once.Do(func() {
		h.mu.Lock()
		h.stopped = true
		h.mu.Unlock()
		h.ticker.Stop()
		close(h.done)
	})
	h.wg.Wait()
}

// Enabled only handles ERROR and above.
func (h *DBHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelError
}

func (h *DBHandler) Handle(_ context.Context, record slog.Record) error {
	entry := models.SystemLog{
		ID:        uuid.New(),
		Timestamp: record.Time,
		Level:     record.Level.String(),
		Message:   record.Message,
	}

	extra := make(map[string]interface{})
	record.Attrs(func(a slog.Attr) bool {
		switch a.Key {
		case "request_id":
			entry.RequestID = a.Value.String()
		case "user_id":
			s := a.Value.String()
			entry.UserID = &s
		case "action":
			entry.Action = a.Value.String()
		case "error":
			entry.Error = a.Value.String()
		case "latency_ms":
			switch a.Value.Kind() {
			case slog.KindFloat64:
				entry.LatencyMs = int(math.Round(a.Value.Float64()))
			case slog.KindInt64:
				entry.LatencyMs = int(a.Value.Int64())
			}
		default:
			extra[a.Key] = a.Value.Any()
		}
		return true
	})

	if len(extra) > 0 {
		if b, err := json.Marshal(extra); err == nil {
			entry.Extra = datatypes.JSON(b)
		}
	}

	h.mu.Lock()
	h.buffer = append(h.buffer, entry)
	needFlush := len(h.buffer) >= dbBatchSize
	stopped := h.stopped
	if needFlush && !stopped {
		h.wg.Add(1)
	}
	h.mu.Unlock()

	switch {
	case stopped:
		// no loop left to pick the record up
		h.flush()
	case needFlush:
		go func() {
			defer h.wg.Done()
			h.flush()
		}()
	}
	return nil
}

// WithAttrs returns a view that shares this handler's buffer and flush loop.
func (h *DBHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &attrHandler{parent: h, attrs: attrs}
}

func (h *DBHandler) WithGroup(name string) slog.Handler {
	return h
}

type attrHandler struct {
	parent *DBHandler
	attrs  []slog.Attr
}

func (a *attrHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return a.parent.Enabled(ctx, level)
}

func (a *attrHandler) Handle(ctx context.Context, record slog.Record) error {
	r := record.Clone()
	r.AddAttrs(a.attrs...)
	return a.parent.Handle(ctx, r)
}

func (a *attrHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(a.attrs)+len(attrs))
	merged = append(merged, a.attrs...)
	merged = append(merged, attrs...)
	return &attrHandler{parent: a.parent, attrs: merged}
}

func (a *attrHandler) WithGroup(string) slog.Handler {
	return a
}
