package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/signalforge/internal/models"
	"github.com/ahmetcoskunkizilkaya/signalforge/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// the pooled sql.DB keeps its opener goroutine until t.Cleanup closes it
var ignoreSQLOpener = goleak.IgnoreTopFunction("database/sql.(*DB).connectionOpener")

func TestDBHandler_FlushesErrorsOnStop(t *testing.T) {
	defer goleak.VerifyNone(t, ignoreSQLOpener)
	db := testutil.NewDB(t, testutil.Config())

	h := newDBHandler(db, time.Hour)
	logger := slog.New(h).With("request_id", "req-1")

	logger.Info("ignored")
	logger.Error("signal insert failed",
		"user_id", "7b1f0c2e-0000-0000-0000-000000000000",
		"action", "create_signal",
		"error", "constraint violation",
		"latency_ms", 12.6,
		"path", "/api/signals",
	)
	h.Stop()
	h.Stop()

	var logs []models.SystemLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)

	entry := logs[0]
	assert.Equal(t, "ERROR", entry.Level)
	assert.Equal(t, "signal insert failed", entry.Message)
	assert.Equal(t, "req-1", entry.RequestID)
	assert.Equal(t, "create_signal", entry.Action)
	assert.Equal(t, "constraint violation", entry.Error)
	assert.Equal(t, 13, entry.LatencyMs)
	require.NotNil(t, entry.UserID)

	var extra map[string]any
	require.NoError(t, json.Unmarshal(entry.Extra, &extra))
	assert.Equal(t, "/api/signals", extra["path"])
}

func TestDBHandler_FlushesWhenBatchFills(t *testing.T) {
	db := testutil.NewDB(t, testutil.Config())
	h := newDBHandler(db, time.Hour)
	defer h.Stop()

	logger := slog.New(h)
	for i := 0; i < dbBatchSize; i++ {
		logger.Error("boom", "n", i)
	}

	assert.Eventually(t, func() bool {
		var count int64
		db.Model(&models.SystemLog{}).Count(&count)
		return count == dbBatchSize
	}, 2*time.Second, 20*time.Millisecond)
}

func TestDBHandler_StopWaitsForBatchFlush(t *testing.T) {
	db := testutil.NewDB(t, testutil.Config())
	h := newDBHandler(db, time.Hour)

	logger := slog.New(h)
	for i := 0; i < dbBatchSize; i++ {
		logger.Error("boom", "n", i)
	}
	h.Stop()

	var count int64
	require.NoError(t, db.Model(&models.SystemLog{}).Count(&count).Error)
	assert.EqualValues(t, dbBatchSize, count)
}

func TestDBHandler_WritesThroughAfterStop(t *testing.T) {
	db := testutil.NewDB(t, testutil.Config())
	h := newDBHandler(db, time.Hour)
	h.Stop()

	slog.New(h).Error("late")

	var count int64
	require.NoError(t, db.Model(&models.SystemLog{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

type failingHandler struct{}

func (failingHandler) Enabled(context.Context, slog.Level) bool { return true }
func (failingHandler) Handle(context.Context, slog.Record) error { return errors.New("sink down") }
func (f failingHandler) WithAttrs([]slog.Attr) slog.Handler { return f }
func (f failingHandler) WithGroup(string) slog.Handler { return f }

func TestMultiHandler_KeepsDeliveringAfterFailure(t *testing.T) {
	var buf bytes.Buffer
	m := NewMultiHandler(failingHandler{}, NewJSONHandler(&buf))

	err := m.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelInfo, "hello", 0))
	assert.EqualError(t, err, "sink down")
	assert.Contains(t, buf.String(), `"msg":"hello"`)
}

func TestMultiHandler_WithAttrsReachesEveryHandler(t *testing.T) {
	var a, b bytes.Buffer
	logger := slog.New(NewMultiHandler(NewJSONHandler(&a), NewJSONHandler(&b))).With("user_id", "u1")

	logger.Warn("careful")

	assert.Contains(t, a.String(), `"user_id":"u1"`)
	assert.Contains(t, b.String(), `"user_id":"u1"`)
}

func TestMultiHandler_Enabled(t *testing.T) {
	db := testutil.NewDB(t, testutil.Config())
	sink := newDBHandler(db, time.Hour)
	defer sink.Stop()

	m := NewMultiHandler(sink)
	assert.False(t, m.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, m.Enabled(context.Background(), slog.LevelError))
}

func TestPurgeOlderThan(t *testing.T) {
	db := testutil.NewDB(t, testutil.Config())
	old := models.SystemLog{Timestamp: time.Now().AddDate(0, 0, -40), Level: "ERROR", Message: "old"}
	fresh := models.SystemLog{Timestamp: time.Now(), Level: "ERROR", Message: "fresh"}
	require.NoError(t, db.Create(&old).Error)
	require.NoError(t, db.Create(&fresh).Error)

	deleted, err := PurgeOlderThan(db, 30*24*time.Hour)
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	var remaining []models.SystemLog
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, "fresh", remaining[0].Message)
}

func TestRunCleanup_StopsOnDone(t *testing.T) {
	defer goleak.VerifyNone(t, ignoreSQLOpener)
	db := testutil.NewDB(t, testutil.Config())
	require.NoError(t, db.Create(&models.SystemLog{Timestamp: time.Now().AddDate(0, 0, -2), Level: "ERROR"}).Error)

	done := make(chan struct{})
	exited := make(chan struct{})
	go func() {
		runCleanup(db, 24*time.Hour, 10*time.Millisecond, done)
		close(exited)
	}()

	assert.Eventually(t, func() bool {
		var count int64
		db.Model(&models.SystemLog{}).Count(&count)
		return count == 0
	}, 2*time.Second, 10*time.Millisecond)

	close(done)
	<-exited
}
