package sl_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/magabrotheeeer/finalworks-platform/internal/lib/sl"
	"github.com/magabrotheeeer/finalworks-platform/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sinkMock struct {
	entries []models.FaultLog
}

func (s *sinkMock) InsertFaultLog(_ context.Context, entry models.FaultLog) error {
	s.entries = append(s.entries, entry)
	return nil
}

func TestFaultCaptureHandler_CapturesErrors(t *testing.T) {
	var buf bytes.Buffer
	sink := &sinkMock{}
	log := slog.New(sl.NewFaultCaptureHandler(slog.NewTextHandler(&buf, nil), sink))

	log.Info("just info")
	log.Error("database unreachable", slog.String("op", "storage.GetWork"))

	require.Len(t, sink.entries, 1)
	entry := sink.entries[0]
	assert.Equal(t, "database unreachable", entry.Message)
	assert.Equal(t, "storage.GetWork", entry.LoggerName)
	assert.Equal(t, "ERROR", entry.Level)

	// Обычный вывод сохраняется для обоих уровней.
	out := buf.String()
	assert.Contains(t, out, "just info")
	assert.Contains(t, out, "database unreachable")
}

func TestFaultCaptureHandler_BoundOp(t *testing.T) {
	var buf bytes.Buffer
	sink := &sinkMock{}
	base := slog.New(sl.NewFaultCaptureHandler(slog.NewTextHandler(&buf, nil), sink))

	// Обработчики привязывают op через log.With, а не в вызове Error.
	log := base.With(
		slog.String("op", "handlers.work.update"),
		slog.String("request_id", "req-1"),
	)
	log.Error("failed to update work")

	require.Len(t, sink.entries, 1)
	assert.Equal(t, "handlers.work.update", sink.entries[0].LoggerName)

	// Атрибут в самом вызове перекрывает привязанный.
	log.Error("failed to read work", slog.String("op", "storage.GetWork"))
	require.Len(t, sink.entries, 2)
	assert.Equal(t, "storage.GetWork", sink.entries[1].LoggerName)

	// WithGroup не теряет привязанный op.
	grouped := log.WithGroup("details")
	grouped.Error("still failing")
	require.Len(t, sink.entries, 3)
	assert.Equal(t, "handlers.work.update", sink.entries[2].LoggerName)
}

func TestFaultCaptureHandler_NilSink(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(sl.NewFaultCaptureHandler(slog.NewTextHandler(&buf, nil), nil))

	log.Error("boom")
	assert.Contains(t, buf.String(), "boom")
}
