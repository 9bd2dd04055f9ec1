package sl

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/finalworks-platform/internal/models"
)

// FaultSink принимает записи журнала сбоев.
type FaultSink interface {
	InsertFaultLog(ctx context.Context, entry models.FaultLog) error
}

// FaultCaptureHandler — slog.Handler, который помимо обычного вывода
// сохраняет записи уровня Error и выше в журнал сбоев.
// Ошибки самого журнала молча отбрасываются, чтобы не зациклить логирование.
type FaultCaptureHandler struct {
	inner slog.Handler
	sink  FaultSink
	// op, привязанный через log.With: атрибуты With не попадают в record.Attrs.
	boundOp string
}

// NewFaultCaptureHandler оборачивает обработчик логов записью сбоев в sink.
func NewFaultCaptureHandler(inner slog.Handler, sink FaultSink) *FaultCaptureHandler {
	return &FaultCaptureHandler{inner: inner, sink: sink}
}

// Enabled сообщает, обрабатывается ли запись данного уровня.
func (h *FaultCaptureHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle выводит запись и, для уровня Error и выше, сохраняет её в журнал сбоев.
func (h *FaultCaptureHandler) Handle(ctx context.Context, record slog.Record) error {
	if record.Level >= slog.LevelError && h.sink != nil {
		loggerName := h.boundOp
		record.Attrs(func(attr slog.Attr) bool {
			if attr.Key == "op" {
				loggerName = attr.Value.String()
				return false
			}
			return true
		})

		insertCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		_ = h.sink.InsertFaultLog(insertCtx, models.FaultLog{
			Message:    record.Message,
			LoggerName: loggerName,
			Level:      record.Level.String(),
			OccurredAt: record.Time.UTC(),
		})
		cancel()
	}
	return h.inner.Handle(ctx, record)
}

// WithAttrs возвращает обработчик с дополнительными атрибутами.
// Атрибут op запоминается, чтобы запись в журнал сбоев знала имя компонента.
func (h *FaultCaptureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	boundOp := h.boundOp
	for _, attr := range attrs {
		if attr.Key == "op" {
			boundOp = attr.Value.String()
		}
	}
	return &FaultCaptureHandler{inner: h.inner.WithAttrs(attrs), sink: h.sink, boundOp: boundOp}
}

// WithGroup возвращает обработчик с группой атрибутов.
func (h *FaultCaptureHandler) WithGroup(name string) slog.Handler {
	return &FaultCaptureHandler{inner: h.inner.WithGroup(name), sink: h.sink, boundOp: h.boundOp}
}
