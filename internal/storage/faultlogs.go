package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/magabrotheeeer/finalworks-platform/internal/models"
)

// InsertFaultLog добавляет запись в журнал сбоев.
func (s *Storage) InsertFaultLog(ctx context.Context, entry models.FaultLog) error {
	const op = "storage.InsertFaultLog"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO fault_logs (message, logger_name, level, occurred_at)
			  VALUES ($1, $2, $3, $4)`
	if _, err := s.DB.ExecContext(ctx, query,
		entry.Message, entry.LoggerName, entry.Level, entry.OccurredAt); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListFaultLogs возвращает все записи журнала сбоев, новые первыми.
func (s *Storage) ListFaultLogs(ctx context.Context) ([]*models.FaultLog, error) {
	const op = "storage.ListFaultLogs"
	query := `SELECT id, message, logger_name, level, occurred_at
			  FROM fault_logs
			  ORDER BY occurred_at DESC`
	return s.queryFaultLogs(ctx, op, query)
}

// RecentFaultLogs возвращает записи журнала сбоев начиная с указанного момента.
func (s *Storage) RecentFaultLogs(ctx context.Context, since time.Time) ([]*models.FaultLog, error) {
	const op = "storage.RecentFaultLogs"
	query := `SELECT id, message, logger_name, level, occurred_at
			  FROM fault_logs
			  WHERE occurred_at >= $1
			  ORDER BY occurred_at DESC`
	return s.queryFaultLogs(ctx, op, query, since)
}

func (s *Storage) queryFaultLogs(ctx context.Context, op, query string, args ...any) ([]*models.FaultLog, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.FaultLog
	for rows.Next() {
		var entry models.FaultLog
		if err = rows.Scan(&entry.ID, &entry.Message, &entry.LoggerName,
			&entry.Level, &entry.OccurredAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &entry)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
