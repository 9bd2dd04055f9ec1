// Package services содержит логику журнала сбоев, доступного администраторам.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/finalworks-platform/internal/models"
)

// FaultLogRepository определяет методы для работы с журналом сбоев в хранилище.
type FaultLogRepository interface {
	// ListFaultLogs возвращает все записи журнала, новые первыми.
	ListFaultLogs(ctx context.Context) ([]*models.FaultLog, error)
	// RecentFaultLogs возвращает записи не старше указанного момента.
	RecentFaultLogs(ctx context.Context, since time.Time) ([]*models.FaultLog, error)
}

// FaultLogService отдаёт записи журнала сбоев администраторам.
type FaultLogService struct {
	repo FaultLogRepository
	log  *slog.Logger
}

// NewFaultLogService создает новый экземпляр FaultLogService.
func NewFaultLogService(repo FaultLogRepository, log *slog.Logger) *FaultLogService {
	return &FaultLogService{repo: repo, log: log}
}

// List возвращает все записи журнала сбоев.
func (s *FaultLogService) List(ctx context.Context) ([]*models.FaultLog, error) {
	return s.repo.ListFaultLogs(ctx)
}

// Recent возвращает записи за последние hours часов.
// Неположительное значение трактуется как сутки.
func (s *FaultLogService) Recent(ctx context.Context, hours int) ([]*models.FaultLog, error) {
	if hours <= 0 {
		hours = 24
	}
	since := time.Now().UTC().Add(-time.Duration(hours) * time.Hour)
	return s.repo.RecentFaultLogs(ctx, since)
}
