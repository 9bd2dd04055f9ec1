// Package services содержит бизнес-логику оценивания работ, включая
// кеширование агрегированной статистики.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/finalworks-platform/internal/lib/sl"
	"github.com/magabrotheeeer/finalworks-platform/internal/models"
	"github.com/magabrotheeeer/finalworks-platform/internal/storage"
)

// ErrAlreadyRated — студент уже оценил эту работу.
var ErrAlreadyRated = errors.New("work already rated by this student")

// summaryTTL — время жизни кеша статистики оценок.
const summaryTTL = 10 * time.Minute

// RatingRepository определяет методы для работы с оценками в хранилище.
type RatingRepository interface {
	// CreateRating сохраняет оценку; повтор пары (студент, работа) даёт ErrConflict.
	CreateRating(ctx context.Context, rating models.Rating) (int64, error)
	// DeleteRating удаляет оценку студента для работы.
	DeleteRating(ctx context.Context, studentUID string, finalWorkID int64) error
	// RatingSummary возвращает среднюю оценку и количество оценок работы.
	RatingSummary(ctx context.Context, finalWorkID int64) (*models.RatingSummary, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// RatingService реализует бизнес-логику оценивания работ.
type RatingService struct {
	repo  RatingRepository
	cache Cache
	log   *slog.Logger
}

// NewRatingService создает новый экземпляр RatingService.
func NewRatingService(repo RatingRepository, cache Cache, log *slog.Logger) *RatingService {
	return &RatingService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

func summaryKey(finalWorkID int64) string {
	return fmt.Sprintf("rating:summary:%d", finalWorkID)
}

// Rate сохраняет оценку студента для работы. Повторная оценка той же
// работы возвращает ErrAlreadyRated, существующая оценка не меняется.
func (s *RatingService) Rate(ctx context.Context, principal models.Principal, finalWorkID int64, draft models.RatingDraft) (int64, error) {
	id, err := s.repo.CreateRating(ctx, models.Rating{
		StudentUID:  principal.StudentUID,
		FinalWorkID: finalWorkID,
		Value:       draft.Value,
	})
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return 0, ErrAlreadyRated
		}
		return 0, err
	}

	s.invalidateSummary(finalWorkID)
	s.log.Info("rated final work",
		slog.Int64("final_work_id", finalWorkID),
		slog.Int("rating", draft.Value))
	return id, nil
}

// Unrate удаляет оценку студента для работы.
func (s *RatingService) Unrate(ctx context.Context, principal models.Principal, finalWorkID int64) error {
	if err := s.repo.DeleteRating(ctx, principal.StudentUID, finalWorkID); err != nil {
		return err
	}
	s.invalidateSummary(finalWorkID)
	return nil
}

// Summary возвращает среднюю оценку и количество оценок работы,
// используя кеш или хранилище.
func (s *RatingService) Summary(ctx context.Context, finalWorkID int64) (*models.RatingSummary, error) {
	key := summaryKey(finalWorkID)

	var cached models.RatingSummary
	found, err := s.cache.Get(key, &cached)
	if err != nil {
		s.log.Warn("failed to read rating summary from cache", slog.String("key", key), sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	summary, err := s.repo.RatingSummary(ctx, finalWorkID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(key, summary, summaryTTL); err != nil {
		s.log.Warn("failed to cache rating summary", slog.String("key", key), sl.Err(err))
	}
	return summary, nil
}

func (s *RatingService) invalidateSummary(finalWorkID int64) {
	key := summaryKey(finalWorkID)
	if err := s.cache.Invalidate(key); err != nil {
		s.log.Warn("failed to invalidate rating summary cache", slog.String("key", key), sl.Err(err))
	}
}
