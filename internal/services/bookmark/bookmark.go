// Package services содержит бизнес-логику закладок студентов.
package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/finalworks-platform/internal/models"
	"github.com/magabrotheeeer/finalworks-platform/internal/storage"
)

// ErrAlreadyBookmarked — работа уже есть в закладках студента.
var ErrAlreadyBookmarked = errors.New("work already bookmarked by this student")

// BookmarkRepository определяет методы для работы с закладками в хранилище.
type BookmarkRepository interface {
	// CreateBookmark сохраняет закладку; повтор пары (студент, работа) даёт ErrConflict.
	CreateBookmark(ctx context.Context, bookmark models.Bookmark) (int64, error)
	// DeleteBookmark удаляет закладку студента для работы.
	DeleteBookmark(ctx context.Context, studentUID string, finalWorkID int64) error
	// ListBookmarks возвращает закладки студента.
	ListBookmarks(ctx context.Context, studentUID string) ([]*models.Bookmark, error)
}

// BookmarkService реализует бизнес-логику закладок.
type BookmarkService struct {
	repo BookmarkRepository
	log  *slog.Logger
}

// NewBookmarkService создает новый экземпляр BookmarkService.
func NewBookmarkService(repo BookmarkRepository, log *slog.Logger) *BookmarkService {
	return &BookmarkService{repo: repo, log: log}
}

// Add добавляет работу в закладки студента. Повторное добавление той же
// работы возвращает ErrAlreadyBookmarked.
func (s *BookmarkService) Add(ctx context.Context, principal models.Principal, finalWorkID int64) (int64, error) {
	id, err := s.repo.CreateBookmark(ctx, models.Bookmark{
		StudentUID:   principal.StudentUID,
		FinalWorkID:  finalWorkID,
		BookmarkedAt: time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return 0, ErrAlreadyBookmarked
		}
		return 0, err
	}

	s.log.Info("bookmarked final work",
		slog.Int64("final_work_id", finalWorkID),
		slog.String("student_uid", principal.StudentUID))
	return id, nil
}

// Remove удаляет работу из закладок студента.
func (s *BookmarkService) Remove(ctx context.Context, principal models.Principal, finalWorkID int64) error {
	return s.repo.DeleteBookmark(ctx, principal.StudentUID, finalWorkID)
}

// List возвращает закладки студента.
func (s *BookmarkService) List(ctx context.Context, principal models.Principal) ([]*models.Bookmark, error) {
	return s.repo.ListBookmarks(ctx, principal.StudentUID)
}
