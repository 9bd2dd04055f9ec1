// Package services содержит бизнес-логику для работы с выпускными работами,
// их тегами и комментариями.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/finalworks-platform/internal/models"
)

// ErrNotOwner — попытка изменить чужую работу без прав администратора.
var ErrNotOwner = errors.New("not the owner of this work")

// WorkRepository определяет методы для работы с выпускными работами в хранилище.
type WorkRepository interface {
	// CreateWork сохраняет работу вместе со связями на теги и возвращает её ID.
	CreateWork(ctx context.Context, work models.FinalWork, tagIDs []int64) (int64, error)
	// GetWork возвращает работу по ID вместе с тегами.
	GetWork(ctx context.Context, id int64) (*models.FinalWork, error)
	// ListWorks возвращает все работы.
	ListWorks(ctx context.Context) ([]*models.FinalWork, error)
	// NewestWorks возвращает последние загруженные работы.
	NewestWorks(ctx context.Context, limit int) ([]*models.FinalWork, error)
	// TopRatedWorks возвращает работы с наивысшей средней оценкой.
	TopRatedWorks(ctx context.Context, limit int) ([]*models.FinalWork, error)
	// SearchWorks ищет работы по подстроке в названии.
	SearchWorks(ctx context.Context, search string) ([]*models.FinalWork, error)
	// FilterWorksByTags возвращает работы, имеющие хотя бы один из тегов.
	FilterWorksByTags(ctx context.Context, tagNames []string) ([]*models.FinalWork, error)
	// UpdateWork обновляет работу по ID при совпадении версии.
	UpdateWork(ctx context.Context, id int64, title, description, fileURL string, tagIDs []int64, version int64) error
	// DeleteWork удаляет работу по ID при совпадении версии.
	DeleteWork(ctx context.Context, id, version int64) error
}

// TagRegistry описывает идемпотентное создание тегов по имени.
type TagRegistry interface {
	FindOrCreateTag(ctx context.Context, name string) (*models.Tag, error)
}

// CommentRepository определяет методы для работы с комментариями в хранилище.
type CommentRepository interface {
	CreateComment(ctx context.Context, comment models.Comment) (int64, error)
	ListComments(ctx context.Context, finalWorkID int64) ([]*models.Comment, error)
	DeleteComment(ctx context.Context, id, version int64) error
}

// StudentDirectory возвращает студента по его идентификатору.
type StudentDirectory interface {
	GetStudent(ctx context.Context, uid string) (*models.Student, error)
}

// WorkService реализует бизнес-логику работы с выпускными работами.
type WorkService struct {
	works    WorkRepository
	tags     TagRegistry
	comments CommentRepository
	students StudentDirectory
	log      *slog.Logger
}

// NewWorkService создает новый экземпляр WorkService.
func NewWorkService(works WorkRepository, tags TagRegistry, comments CommentRepository, students StudentDirectory, log *slog.Logger) *WorkService {
	return &WorkService{
		works:    works,
		tags:     tags,
		comments: comments,
		students: students,
		log:      log,
	}
}

// resolveTags превращает имена тегов в их ID, создавая недостающие теги.
// Пустые имена и дубликаты отбрасываются.
func (s *WorkService) resolveTags(ctx context.Context, names []string) ([]int64, []models.Tag, error) {
	const op = "work.resolveTags"

	seen := make(map[string]struct{}, len(names))
	ids := make([]int64, 0, len(names))
	tags := make([]models.Tag, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}

		tag, err := s.tags.FindOrCreateTag(ctx, name)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", op, err)
		}
		ids = append(ids, tag.ID)
		tags = append(tags, *tag)
	}
	return ids, tags, nil
}

// Create создает новую работу от имени студента. Недостающие теги
// создаются идемпотентно по имени.
func (s *WorkService) Create(ctx context.Context, principal models.Principal, draft models.WorkDraft) (int64, error) {
	tagIDs, tags, err := s.resolveTags(ctx, draft.Tags)
	if err != nil {
		return 0, err
	}

	work := models.FinalWork{
		Title:       strings.TrimSpace(draft.Title),
		Description: draft.Description,
		FileURL:     draft.FileURL,
		StudentUID:  principal.StudentUID,
		SubmittedAt: time.Now().UTC(),
		Tags:        tags,
	}
	id, err := s.works.CreateWork(ctx, work, tagIDs)
	if err != nil {
		return 0, err
	}

	s.log.Info("created new final work",
		slog.Int64("id", id),
		slog.String("student_uid", principal.StudentUID))
	return id, nil
}

// Read возвращает работу по ID.
func (s *WorkService) Read(ctx context.Context, id int64) (*models.FinalWork, error) {
	return s.works.GetWork(ctx, id)
}

// List возвращает все работы.
func (s *WorkService) List(ctx context.Context) ([]*models.FinalWork, error) {
	return s.works.ListWorks(ctx)
}

// Newest возвращает последние загруженные работы.
func (s *WorkService) Newest(ctx context.Context, limit int) ([]*models.FinalWork, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	return s.works.NewestWorks(ctx, limit)
}

// TopRated возвращает работы с наивысшей средней оценкой.
func (s *WorkService) TopRated(ctx context.Context, limit int) ([]*models.FinalWork, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	return s.works.TopRatedWorks(ctx, limit)
}

// Search ищет работы по подстроке в названии без учета регистра.
func (s *WorkService) Search(ctx context.Context, query string) ([]*models.FinalWork, error) {
	return s.works.SearchWorks(ctx, strings.TrimSpace(query))
}

// FilterByTags возвращает работы, имеющие хотя бы один из перечисленных тегов.
func (s *WorkService) FilterByTags(ctx context.Context, tagNames []string) ([]*models.FinalWork, error) {
	cleaned := make([]string, 0, len(tagNames))
	for _, name := range tagNames {
		if name = strings.TrimSpace(name); name != "" {
			cleaned = append(cleaned, name)
		}
	}
	if len(cleaned) == 0 {
		return s.works.ListWorks(ctx)
	}
	return s.works.FilterWorksByTags(ctx, cleaned)
}

// Update обновляет работу при совпадении версии. Разрешено автору работы
// и администратору; несовпадение версии отдаёт конфликт без повторных попыток.
func (s *WorkService) Update(ctx context.Context, principal models.Principal, id int64, draft models.WorkDraft, version int64) error {
	work, err := s.works.GetWork(ctx, id)
	if err != nil {
		return err
	}
	if work.StudentUID != principal.StudentUID && principal.Role != models.RoleAdmin {
		return ErrNotOwner
	}

	tagIDs, _, err := s.resolveTags(ctx, draft.Tags)
	if err != nil {
		return err
	}
	return s.works.UpdateWork(ctx, id, strings.TrimSpace(draft.Title), draft.Description, draft.FileURL, tagIDs, version)
}

// Delete удаляет работу при совпадении версии.
func (s *WorkService) Delete(ctx context.Context, id, version int64) error {
	if err := s.works.DeleteWork(ctx, id, version); err != nil {
		return err
	}
	s.log.Info("deleted final work", slog.Int64("id", id))
	return nil
}

// AddComment добавляет комментарий к работе от имени студента.
// Имя автора фиксируется на момент написания; если профиль недоступен,
// вместо имени используется почта из токена.
func (s *WorkService) AddComment(ctx context.Context, principal models.Principal, workID int64, draft models.CommentDraft) (int64, error) {
	authorName := principal.Email
	if student, err := s.students.GetStudent(ctx, principal.StudentUID); err == nil {
		authorName = student.Name
	}

	comment := models.Comment{
		FinalWorkID: workID,
		AuthorName:  authorName,
		Content:     strings.TrimSpace(draft.Content),
		CreatedAt:   time.Now().UTC(),
	}
	return s.comments.CreateComment(ctx, comment)
}

// ListComments возвращает комментарии работы в порядке написания.
func (s *WorkService) ListComments(ctx context.Context, workID int64) ([]*models.Comment, error) {
	return s.comments.ListComments(ctx, workID)
}

// DeleteComment удаляет комментарий при совпадении версии.
func (s *WorkService) DeleteComment(ctx context.Context, id, version int64) error {
	return s.comments.DeleteComment(ctx, id, version)
}
