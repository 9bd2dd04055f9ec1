// Package services содержит бизнес-логику справочника тегов,
// включая кеширование списка популярных тегов.
package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/finalworks-platform/internal/lib/sl"
	"github.com/magabrotheeeer/finalworks-platform/internal/models"
)

// popularTagsKey — ключ кеша списка популярных тегов.
const popularTagsKey = "tags:popular"

// popularTTL — время жизни кеша популярных тегов.
const popularTTL = 5 * time.Minute

// TagRepository определяет методы для работы с тегами в хранилище.
type TagRepository interface {
	// ListTags возвращает все теги по алфавиту.
	ListTags(ctx context.Context) ([]*models.Tag, error)
	// PopularTags возвращает теги в порядке убывания числа работ.
	PopularTags(ctx context.Context) ([]*models.Tag, error)
	// CreateTag создает тег; повтор имени даёт ErrConflict.
	CreateTag(ctx context.Context, name string) (*models.Tag, error)
	// FindOrCreateTag возвращает существующий тег или создает новый.
	FindOrCreateTag(ctx context.Context, name string) (*models.Tag, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// TagService реализует бизнес-логику справочника тегов.
type TagService struct {
	repo  TagRepository
	cache Cache
	log   *slog.Logger
}

// NewTagService создает новый экземпляр TagService.
func NewTagService(repo TagRepository, cache Cache, log *slog.Logger) *TagService {
	return &TagService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// List возвращает все теги.
func (s *TagService) List(ctx context.Context) ([]*models.Tag, error) {
	return s.repo.ListTags(ctx)
}

// Popular возвращает теги в порядке убывания популярности,
// используя кеш или хранилище.
func (s *TagService) Popular(ctx context.Context) ([]*models.Tag, error) {
	var cached []*models.Tag
	found, err := s.cache.Get(popularTagsKey, &cached)
	if err != nil {
		s.log.Warn("failed to read popular tags from cache", sl.Err(err))
	}
	if found {
		return cached, nil
	}

	tags, err := s.repo.PopularTags(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(popularTagsKey, tags, popularTTL); err != nil {
		s.log.Warn("failed to cache popular tags", sl.Err(err))
	}
	return tags, nil
}

// Create создает тег с нормализованным именем. Существующее имя даёт
// storage.ErrConflict.
func (s *TagService) Create(ctx context.Context, draft models.TagDraft) (*models.Tag, error) {
	tag, err := s.repo.CreateTag(ctx, strings.TrimSpace(draft.Name))
	if err != nil {
		return nil, err
	}

	if err := s.cache.Invalidate(popularTagsKey); err != nil {
		s.log.Warn("failed to invalidate popular tags cache", sl.Err(err))
	}
	s.log.Info("created new tag", slog.String("name", tag.Name))
	return tag, nil
}

// FindOrCreate возвращает существующий тег или создает новый.
// Вызов идемпотентен: параллельные запросы на одно имя сходятся
// к одной и той же записи.
func (s *TagService) FindOrCreate(ctx context.Context, name string) (*models.Tag, error) {
	return s.repo.FindOrCreateTag(ctx, strings.TrimSpace(name))
}
