package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/finalworks-platform/internal/models"
)

// ListTags возвращает все теги по алфавиту.
func (s *Storage) ListTags(ctx context.Context) ([]*models.Tag, error) {
	const op = "storage.ListTags"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name FROM tags ORDER BY name`
	return s.queryTags(ctx, op, query)
}

// PopularTags возвращает теги в порядке убывания числа отмеченных работ.
func (s *Storage) PopularTags(ctx context.Context) ([]*models.Tag, error) {
	const op = "storage.PopularTags"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT t.id, t.name
			  FROM tags t
			  LEFT JOIN work_tags wt ON wt.tag_id = t.id
			  GROUP BY t.id
			  ORDER BY COUNT(wt.final_work_id) DESC, t.name`
	return s.queryTags(ctx, op, query)
}

// GetTagByName возвращает тег по нормализованному имени.
func (s *Storage) GetTagByName(ctx context.Context, name string) (*models.Tag, error) {
	const op = "storage.GetTagByName"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var tag models.Tag
	query := `SELECT id, name FROM tags WHERE name = $1`
	if err := s.DB.QueryRowContext(ctx, query, name).Scan(&tag.ID, &tag.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &tag, nil
}

// CreateTag вставляет новый тег. Повтор имени даёт ErrConflict.
func (s *Storage) CreateTag(ctx context.Context, name string) (*models.Tag, error) {
	const op = "storage.CreateTag"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var tag models.Tag
	query := `INSERT INTO tags (name) VALUES ($1) RETURNING id, name`
	if err := s.DB.QueryRowContext(ctx, query, name).Scan(&tag.ID, &tag.Name); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%s: %w", op, ErrConflict)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &tag, nil
}

// FindOrCreateTag возвращает тег по имени, создавая его при отсутствии.
//
// Наивная последовательность "проверить, затем вставить" имеет окно гонки:
// два конкурентных вызова могут оба не найти тег и оба попытаться вставить.
// Уникальное ограничение базы пропускает только одного; проигравший
// перечитывает и возвращает строку победителя. Оба вызова сходятся
// на одной и той же записи.
func (s *Storage) FindOrCreateTag(ctx context.Context, name string) (*models.Tag, error) {
	const op = "storage.FindOrCreateTag"

	tag, err := s.GetTagByName(ctx, name)
	if err == nil {
		return tag, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	tag, err = s.CreateTag(ctx, name)
	if err == nil {
		return tag, nil
	}
	if !errors.Is(err, ErrConflict) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// Конкурент успел вставить первым: возвращаем его строку.
	tag, err = s.GetTagByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return tag, nil
}

func (s *Storage) queryTags(ctx context.Context, op, query string, args ...any) ([]*models.Tag, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Tag
	for rows.Next() {
		var tag models.Tag
		if err = rows.Scan(&tag.ID, &tag.Name); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &tag)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
