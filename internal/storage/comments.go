package storage

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/finalworks-platform/internal/models"
)

// CreateComment вставляет новый комментарий и возвращает его ID.
func (s *Storage) CreateComment(ctx context.Context, comment models.Comment) (int64, error) {
	const op = "storage.CreateComment"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int64
	query := `INSERT INTO comments (final_work_id, author_name, content)
			  VALUES ($1, $2, $3)
			  RETURNING id`
	if err := s.DB.QueryRowContext(ctx, query,
		comment.FinalWorkID, comment.AuthorName, comment.Content).Scan(&newID); err != nil {
		if isForeignKeyViolation(err) {
			return 0, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListComments возвращает комментарии работы, старые первыми.
func (s *Storage) ListComments(ctx context.Context, finalWorkID int64) ([]*models.Comment, error) {
	const op = "storage.ListComments"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, final_work_id, author_name, content, created_at, version
			  FROM comments
			  WHERE final_work_id = $1
			  ORDER BY created_at`
	rows, err := s.DB.QueryContext(ctx, query, finalWorkID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Comment
	for rows.Next() {
		var c models.Comment
		if err = rows.Scan(&c.ID, &c.FinalWorkID, &c.AuthorName, &c.Content,
			&c.CreatedAt, &c.Version); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// DeleteComment удаляет комментарий при совпадении версии.
func (s *Storage) DeleteComment(ctx context.Context, id, version int64) error {
	const op = "storage.DeleteComment"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM comments WHERE id = $1 AND version = $2`
	result, err := s.DB.ExecContext(ctx, query, id, version)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return s.classifyMissedWrite(ctx, op,
			`SELECT EXISTS(SELECT 1 FROM comments WHERE id = $1)`, id)
	}
	return nil
}
