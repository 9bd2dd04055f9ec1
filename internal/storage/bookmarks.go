package storage

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/finalworks-platform/internal/models"
)

// CreateBookmark вставляет закладку студента на работу и возвращает её ID.
// Повтор пары (student_uid, final_work_id) даёт ErrConflict.
func (s *Storage) CreateBookmark(ctx context.Context, bookmark models.Bookmark) (int64, error) {
	const op = "storage.CreateBookmark"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int64
	query := `INSERT INTO bookmarks (student_uid, final_work_id)
			  VALUES ($1, $2)
			  RETURNING id`
	if err := s.DB.QueryRowContext(ctx, query,
		bookmark.StudentUID, bookmark.FinalWorkID).Scan(&newID); err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%s: %w", op, ErrConflict)
		}
		if isForeignKeyViolation(err) {
			return 0, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// DeleteBookmark удаляет закладку студента с работы.
func (s *Storage) DeleteBookmark(ctx context.Context, studentUID string, finalWorkID int64) error {
	const op = "storage.DeleteBookmark"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM bookmarks WHERE student_uid = $1 AND final_work_id = $2`
	result, err := s.DB.ExecContext(ctx, query, studentUID, finalWorkID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// ListBookmarks возвращает закладки студента, новые первыми.
func (s *Storage) ListBookmarks(ctx context.Context, studentUID string) ([]*models.Bookmark, error) {
	const op = "storage.ListBookmarks"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT b.id, b.student_uid, b.final_work_id, w.title, b.bookmarked_at, b.version
			  FROM bookmarks b
			  JOIN final_works w ON w.id = b.final_work_id
			  WHERE b.student_uid = $1
			  ORDER BY b.bookmarked_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, studentUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Bookmark
	for rows.Next() {
		var b models.Bookmark
		if err = rows.Scan(&b.ID, &b.StudentUID, &b.FinalWorkID, &b.WorkTitle,
			&b.BookmarkedAt, &b.Version); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &b)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
