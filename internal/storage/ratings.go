package storage

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/finalworks-platform/internal/models"
)

// CreateRating вставляет оценку студента на работу и возвращает её ID.
//
// Уникальность пары (student_uid, final_work_id) обеспечивает база данных:
// второй конкурентный вызов получает ErrConflict без перечитывания —
// повторная оценка запрещена, а не сливается с первой.
func (s *Storage) CreateRating(ctx context.Context, rating models.Rating) (int64, error) {
	const op = "storage.CreateRating"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int64
	query := `INSERT INTO ratings (student_uid, final_work_id, rating)
			  VALUES ($1, $2, $3)
			  RETURNING id`
	if err := s.DB.QueryRowContext(ctx, query,
		rating.StudentUID, rating.FinalWorkID, rating.Value).Scan(&newID); err != nil {
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

// DeleteRating удаляет оценку студента с работы.
func (s *Storage) DeleteRating(ctx context.Context, studentUID string, finalWorkID int64) error {
	const op = "storage.DeleteRating"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM ratings WHERE student_uid = $1 AND final_work_id = $2`
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

// RatingSummary возвращает среднюю оценку и количество оценок работы.
func (s *Storage) RatingSummary(ctx context.Context, finalWorkID int64) (*models.RatingSummary, error) {
	const op = "storage.RatingSummary"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COALESCE(AVG(rating), 0), COUNT(*)
			  FROM ratings
			  WHERE final_work_id = $1`
	var summary models.RatingSummary
	if err := s.DB.QueryRowContext(ctx, query, finalWorkID).
		Scan(&summary.Average, &summary.Count); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &summary, nil
}
