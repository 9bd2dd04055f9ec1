package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/finalworks-platform/internal/models"
)

const workColumns = `w.id, w.title, w.description, w.file_url, w.student_uid,
			      st.name, st.email, w.submitted_at, w.version`

func scanWork(scanner interface{ Scan(...any) error }) (*models.FinalWork, error) {
	var w models.FinalWork
	if err := scanner.Scan(&w.ID, &w.Title, &w.Description, &w.FileURL, &w.StudentUID,
		&w.StudentName, &w.StudentEmail, &w.SubmittedAt, &w.Version); err != nil {
		return nil, err
	}
	return &w, nil
}

// CreateWork вставляет новую работу вместе со связями на теги и возвращает её ID.
func (s *Storage) CreateWork(ctx context.Context, work models.FinalWork, tagIDs []int64) (int64, error) {
	const op = "storage.CreateWork"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var newID int64
	query := `INSERT INTO final_works (title, description, file_url, student_uid)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id`
	if err = tx.QueryRowContext(ctx, query,
		work.Title, work.Description, work.FileURL, work.StudentUID).Scan(&newID); err != nil {
		if isForeignKeyViolation(err) {
			return 0, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	for _, tagID := range tagIDs {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO work_tags (final_work_id, tag_id) VALUES ($1, $2)
			 ON CONFLICT DO NOTHING`, newID, tagID); err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetWork возвращает работу по ID вместе с тегами и данными автора.
func (s *Storage) GetWork(ctx context.Context, id int64) (*models.FinalWork, error) {
	const op = "storage.GetWork"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + workColumns + `
			  FROM final_works w
			  JOIN students st ON st.uid = w.student_uid
			  WHERE w.id = $1`
	w, err := scanWork(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	tags, err := s.loadTagsForWorks(ctx, []int64{w.ID})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	w.Tags = tags[w.ID]
	return w, nil
}

// ListWorks возвращает все работы, новые первыми.
func (s *Storage) ListWorks(ctx context.Context) ([]*models.FinalWork, error) {
	const op = "storage.ListWorks"
	query := `SELECT ` + workColumns + `
			  FROM final_works w
			  JOIN students st ON st.uid = w.student_uid
			  ORDER BY w.submitted_at DESC`
	return s.queryWorks(ctx, op, query)
}

// NewestWorks возвращает последние загруженные работы.
func (s *Storage) NewestWorks(ctx context.Context, limit int) ([]*models.FinalWork, error) {
	const op = "storage.NewestWorks"
	query := `SELECT ` + workColumns + `
			  FROM final_works w
			  JOIN students st ON st.uid = w.student_uid
			  ORDER BY w.submitted_at DESC
			  LIMIT $1`
	return s.queryWorks(ctx, op, query, limit)
}

// TopRatedWorks возвращает работы с наибольшей средней оценкой.
func (s *Storage) TopRatedWorks(ctx context.Context, limit int) ([]*models.FinalWork, error) {
	const op = "storage.TopRatedWorks"
	query := `SELECT ` + workColumns + `
			  FROM final_works w
			  JOIN students st ON st.uid = w.student_uid
			  LEFT JOIN ratings r ON r.final_work_id = w.id
			  GROUP BY w.id, st.name, st.email
			  ORDER BY COALESCE(AVG(r.rating), 0) DESC, w.submitted_at DESC
			  LIMIT $1`
	return s.queryWorks(ctx, op, query, limit)
}

// SearchWorks ищет работы по подстроке в названии или описании без учёта регистра.
func (s *Storage) SearchWorks(ctx context.Context, search string) ([]*models.FinalWork, error) {
	const op = "storage.SearchWorks"
	query := `SELECT ` + workColumns + `
			  FROM final_works w
			  JOIN students st ON st.uid = w.student_uid
			  WHERE w.title ILIKE '%' || $1 || '%' OR w.description ILIKE '%' || $1 || '%'
			  ORDER BY w.submitted_at DESC`
	return s.queryWorks(ctx, op, query, search)
}

// FilterWorksByTags возвращает работы, отмеченные любым из перечисленных тегов.
func (s *Storage) FilterWorksByTags(ctx context.Context, tagNames []string) ([]*models.FinalWork, error) {
	const op = "storage.FilterWorksByTags"
	query := `SELECT DISTINCT ` + workColumns + `
			  FROM final_works w
			  JOIN students st ON st.uid = w.student_uid
			  JOIN work_tags wt ON wt.final_work_id = w.id
			  JOIN tags t ON t.id = wt.tag_id
			  WHERE t.name = ANY($1)
			  ORDER BY w.submitted_at DESC`
	return s.queryWorks(ctx, op, query, tagNames)
}

// ListWorksByStudent возвращает работы одного студента.
func (s *Storage) ListWorksByStudent(ctx context.Context, studentUID string) ([]*models.FinalWork, error) {
	const op = "storage.ListWorksByStudent"
	query := `SELECT ` + workColumns + `
			  FROM final_works w
			  JOIN students st ON st.uid = w.student_uid
			  WHERE w.student_uid = $1
			  ORDER BY w.submitted_at DESC`
	return s.queryWorks(ctx, op, query, studentUID)
}

// UpdateWork обновляет работу и её теги при совпадении версии.
func (s *Storage) UpdateWork(ctx context.Context, id int64, title, description, fileURL string, tagIDs []int64, version int64) error {
	const op = "storage.UpdateWork"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `UPDATE final_works
			  SET title = $1, description = $2, file_url = $3, version = version + 1
			  WHERE id = $4 AND version = $5`
	result, err := tx.ExecContext(ctx, query, title, description, fileURL, id, version)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return s.classifyMissedWrite(ctx, op,
			`SELECT EXISTS(SELECT 1 FROM final_works WHERE id = $1)`, id)
	}

	if _, err = tx.ExecContext(ctx,
		`DELETE FROM work_tags WHERE final_work_id = $1`, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	for _, tagID := range tagIDs {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO work_tags (final_work_id, tag_id) VALUES ($1, $2)
			 ON CONFLICT DO NOTHING`, id, tagID); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeleteWork удаляет работу при совпадении версии. Комментарии, оценки,
// закладки и связи на теги удаляются каскадно.
func (s *Storage) DeleteWork(ctx context.Context, id, version int64) error {
	const op = "storage.DeleteWork"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM final_works WHERE id = $1 AND version = $2`
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
			`SELECT EXISTS(SELECT 1 FROM final_works WHERE id = $1)`, id)
	}
	return nil
}

func (s *Storage) queryWorks(ctx context.Context, op, query string, args ...any) ([]*models.FinalWork, error) {
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

	var result []*models.FinalWork
	var ids []int64
	for rows.Next() {
		w, err := scanWork(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, w)
		ids = append(ids, w.ID)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if len(ids) > 0 {
		tags, err := s.loadTagsForWorks(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		for _, w := range result {
			w.Tags = tags[w.ID]
		}
	}
	return result, nil
}

// loadTagsForWorks возвращает теги для набора работ одной выборкой.
func (s *Storage) loadTagsForWorks(ctx context.Context, workIDs []int64) (map[int64][]models.Tag, error) {
	query := `SELECT wt.final_work_id, t.id, t.name
			  FROM work_tags wt
			  JOIN tags t ON t.id = wt.tag_id
			  WHERE wt.final_work_id = ANY($1)
			  ORDER BY t.name`
	rows, err := s.DB.QueryContext(ctx, query, workIDs)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make(map[int64][]models.Tag)
	for rows.Next() {
		var workID int64
		var tag models.Tag
		if err = rows.Scan(&workID, &tag.ID, &tag.Name); err != nil {
			return nil, err
		}
		result[workID] = append(result[workID], tag)
	}
	return result, rows.Err()
}
