package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/finalworks-platform/internal/models"
)

// CreateStudent сохраняет нового студента и возвращает его UID.
// Повтор почты даёт ErrConflict: уникальность обеспечивает база данных.
func (s *Storage) CreateStudent(ctx context.Context, student models.Student) (string, error) {
	const op = "storage.CreateStudent"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO students (name, email, password_hash, role)
			  VALUES ($1, $2, $3, $4)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		student.Name, student.Email, student.PasswordHash, student.Role).Scan(&newUID); err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("%s: %w", op, ErrConflict)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetStudentByEmail возвращает студента по нормализованной почте.
func (s *Storage) GetStudentByEmail(ctx context.Context, email string) (*models.Student, error) {
	const op = "storage.GetStudentByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, name, email, password_hash, role, version, created_at
			  FROM students
			  WHERE email = $1`
	st := &models.Student{}
	row := s.DB.QueryRowContext(ctx, query, email)
	if err := row.Scan(&st.UID, &st.Name, &st.Email, &st.PasswordHash,
		&st.Role, &st.Version, &st.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return st, nil
}

// GetStudent возвращает студента по его UID.
func (s *Storage) GetStudent(ctx context.Context, uid string) (*models.Student, error) {
	const op = "storage.GetStudent"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, name, email, password_hash, role, version, created_at
			  FROM students
			  WHERE uid = $1`
	st := &models.Student{}
	row := s.DB.QueryRowContext(ctx, query, uid)
	if err := row.Scan(&st.UID, &st.Name, &st.Email, &st.PasswordHash,
		&st.Role, &st.Version, &st.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return st, nil
}

// ListStudents возвращает всех студентов в порядке регистрации.
func (s *Storage) ListStudents(ctx context.Context) ([]*models.Student, error) {
	const op = "storage.ListStudents"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, name, email, password_hash, role, version, created_at
			  FROM students
			  ORDER BY created_at`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Student
	for rows.Next() {
		var st models.Student
		if err = rows.Scan(&st.UID, &st.Name, &st.Email, &st.PasswordHash,
			&st.Role, &st.Version, &st.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &st)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateStudent обновляет учётную запись при совпадении версии.
// Гонка с другим писателем даёт ErrConflict, отсутствие записи — ErrNotFound.
func (s *Storage) UpdateStudent(ctx context.Context, uid, name, email string, role models.Role, version int64) error {
	const op = "storage.UpdateStudent"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE students
			  SET name = $1, email = $2, role = $3, version = version + 1
			  WHERE uid = $4 AND version = $5`
	result, err := s.DB.ExecContext(ctx, query, name, email, role, uid, version)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%s: %w", op, ErrConflict)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return s.classifyMissedWrite(ctx, op,
			`SELECT EXISTS(SELECT 1 FROM students WHERE uid = $1)`, uid)
	}
	return nil
}

// DeleteStudent удаляет студента при совпадении версии. Работы, комментарии,
// оценки и закладки студента удаляются каскадно на уровне базы данных.
func (s *Storage) DeleteStudent(ctx context.Context, uid string, version int64) error {
	const op = "storage.DeleteStudent"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM students WHERE uid = $1 AND version = $2`
	result, err := s.DB.ExecContext(ctx, query, uid, version)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return s.classifyMissedWrite(ctx, op,
			`SELECT EXISTS(SELECT 1 FROM students WHERE uid = $1)`, uid)
	}
	return nil
}
