// Package services содержит административную логику управления студентами.
package services

import (
	"context"
	"log/slog"

	"github.com/magabrotheeeer/finalworks-platform/internal/models"
	auth "github.com/magabrotheeeer/finalworks-platform/internal/services/auth"
)

// StudentRepository определяет методы для работы со студентами в хранилище.
type StudentRepository interface {
	// GetStudent возвращает студента по UID.
	GetStudent(ctx context.Context, uid string) (*models.Student, error)
	// ListStudents возвращает всех студентов.
	ListStudents(ctx context.Context) ([]*models.Student, error)
	// UpdateStudent обновляет профиль при совпадении версии.
	UpdateStudent(ctx context.Context, uid, name, email string, role models.Role, version int64) error
	// DeleteStudent удаляет студента при совпадении версии.
	// Работы, оценки и закладки удаляются каскадно.
	DeleteStudent(ctx context.Context, uid string, version int64) error
}

// StudentService реализует административные операции над студентами.
type StudentService struct {
	repo StudentRepository
	log  *slog.Logger
}

// NewStudentService создает новый экземпляр StudentService.
func NewStudentService(repo StudentRepository, log *slog.Logger) *StudentService {
	return &StudentService{repo: repo, log: log}
}

// Read возвращает студента по UID.
func (s *StudentService) Read(ctx context.Context, uid string) (*models.Student, error) {
	return s.repo.GetStudent(ctx, uid)
}

// List возвращает всех студентов.
func (s *StudentService) List(ctx context.Context) ([]*models.Student, error) {
	return s.repo.ListStudents(ctx)
}

// Update обновляет профиль студента при совпадении версии.
// Несовпадение версии отдаёт конфликт без повторных попыток.
func (s *StudentService) Update(ctx context.Context, uid string, upd models.StudentUpdate, version int64) error {
	if err := s.repo.UpdateStudent(ctx, uid, upd.Name, auth.NormalizeEmail(upd.Email), models.Role(upd.Role), version); err != nil {
		return err
	}
	s.log.Info("updated student", slog.String("uid", uid))
	return nil
}

// Delete удаляет студента при совпадении версии вместе с его работами,
// оценками и закладками.
func (s *StudentService) Delete(ctx context.Context, uid string, version int64) error {
	if err := s.repo.DeleteStudent(ctx, uid, version); err != nil {
		return err
	}
	s.log.Info("deleted student", slog.String("uid", uid))
	return nil
}
