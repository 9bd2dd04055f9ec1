// Package services содержит логику бизнес-уровня для регистрации,
// входа и проверки токенов студентов.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/finalworks-platform/internal/lib/jwt"
	"github.com/magabrotheeeer/finalworks-platform/internal/lib/password"
	"github.com/magabrotheeeer/finalworks-platform/internal/lib/sl"
	"github.com/magabrotheeeer/finalworks-platform/internal/models"
	"github.com/magabrotheeeer/finalworks-platform/internal/storage"
)

// Ошибки бизнес-уровня аутентификации.
var (
	// ErrInvalidCredentials — неизвестная почта или неверный пароль.
	// Причины намеренно неразличимы для вызывающего.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken — учётная запись с такой почтой уже существует.
	ErrEmailTaken = errors.New("email already taken")
)

// dummyHash — bcrypt-хэш случайной строки. Сравнение с ним выполняется,
// когда почта не найдена, чтобы время ответа не выдавало существование
// учётной записи.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// StudentRepository описывает контракт для работы со студентами в базе данных.
type StudentRepository interface {
	// CreateStudent сохраняет нового студента и возвращает его UID.
	CreateStudent(ctx context.Context, student models.Student) (string, error)

	// GetStudentByEmail возвращает студента по почте или ошибку, если не найден.
	GetStudentByEmail(ctx context.Context, email string) (*models.Student, error)
}

// EmailPublisher публикует событие для отправки письма о регистрации.
type EmailPublisher interface {
	PublishWelcomeEmail(msg models.WelcomeEmail) error
}

// AuthService отвечает за регистрацию, вход и валидацию JWT.
type AuthService struct {
	students StudentRepository
	jwtMaker jwt.Maker
	emails   EmailPublisher
	log      *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
// emails может быть nil: отправка писем необязательна.
func NewAuthService(students StudentRepository, jwtMaker jwt.Maker, emails EmailPublisher, log *slog.Logger) *AuthService {
	return &AuthService{
		students: students,
		jwtMaker: jwtMaker,
		emails:   emails,
		log:      log,
	}
}

// NormalizeEmail приводит почту к каноническому виду: без пробелов, в нижнем регистре.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register создает нового студента с хэшированием пароля и дефолтной ролью user,
// после чего выдаёт токен точно так же, как вход. Повтор почты даёт ErrEmailTaken.
func (s *AuthService) Register(ctx context.Context, name, email, rawPassword string) (token, uid string, err error) {
	const op = "auth.Register"

	email = NormalizeEmail(email)
	hashed, err := password.Hash(rawPassword)
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}

	student := models.Student{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hashed,
		Role:         models.RoleUser, // дефолтная роль при регистрации
	}
	uid, err = s.students.CreateStudent(ctx, student)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return "", "", fmt.Errorf("%s: %w", op, ErrEmailTaken)
		}
		return "", "", fmt.Errorf("%s: %w", op, err)
	}

	token, err = s.jwtMaker.GenerateToken(email, string(models.RoleUser), uid)
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}

	if s.emails != nil {
		// Письмо о регистрации не должно ломать саму регистрацию.
		if err := s.emails.PublishWelcomeEmail(models.WelcomeEmail{Email: email, Name: student.Name}); err != nil {
			s.log.Warn("failed to publish welcome email", sl.Err(err))
		}
	}

	return token, uid, nil
}

// Login проверяет пароль студента и выдаёт JWT с его текущей ролью.
//
// Неизвестная почта и неверный пароль дают один и тот же результат:
// ErrInvalidCredentials, с выравненным временем ответа.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (token string, role models.Role, err error) {
	const op = "auth.Login"

	email = NormalizeEmail(email)
	student, err := s.students.GetStudentByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			_ = password.Verify(dummyHash, rawPassword)
			return "", "", ErrInvalidCredentials
		}
		return "", "", fmt.Errorf("%s: %w", op, err)
	}
	if err := password.Verify(student.PasswordHash, rawPassword); err != nil {
		return "", "", ErrInvalidCredentials
	}

	token, err = s.jwtMaker.GenerateToken(student.Email, string(student.Role), student.UID)
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}
	return token, student.Role, nil
}

// ValidateToken проверяет JWT и возвращает запросный контекст студента.
// Никаких обращений к базе: удалённый после выдачи токена студент остаётся
// «валидным» до истечения срока жизни токена.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*models.Principal, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, err
	}
	return &models.Principal{
		StudentUID: claims.StudentUID,
		Email:      claims.Email,
		Role:       models.Role(claims.Role),
	}, nil
}
