// Package models содержит доменные структуры платформы: студентов,
// выпускные работы, комментарии, оценки, закладки и теги.
// Структуры используются в бизнес‑логике и при работе с хранилищем.
package models

import "time"

// Role — роль учётной записи. Закрытый набор значений: user или admin.
type Role string

const (
	// RoleUser — обычный студент, роль по умолчанию при регистрации.
	RoleUser Role = "user"
	// RoleAdmin — администратор платформы.
	RoleAdmin Role = "admin"
)

// Valid сообщает, входит ли роль в закрытый набор значений.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Student представляет зарегистрированного студента платформы.
// PasswordHash никогда не сериализуется наружу.
type Student struct {
	UID          string    `json:"uid"`        // Уникальный идентификатор студента
	Name         string    `json:"name"`       // Имя студента
	Email        string    `json:"email"`      // Электронная почта (уникальная, в нижнем регистре)
	PasswordHash string    `json:"-"`          // bcrypt-хэш пароля
	Role         Role      `json:"role"`       // Роль: user или admin
	Version      int64     `json:"version"`    // Версия записи для оптимистической блокировки
	CreatedAt    time.Time `json:"created_at"` // Дата регистрации
}

// Principal — контекст аутентифицированного запроса, полученный из JWT.
// Живет только в рамках одного запроса и не является записью из базы данных.
type Principal struct {
	StudentUID string // Идентификатор студента из claims
	Email      string // Электронная почта из claims
	Role       Role   // Роль из claims
}

// StudentUpdate используется для приёма данных из JSON-запроса
// на обновление учётной записи студента администратором.
type StudentUpdate struct {
	Name    string `json:"name" validate:"required,min=1,max=100"`     // Новое имя
	Email   string `json:"email" validate:"required,email,max=255"`    // Новая почта
	Role    string `json:"role" validate:"required,oneof=user admin"`  // Новая роль
	Version int64  `json:"version" validate:"required,gt=0"`           // Ожидаемая версия записи
}
