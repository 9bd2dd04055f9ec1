// Package storage реализует хранилище данных на основе PostgreSQL
// для платформы выпускных работ. Предоставляет методы работы со студентами,
// работами, комментариями, оценками, закладками, тегами и журналом сбоев.
//
// Все записи с изменяемым состоянием несут колонку version: запись обновляется
// только при совпадении версии, при гонке второй писатель получает ErrConflict.
// Хранилище не повторяет неудавшиеся записи — решение о повторе за вызывающим.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Storage инкапсулирует соединение с базой данных PostgreSQL.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL и проверяет его доступность.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// classifyMissedWrite разбирает исход условной записи, не изменившей ни одной строки:
// запись существует с другой версией — ErrConflict, записи нет — ErrNotFound.
func (s *Storage) classifyMissedWrite(ctx context.Context, op, existsQuery string, args ...any) error {
	var exists bool
	if err := s.DB.QueryRowContext(ctx, existsQuery, args...).Scan(&exists); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if exists {
		return fmt.Errorf("%s: %w", op, ErrConflict)
	}
	return fmt.Errorf("%s: %w", op, ErrNotFound)
}
