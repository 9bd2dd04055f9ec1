package storage

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// Ошибки-сигналы хранилища. Сервисы различают их через errors.Is
// и обязаны обработать оба исхода: конфликт и отсутствие записи.
var (
	// ErrNotFound — запрошенная запись отсутствует.
	ErrNotFound = errors.New("not found")
	// ErrConflict — запись существует, но с другой версией, либо нарушена
	// уникальность (почта, пара студент-работа, имя тега).
	ErrConflict = errors.New("conflict")
)

// isUniqueViolation сообщает, что ошибка вызвана нарушением уникального ограничения.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// isForeignKeyViolation сообщает, что ошибка вызвана ссылкой на отсутствующую запись.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation
}
