package models

import "time"

// FaultLog — запись журнала серьёзных сбоев, доступного администраторам.
type FaultLog struct {
	ID         int64     `json:"id"`          // Идентификатор записи
	Message    string    `json:"message"`     // Текст сообщения
	LoggerName string    `json:"logger_name"` // Имя компонента (op)
	Level      string    `json:"level"`       // Уровень записи
	OccurredAt time.Time `json:"occurred_at"` // Время события
}

// WelcomeEmail — событие для очереди отправки письма о успешной регистрации.
type WelcomeEmail struct {
	Email string `json:"email"` // Адрес получателя
	Name  string `json:"name"`  // Имя студента
}
