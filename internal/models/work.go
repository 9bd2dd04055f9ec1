// Package models содержит доменные структуры, описывающие выпускную работу,
// а также вспомогательные типы для работы с данными из внешних источников (например, JSON-запросы).
package models

import "time"

// FinalWork представляет собой выпускную работу студента,
// используемую в бизнес-логике и хранилище.
type FinalWork struct {
	ID           int64     `json:"id"`            // Идентификатор работы
	Title        string    `json:"title"`         // Название работы
	Description  string    `json:"description"`   // Описание работы
	FileURL      string    `json:"file_url"`      // Ссылка на загруженный файл
	StudentUID   string    `json:"student_uid"`   // Идентификатор автора
	StudentName  string    `json:"student_name"`  // Имя автора (из join со students)
	StudentEmail string    `json:"student_email"` // Почта автора
	SubmittedAt  time.Time `json:"submitted_at"`  // Дата загрузки
	Version      int64     `json:"version"`       // Версия записи для оптимистической блокировки
	Tags         []Tag     `json:"tags"`          // Теги работы
}

// WorkDraft используется для приёма данных из JSON-запроса
// на создание или обновление работы, прежде чем конвертировать их в FinalWork.
type WorkDraft struct {
	Title       string   `json:"title" validate:"required,min=1,max=200"`    // Название
	Description string   `json:"description" validate:"max=5000"`            // Описание
	FileURL     string   `json:"file_url" validate:"required,max=500"`       // Ссылка на файл
	Tags        []string `json:"tags" validate:"dive,min=1,max=50"`          // Имена тегов
}
