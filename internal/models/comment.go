package models

import "time"

// Comment представляет комментарий к выпускной работе.
type Comment struct {
	ID          int64     `json:"id"`            // Идентификатор комментария
	FinalWorkID int64     `json:"final_work_id"` // Работа, к которой оставлен комментарий
	AuthorName  string    `json:"author_name"`   // Имя автора на момент написания
	Content     string    `json:"content"`       // Текст комментария
	CreatedAt   time.Time `json:"created_at"`    // Дата создания
	Version     int64     `json:"version"`       // Версия записи для оптимистической блокировки
}

// CommentDraft используется для приёма текста комментария из JSON-запроса.
type CommentDraft struct {
	Content string `json:"content" validate:"required,min=1,max=2000"` // Текст комментария
}
