package models

// Tag представляет тег работы, уникальный по нормализованному имени.
// Теги общие: один тег может принадлежать многим работам.
type Tag struct {
	ID   int64  `json:"id"`   // Идентификатор тега
	Name string `json:"name"` // Имя тега (после TrimSpace)
}

// TagDraft используется для приёма имени тега из JSON-запроса.
type TagDraft struct {
	Name string `json:"name" validate:"required,min=1,max=50"` // Имя тега
}
