package models

import "time"

// Bookmark представляет закладку студента на выпускную работу.
// Пара (StudentUID, FinalWorkID) уникальна.
type Bookmark struct {
	ID           int64     `json:"id"`            // Идентификатор закладки
	StudentUID   string    `json:"student_uid"`   // Владелец закладки
	FinalWorkID  int64     `json:"final_work_id"` // Работа в закладке
	WorkTitle    string    `json:"work_title"`    // Название работы (из join с final_works)
	BookmarkedAt time.Time `json:"bookmarked_at"` // Дата добавления
	Version      int64     `json:"version"`       // Версия записи для оптимистической блокировки
}
