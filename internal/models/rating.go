package models

// Rating представляет оценку работы студентом.
// Пара (StudentUID, FinalWorkID) уникальна: студент оценивает работу не более одного раза.
type Rating struct {
	ID          int64  `json:"id"`            // Идентификатор оценки
	StudentUID  string `json:"student_uid"`   // Кто оценил
	FinalWorkID int64  `json:"final_work_id"` // Какую работу
	Value       int    `json:"rating"`        // Оценка от 1 до 5
	Version     int64  `json:"version"`       // Версия записи для оптимистической блокировки
}

// RatingDraft используется для приёма оценки из JSON-запроса.
type RatingDraft struct {
	Value int `json:"rating" validate:"required,min=1,max=5"` // Оценка от 1 до 5
}

// RatingSummary — агрегированная статистика оценок одной работы.
type RatingSummary struct {
	Average float64 `json:"average"` // Средняя оценка, 0 если оценок нет
	Count   int64   `json:"count"`   // Количество оценок
}
