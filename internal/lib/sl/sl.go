// Package sl содержит вспомогательные функции платформы для работы с
// логгером slog: формирование структурированных полей лога и обработчик
// FaultCaptureHandler, который дублирует записи уровня Error в журнал
// сбоев платформы (таблица fault_logs).
package sl

import "log/slog"

// Err возвращает slog.Attr с ключом "error" и значением текста ошибки.
// Все сервисы и хендлеры платформы логируют ошибки через этот хелпер,
// чтобы поле "error" имело единый вид.
//
// Пример:
//
//	log.Error("failed to update work", sl.Err(err))
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}
