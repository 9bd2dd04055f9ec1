// Package summary реализует HTTP-обработчик статистики оценок работы.
package summary

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/finalworks-platform/internal/http/response"
	"github.com/magabrotheeeer/finalworks-platform/internal/lib/sl"
	"github.com/magabrotheeeer/finalworks-platform/internal/models"
)

// Handler управляет HTTP-запросами статистики оценок.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики статистики оценок.
type Service interface {
	Summary(ctx context.Context, finalWorkID int64) (*models.RatingSummary, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Статистика оценок работы
// @Description Возвращает среднюю оценку и количество оценок. Работа без оценок даёт среднюю 0 и количество 0.
// @Tags Ratings
// @Produce  json
// @Param workID path int true "ID работы"
// @Success 200 {object} response.Response{data=models.RatingSummary} "Статистика оценок"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /ratings/{workID}/summary [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.rating.summary"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	workID, err := strconv.ParseInt(chi.URLParam(r, "workID"), 10, 64)
	if err != nil {
		log.Error("invalid work id format", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid work id"))
		return
	}

	summary, err := h.service.Summary(r.Context(), workID)
	if err != nil {
		log.Error("failed to read rating summary", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read rating summary"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(summary))
}
