// Package remove реализует HTTP-обработчик удаления выпускной работы.
//
// Ожидаемая версия записи передаётся параметром запроса version;
// несовпадение версии возвращает 409.
package remove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/finalworks-platform/internal/http/response"
	"github.com/magabrotheeeer/finalworks-platform/internal/lib/sl"
	"github.com/magabrotheeeer/finalworks-platform/internal/storage"
)

// Handler управляет HTTP-запросами на удаление работ.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики удаления работы.
type Service interface {
	Delete(ctx context.Context, id, version int64) error
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удалить выпускную работу
// @Description Удаляет работу при совпадении версии записи. Доступно администраторам.
// @Tags Works
// @Produce  json
// @Param id path int true "ID работы"
// @Param version query int true "Ожидаемая версия записи"
// @Success 200 {object} response.Response "Работа удалена"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID или версия"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Работа не найдена"
// @Failure 409 {object} response.ErrorResponse "Работа изменена параллельно"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /works/{id} [delete]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.work.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("invalid id format", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid id"))
		return
	}

	version, err := strconv.ParseInt(r.URL.Query().Get("version"), 10, 64)
	if err != nil || version <= 0 {
		log.Error("invalid version format")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid version"))
		return
	}

	if err := h.service.Delete(r.Context(), id, version); err != nil {
		switch {
		case errors.Is(err, storage.ErrConflict):
			log.Info("delete rejected, version conflict", slog.Int64("id", id))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("work was modified by another user, refresh and try again"))
		case errors.Is(err, storage.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("work not found"))
		default:
			log.Error("failed to delete work", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not delete work"))
		}
		return
	}

	log.Info("success to delete work", slog.Int64("id", id))
	render.JSON(w, r, response.StatusOKWithData(nil))
}
