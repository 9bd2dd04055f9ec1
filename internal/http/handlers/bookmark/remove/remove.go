// Package remove реализует HTTP-обработчик удаления работы из закладок.
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

	"github.com/magabrotheeeer/finalworks-platform/internal/http/middlewarectx"
	"github.com/magabrotheeeer/finalworks-platform/internal/http/response"
	"github.com/magabrotheeeer/finalworks-platform/internal/lib/sl"
	"github.com/magabrotheeeer/finalworks-platform/internal/models"
	"github.com/magabrotheeeer/finalworks-platform/internal/storage"
)

// Handler управляет HTTP-запросами на удаление закладок.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики удаления закладки.
type Service interface {
	Remove(ctx context.Context, principal models.Principal, finalWorkID int64) error
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удалить работу из закладок
// @Tags Bookmarks
// @Produce  json
// @Param workID path int true "ID работы"
// @Success 200 {object} response.Response "Закладка удалена"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 401 {object} response.ErrorResponse "Студент не авторизован"
// @Failure 404 {object} response.ErrorResponse "Закладка не найдена"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /bookmarks/{workID} [delete]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.bookmark.remove"

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

	principal := middlewarectx.PrincipalFromContext(r.Context())
	if principal == nil {
		log.Error("principal not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	if err := h.service.Remove(r.Context(), *principal, workID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("bookmark not found"))
			return
		}
		log.Error("failed to delete bookmark", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not delete bookmark"))
		return
	}

	log.Info("success to delete bookmark", slog.Int64("work_id", workID))
	render.JSON(w, r, response.StatusOKWithData(nil))
}
