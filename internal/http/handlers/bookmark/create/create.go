// Package create реализует HTTP-обработчик добавления работы в закладки.
//
// Повторное добавление той же работы возвращает 409.
package create

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
	bookmarkservice "github.com/magabrotheeeer/finalworks-platform/internal/services/bookmark"
	"github.com/magabrotheeeer/finalworks-platform/internal/storage"
)

// Handler управляет HTTP-запросами на добавление закладок.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики закладок.
type Service interface {
	Add(ctx context.Context, principal models.Principal, finalWorkID int64) (int64, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Добавить работу в закладки
// @Description Сохраняет закладку текущего студента. Повторное добавление возвращает 409.
// @Tags Bookmarks
// @Produce  json
// @Param workID path int true "ID работы"
// @Success 200 {object} map[string]any "Закладка добавлена"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 401 {object} response.ErrorResponse "Студент не авторизован"
// @Failure 404 {object} response.ErrorResponse "Работа не найдена"
// @Failure 409 {object} response.ErrorResponse "Работа уже в закладках"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /bookmarks/{workID} [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.bookmark.create"

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

	id, err := h.service.Add(r.Context(), *principal, workID)
	if err != nil {
		switch {
		case errors.Is(err, bookmarkservice.ErrAlreadyBookmarked):
			log.Info("bookmark rejected, already bookmarked", slog.Int64("work_id", workID))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("work already bookmarked"))
		case errors.Is(err, storage.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("work not found"))
		default:
			log.Error("failed to create bookmark", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not create bookmark"))
		}
		return
	}

	log.Info("success to create bookmark", slog.Int64("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"id": id,
	}))
}
