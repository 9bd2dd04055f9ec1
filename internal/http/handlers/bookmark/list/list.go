// Package list реализует HTTP-обработчик чтения закладок студента.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/finalworks-platform/internal/http/middlewarectx"
	"github.com/magabrotheeeer/finalworks-platform/internal/http/response"
	"github.com/magabrotheeeer/finalworks-platform/internal/lib/sl"
	"github.com/magabrotheeeer/finalworks-platform/internal/models"
)

// Handler управляет HTTP-запросами на чтение закладок.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения закладок.
type Service interface {
	List(ctx context.Context, principal models.Principal) ([]*models.Bookmark, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Закладки текущего студента
// @Tags Bookmarks
// @Produce  json
// @Success 200 {object} response.Response{data=[]models.Bookmark} "Список закладок"
// @Failure 401 {object} response.ErrorResponse "Студент не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /bookmarks [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.bookmark.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	principal := middlewarectx.PrincipalFromContext(r.Context())
	if principal == nil {
		log.Error("principal not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	bookmarks, err := h.service.List(r.Context(), *principal)
	if err != nil {
		log.Error("failed to list bookmarks", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list bookmarks"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(bookmarks))
}
