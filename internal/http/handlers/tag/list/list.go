// Package list реализует HTTP-обработчики справочника тегов:
// полный список и популярные теги.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/finalworks-platform/internal/http/response"
	"github.com/magabrotheeeer/finalworks-platform/internal/lib/sl"
	"github.com/magabrotheeeer/finalworks-platform/internal/models"
)

// Handler управляет HTTP-запросами справочника тегов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики справочника тегов.
type Service interface {
	List(ctx context.Context) ([]*models.Tag, error)
	Popular(ctx context.Context) ([]*models.Tag, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, op string, tags []*models.Tag, err error) {
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
	if err != nil {
		log.Error("failed to list tags", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list tags"))
		return
	}
	render.JSON(w, r, response.StatusOKWithData(tags))
}

// All godoc
// @Summary Список всех тегов
// @Tags Tags
// @Produce  json
// @Success 200 {object} response.Response{data=[]models.Tag} "Список тегов"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /tags [get]
func (h *Handler) All(w http.ResponseWriter, r *http.Request) {
	tags, err := h.service.List(r.Context())
	h.respond(w, r, "handlers.tag.list", tags, err)
}

// Popular godoc
// @Summary Популярные теги
// @Description Возвращает теги в порядке убывания числа работ.
// @Tags Tags
// @Produce  json
// @Success 200 {object} response.Response{data=[]models.Tag} "Популярные теги"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /tags/popular [get]
func (h *Handler) Popular(w http.ResponseWriter, r *http.Request) {
	tags, err := h.service.Popular(r.Context())
	h.respond(w, r, "handlers.tag.popular", tags, err)
}
