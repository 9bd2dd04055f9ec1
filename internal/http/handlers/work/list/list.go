// Package list реализует HTTP-обработчики каталога выпускных работ:
// полный список, последние загруженные, лучшие по оценкам, поиск по
// названию и фильтрацию по тегам.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/finalworks-platform/internal/http/response"
	"github.com/magabrotheeeer/finalworks-platform/internal/lib/sl"
	"github.com/magabrotheeeer/finalworks-platform/internal/models"
)

// Handler управляет HTTP-запросами каталога работ.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики каталога работ.
type Service interface {
	List(ctx context.Context) ([]*models.FinalWork, error)
	Newest(ctx context.Context, limit int) ([]*models.FinalWork, error)
	TopRated(ctx context.Context, limit int) ([]*models.FinalWork, error)
	Search(ctx context.Context, query string) ([]*models.FinalWork, error)
	FilterByTags(ctx context.Context, tagNames []string) ([]*models.FinalWork, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, op string, works []*models.FinalWork, err error) {
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
	if err != nil {
		log.Error("failed to list works", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list works"))
		return
	}
	render.JSON(w, r, response.StatusOKWithData(works))
}

// All godoc
// @Summary Список всех работ
// @Description Возвращает все выпускные работы, новые первыми.
// @Tags Works
// @Produce  json
// @Success 200 {object} response.Response{data=[]models.FinalWork} "Список работ"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /works [get]
func (h *Handler) All(w http.ResponseWriter, r *http.Request) {
	works, err := h.service.List(r.Context())
	h.respond(w, r, "handlers.work.list", works, err)
}

// Newest godoc
// @Summary Последние загруженные работы
// @Tags Works
// @Produce  json
// @Param limit query int false "Максимум записей, по умолчанию 10"
// @Success 200 {object} response.Response{data=[]models.FinalWork} "Список работ"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /works/newest [get]
func (h *Handler) Newest(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	works, err := h.service.Newest(r.Context(), limit)
	h.respond(w, r, "handlers.work.newest", works, err)
}

// TopRated godoc
// @Summary Лучшие работы по средней оценке
// @Tags Works
// @Produce  json
// @Param limit query int false "Максимум записей, по умолчанию 10"
// @Success 200 {object} response.Response{data=[]models.FinalWork} "Список работ"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /works/top-rated [get]
func (h *Handler) TopRated(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	works, err := h.service.TopRated(r.Context(), limit)
	h.respond(w, r, "handlers.work.toprated", works, err)
}

// Search godoc
// @Summary Поиск работ по названию
// @Tags Works
// @Produce  json
// @Param q query string true "Подстрока названия"
// @Success 200 {object} response.Response{data=[]models.FinalWork} "Найденные работы"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /works/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	works, err := h.service.Search(r.Context(), r.URL.Query().Get("q"))
	h.respond(w, r, "handlers.work.search", works, err)
}

// Filter godoc
// @Summary Фильтрация работ по тегам
// @Description Возвращает работы, имеющие хотя бы один из перечисленных тегов.
// @Tags Works
// @Produce  json
// @Param tags query string true "Имена тегов через запятую"
// @Success 200 {object} response.Response{data=[]models.FinalWork} "Отфильтрованные работы"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /works/filter [get]
func (h *Handler) Filter(w http.ResponseWriter, r *http.Request) {
	tags := strings.Split(r.URL.Query().Get("tags"), ",")
	works, err := h.service.FilterByTags(r.Context(), tags)
	h.respond(w, r, "handlers.work.filter", works, err)
}
