// Package faultlog реализует административные HTTP-обработчики журнала сбоев.
package faultlog

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/finalworks-platform/internal/http/response"
	"github.com/magabrotheeeer/finalworks-platform/internal/lib/sl"
	"github.com/magabrotheeeer/finalworks-platform/internal/models"
)

// Handler управляет HTTP-запросами журнала сбоев.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики журнала сбоев.
type Service interface {
	List(ctx context.Context) ([]*models.FaultLog, error)
	Recent(ctx context.Context, hours int) ([]*models.FaultLog, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, op string, entries []*models.FaultLog, err error) {
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
	if err != nil {
		log.Error("failed to list fault logs", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list fault logs"))
		return
	}
	render.JSON(w, r, response.StatusOKWithData(entries))
}

// List godoc
// @Summary Журнал сбоев
// @Description Возвращает все записи журнала сбоев, новые первыми. Доступно администраторам.
// @Tags FaultLogs
// @Produce  json
// @Success 200 {object} response.Response{data=[]models.FaultLog} "Записи журнала"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /fault-logs [get]
// @Security BearerAuth
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.List(r.Context())
	h.respond(w, r, "handlers.faultlog.list", entries, err)
}

// Recent godoc
// @Summary Недавние сбои
// @Description Возвращает записи за последние hours часов, по умолчанию за сутки.
// @Tags FaultLogs
// @Produce  json
// @Param hours query int false "Глубина выборки в часах"
// @Success 200 {object} response.Response{data=[]models.FaultLog} "Записи журнала"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /fault-logs/recent [get]
// @Security BearerAuth
func (h *Handler) Recent(w http.ResponseWriter, r *http.Request) {
	hours, _ := strconv.Atoi(r.URL.Query().Get("hours"))
	entries, err := h.service.Recent(r.Context(), hours)
	h.respond(w, r, "handlers.faultlog.recent", entries, err)
}
