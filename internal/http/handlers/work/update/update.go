// Package update реализует HTTP-обработчик обновления выпускной работы.
//
// Запрос несёт новые данные работы и ожидаемую версию записи. Несовпадение
// версии означает параллельное изменение и возвращает 409; повторные попытки
// остаются на усмотрение клиента.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/finalworks-platform/internal/http/middlewarectx"
	"github.com/magabrotheeeer/finalworks-platform/internal/http/response"
	"github.com/magabrotheeeer/finalworks-platform/internal/lib/sl"
	"github.com/magabrotheeeer/finalworks-platform/internal/models"
	workservice "github.com/magabrotheeeer/finalworks-platform/internal/services/work"
	"github.com/magabrotheeeer/finalworks-platform/internal/storage"
)

// Request — данные работы вместе с ожидаемой версией записи.
type Request struct {
	models.WorkDraft
	Version int64 `json:"version" validate:"required,gt=0"`
}

// Handler управляет HTTP-запросами на обновление работ.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики обновления работы.
type Service interface {
	Update(ctx context.Context, principal models.Principal, id int64, draft models.WorkDraft, version int64) error
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Обновить выпускную работу
// @Description Обновляет работу при совпадении версии записи. Разрешено автору и администратору.
// @Tags Works
// @Accept  json
// @Produce  json
// @Param id path int true "ID работы"
// @Param request body Request true "Новые данные работы и ожидаемая версия"
// @Success 200 {object} response.Response "Работа обновлена"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или ID"
// @Failure 401 {object} response.ErrorResponse "Студент не авторизован"
// @Failure 403 {object} response.ErrorResponse "Работа принадлежит другому студенту"
// @Failure 404 {object} response.ErrorResponse "Работа не найдена"
// @Failure 409 {object} response.ErrorResponse "Работа изменена параллельно"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /works/{id} [put]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.work.update"

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

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	principal := middlewarectx.PrincipalFromContext(r.Context())
	if principal == nil {
		log.Error("principal not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	err = h.service.Update(r.Context(), *principal, id, req.WorkDraft, req.Version)
	if err != nil {
		switch {
		case errors.Is(err, workservice.ErrNotOwner):
			log.Info("update rejected, not the owner", slog.Int64("id", id))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("work belongs to another student"))
		case errors.Is(err, storage.ErrConflict):
			log.Info("update rejected, version conflict", slog.Int64("id", id))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("work was modified by another user, refresh and try again"))
		case errors.Is(err, storage.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("work not found"))
		default:
			log.Error("failed to update work", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not update work"))
		}
		return
	}

	log.Info("success to update work", slog.Int64("id", id))
	render.JSON(w, r, response.StatusOKWithData(nil))
}
