// Package create реализует HTTP-обработчик выставления оценки работе.
//
// Студент оценивает работу не более одного раза: повторная оценка
// возвращает 409, существующая оценка не меняется.
package create

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
	ratingservice "github.com/magabrotheeeer/finalworks-platform/internal/services/rating"
	"github.com/magabrotheeeer/finalworks-platform/internal/storage"
)

// Handler управляет HTTP-запросами на выставление оценок.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики оценивания.
type Service interface {
	Rate(ctx context.Context, principal models.Principal, finalWorkID int64, draft models.RatingDraft) (int64, error)
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
// @Summary Оценить работу
// @Description Сохраняет оценку студента от 1 до 5. Повторная оценка той же работы возвращает 409.
// @Tags Ratings
// @Accept  json
// @Produce  json
// @Param workID path int true "ID работы"
// @Param request body models.RatingDraft true "Оценка от 1 до 5"
// @Success 200 {object} map[string]any "Оценка сохранена"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или ID"
// @Failure 401 {object} response.ErrorResponse "Студент не авторизован"
// @Failure 404 {object} response.ErrorResponse "Работа не найдена"
// @Failure 409 {object} response.ErrorResponse "Работа уже оценена"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /ratings/{workID} [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.rating.create"

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

	var req models.RatingDraft
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

	id, err := h.service.Rate(r.Context(), *principal, workID, req)
	if err != nil {
		switch {
		case errors.Is(err, ratingservice.ErrAlreadyRated):
			log.Info("rating rejected, already rated", slog.Int64("work_id", workID))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("work already rated"))
		case errors.Is(err, storage.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("work not found"))
		default:
			log.Error("failed to create rating", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not create rating"))
		}
		return
	}

	log.Info("success to create rating", slog.Int64("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"id": id,
	}))
}
