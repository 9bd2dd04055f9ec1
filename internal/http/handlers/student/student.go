// Package student реализует административные HTTP-обработчики управления
// учётными записями студентов: список, чтение, обновление и удаление.
// Обновление и удаление версионированы; несовпадение версии возвращает 409.
package student

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

	"github.com/magabrotheeeer/finalworks-platform/internal/http/response"
	"github.com/magabrotheeeer/finalworks-platform/internal/lib/sl"
	"github.com/magabrotheeeer/finalworks-platform/internal/models"
	"github.com/magabrotheeeer/finalworks-platform/internal/storage"
)

// Handler управляет административными HTTP-запросами к студентам.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс административной бизнес-логики студентов.
type Service interface {
	List(ctx context.Context) ([]*models.Student, error)
	Read(ctx context.Context, uid string) (*models.Student, error)
	Update(ctx context.Context, uid string, upd models.StudentUpdate, version int64) error
	Delete(ctx context.Context, uid string, version int64) error
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

func (h *Handler) logger(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

// List godoc
// @Summary Список студентов
// @Description Возвращает все учётные записи. Доступно администраторам.
// @Tags Students
// @Produce  json
// @Success 200 {object} response.Response{data=[]models.Student} "Список студентов"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /students [get]
// @Security BearerAuth
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.student.list")

	students, err := h.service.List(r.Context())
	if err != nil {
		log.Error("failed to list students", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list students"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(students))
}

// Read godoc
// @Summary Учётная запись студента
// @Tags Students
// @Produce  json
// @Param uid path string true "UID студента"
// @Success 200 {object} response.Response{data=models.Student} "Студент найден"
// @Failure 404 {object} response.ErrorResponse "Студент не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /students/{uid} [get]
// @Security BearerAuth
func (h *Handler) Read(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.student.read")

	uid := chi.URLParam(r, "uid")
	student, err := h.service.Read(r.Context(), uid)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("student not found"))
			return
		}
		log.Error("failed to read student", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read student"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(student))
}

// Update godoc
// @Summary Обновить учётную запись студента
// @Description Обновляет имя, почту и роль при совпадении версии записи.
// @Tags Students
// @Accept  json
// @Produce  json
// @Param uid path string true "UID студента"
// @Param request body models.StudentUpdate true "Новые данные и ожидаемая версия"
// @Success 200 {object} response.Response "Студент обновлен"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 404 {object} response.ErrorResponse "Студент не найден"
// @Failure 409 {object} response.ErrorResponse "Запись изменена параллельно или почта занята"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /students/{uid} [put]
// @Security BearerAuth
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.student.update")

	uid := chi.URLParam(r, "uid")

	var req models.StudentUpdate
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

	if err := h.service.Update(r.Context(), uid, req, req.Version); err != nil {
		switch {
		case errors.Is(err, storage.ErrConflict):
			log.Info("update rejected, conflict", slog.String("uid", uid))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("student was modified by another user, refresh and try again"))
		case errors.Is(err, storage.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("student not found"))
		default:
			log.Error("failed to update student", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not update student"))
		}
		return
	}

	log.Info("success to update student", slog.String("uid", uid))
	render.JSON(w, r, response.StatusOKWithData(nil))
}

// Delete godoc
// @Summary Удалить учётную запись студента
// @Description Удаляет студента при совпадении версии записи. Его работы, оценки и закладки удаляются каскадно.
// @Tags Students
// @Produce  json
// @Param uid path string true "UID студента"
// @Param version query int true "Ожидаемая версия записи"
// @Success 200 {object} response.Response "Студент удален"
// @Failure 400 {object} response.ErrorResponse "Некорректная версия"
// @Failure 404 {object} response.ErrorResponse "Студент не найден"
// @Failure 409 {object} response.ErrorResponse "Запись изменена параллельно"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /students/{uid} [delete]
// @Security BearerAuth
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.student.delete")

	uid := chi.URLParam(r, "uid")

	version, err := strconv.ParseInt(r.URL.Query().Get("version"), 10, 64)
	if err != nil || version <= 0 {
		log.Error("invalid version format")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid version"))
		return
	}

	if err := h.service.Delete(r.Context(), uid, version); err != nil {
		switch {
		case errors.Is(err, storage.ErrConflict):
			log.Info("delete rejected, version conflict", slog.String("uid", uid))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("student was modified by another user, refresh and try again"))
		case errors.Is(err, storage.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("student not found"))
		default:
			log.Error("failed to delete student", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not delete student"))
		}
		return
	}

	log.Info("success to delete student", slog.String("uid", uid))
	render.JSON(w, r, response.StatusOKWithData(nil))
}
