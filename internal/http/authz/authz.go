// Package authz реализует статическую таблицу правил доступа к маршрутам.
//
// Правила проверяются по порядку, применяется первое совпавшее;
// для не перечисленных маршрутов требуется аутентификация. Отказ различает
// две причины: запрос без учётных данных получает 401, запрос с недостаточной
// ролью — 403.
package authz

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/finalworks-platform/internal/http/middlewarectx"
	"github.com/magabrotheeeer/finalworks-platform/internal/http/response"
	"github.com/magabrotheeeer/finalworks-platform/internal/models"
)

// Access — требуемый уровень доступа к маршруту.
type Access int

const (
	// Public — доступно без аутентификации.
	Public Access = iota
	// Authenticated — требуется любой валидный токен.
	Authenticated
	// Admin — требуется роль администратора.
	Admin
)

// Decision — результат проверки доступа.
type Decision int

const (
	// Allow — запрос пропускается.
	Allow Decision = iota
	// Unauthorized — нет учётных данных там, где они требуются.
	Unauthorized
	// Forbidden — учётные данные есть, но роли недостаточно.
	Forbidden
)

// Rule — одно правило доступа: метод, префикс пути и требуемый уровень.
// Пустой метод совпадает с любым.
type Rule struct {
	Method string
	Prefix string
	Access Access
}

// Policy — упорядоченный набор правил доступа.
type Policy struct {
	rules []Rule
}

// NewPolicy создает политику из упорядоченного списка правил.
func NewPolicy(rules []Rule) *Policy {
	return &Policy{rules: rules}
}

// DefaultRules — таблица доступа платформы. Чтение каталога работ,
// комментариев, оценок и тегов открыто всем; управление студентами и журнал
// сбоев доступны администраторам; удаление работ — тоже администраторам.
func DefaultRules() []Rule {
	return []Rule{
		{Method: "", Prefix: "/api/v1/auth/", Access: Public},
		{Method: http.MethodGet, Prefix: "/api/v1/works", Access: Public},
		{Method: http.MethodDelete, Prefix: "/api/v1/works/", Access: Admin},
		{Method: http.MethodGet, Prefix: "/api/v1/ratings/", Access: Public},
		{Method: http.MethodGet, Prefix: "/api/v1/tags", Access: Public},
		{Method: "", Prefix: "/api/v1/students", Access: Admin},
		{Method: "", Prefix: "/api/v1/fault-logs", Access: Admin},
		{Method: http.MethodGet, Prefix: "/metrics", Access: Public},
		{Method: http.MethodGet, Prefix: "/docs", Access: Public},
		{Method: http.MethodGet, Prefix: "/health", Access: Public},
	}
}

// Evaluate проверяет доступ к маршруту для переданного студента.
// principal равен nil для анонимного запроса.
func (p *Policy) Evaluate(method, path string, principal *models.Principal) Decision {
	access := Authenticated
	for _, rule := range p.rules {
		if rule.Method != "" && rule.Method != method {
			continue
		}
		if !strings.HasPrefix(path, rule.Prefix) {
			continue
		}
		access = rule.Access
		break
	}

	switch access {
	case Public:
		return Allow
	case Authenticated:
		if principal == nil {
			return Unauthorized
		}
		return Allow
	case Admin:
		if principal == nil {
			return Unauthorized
		}
		if principal.Role != models.RoleAdmin {
			return Forbidden
		}
		return Allow
	default:
		return Unauthorized
	}
}

// Middleware возвращает HTTP middleware, применяющий политику к запросам.
func (p *Policy) Middleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "authz.Middleware"

			principal := middlewarectx.PrincipalFromContext(r.Context())
			switch p.Evaluate(r.Method, r.URL.Path, principal) {
			case Allow:
				next.ServeHTTP(w, r)
			case Unauthorized:
				log.Info("unauthenticated request rejected",
					slog.String("op", op),
					slog.String("path", r.URL.Path),
					slog.String("request_id", middleware.GetReqID(r.Context())))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("authentication required"))
			case Forbidden:
				log.Info("forbidden request rejected",
					slog.String("op", op),
					slog.String("path", r.URL.Path),
					slog.String("request_id", middleware.GetReqID(r.Context())))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("insufficient permissions"))
			}
		})
	}
}
