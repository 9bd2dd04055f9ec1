package authz_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/magabrotheeeer/finalworks-platform/internal/http/authz"
	"github.com/magabrotheeeer/finalworks-platform/internal/http/middlewarectx"
	"github.com/magabrotheeeer/finalworks-platform/internal/models"
	"github.com/stretchr/testify/assert"
)

var (
	user  = &models.Principal{StudentUID: "uid-user", Role: models.RoleUser}
	admin = &models.Principal{StudentUID: "uid-admin", Role: models.RoleAdmin}
)

func TestPolicy_Evaluate(t *testing.T) {
	policy := authz.NewPolicy(authz.DefaultRules())

	tests := []struct {
		name      string
		method    string
		path      string
		principal *models.Principal
		want      authz.Decision
	}{
		// Публичные маршруты доступны всем.
		{"register is public", http.MethodPost, "/api/v1/auth/register", nil, authz.Allow},
		{"login is public", http.MethodPost, "/api/v1/auth/login", nil, authz.Allow},
		{"work listing is public", http.MethodGet, "/api/v1/works", nil, authz.Allow},
		{"work detail is public", http.MethodGet, "/api/v1/works/7", nil, authz.Allow},
		{"comments read is public", http.MethodGet, "/api/v1/works/7/comments", nil, authz.Allow},
		{"rating summary is public", http.MethodGet, "/api/v1/ratings/7/summary", nil, authz.Allow},
		{"tags are public", http.MethodGet, "/api/v1/tags", nil, authz.Allow},
		{"metrics are public", http.MethodGet, "/metrics", nil, authz.Allow},

		// Запись требует аутентификации.
		{"anonymous cannot create work", http.MethodPost, "/api/v1/works", nil, authz.Unauthorized},
		{"user can create work", http.MethodPost, "/api/v1/works", user, authz.Allow},
		{"anonymous cannot rate", http.MethodPost, "/api/v1/ratings/7", nil, authz.Unauthorized},
		{"user can rate", http.MethodPost, "/api/v1/ratings/7", user, authz.Allow},
		{"anonymous cannot list bookmarks", http.MethodGet, "/api/v1/bookmarks", nil, authz.Unauthorized},
		{"user can list bookmarks", http.MethodGet, "/api/v1/bookmarks", user, authz.Allow},
		{"user can update own work", http.MethodPut, "/api/v1/works/7", user, authz.Allow},

		// Удаление работ и административные маршруты только для администраторов.
		{"anonymous cannot delete work", http.MethodDelete, "/api/v1/works/7", nil, authz.Unauthorized},
		{"user cannot delete work", http.MethodDelete, "/api/v1/works/7", user, authz.Forbidden},
		{"admin can delete work", http.MethodDelete, "/api/v1/works/7", admin, authz.Allow},
		{"user cannot list students", http.MethodGet, "/api/v1/students", user, authz.Forbidden},
		{"admin can list students", http.MethodGet, "/api/v1/students", admin, authz.Allow},
		{"user cannot read fault logs", http.MethodGet, "/api/v1/fault-logs", user, authz.Forbidden},
		{"admin can read fault logs", http.MethodGet, "/api/v1/fault-logs", admin, authz.Allow},

		// Не перечисленные маршруты по умолчанию требуют аутентификации.
		{"unknown route needs auth", http.MethodGet, "/api/v1/unknown", nil, authz.Unauthorized},
		{"unknown route allows user", http.MethodGet, "/api/v1/unknown", user, authz.Allow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := policy.Evaluate(tt.method, tt.path, tt.principal)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPolicy_Middleware(t *testing.T) {
	policy := authz.NewPolicy(authz.DefaultRules())
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := policy.Middleware(log)(next)

	tests := []struct {
		name       string
		method     string
		path       string
		principal  *models.Principal
		wantStatus int
	}{
		{"public route passes", http.MethodGet, "/api/v1/works", nil, http.StatusOK},
		{"missing credentials", http.MethodGet, "/api/v1/students", nil, http.StatusUnauthorized},
		{"insufficient role", http.MethodGet, "/api/v1/students", user, http.StatusForbidden},
		{"admin passes", http.MethodGet, "/api/v1/students", admin, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.principal != nil {
				req = req.WithContext(middlewarectx.WithPrincipal(req.Context(), tt.principal))
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
