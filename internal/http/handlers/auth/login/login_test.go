package login_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/magabrotheeeer/finalworks-platform/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/finalworks-platform/internal/http/response"
	"github.com/magabrotheeeer/finalworks-platform/internal/models"
	auth "github.com/magabrotheeeer/finalworks-platform/internal/services/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Login(ctx context.Context, email, password string) (string, models.Role, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Get(1).(models.Role), args.Error(2)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoginHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setupMocks func(s *ServiceMock)
		wantStatus int
		wantError  string
	}{
		{
			name: "successful login",
			body: `{"email":"alice@x.com","password":"password123"}`,
			setupMocks: func(s *ServiceMock) {
				s.On("Login", mock.Anything, "alice@x.com", "password123").
					Return("jwt-token", models.RoleUser, nil).Once()
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "invalid credentials",
			body: `{"email":"alice@x.com","password":"wrong-pass"}`,
			setupMocks: func(s *ServiceMock) {
				s.On("Login", mock.Anything, "alice@x.com", "wrong-pass").
					Return("", models.Role(""), auth.ErrInvalidCredentials).Once()
			},
			wantStatus: http.StatusUnauthorized,
			wantError:  "invalid credentials",
		},
		{
			name: "unknown email gets the same answer",
			body: `{"email":"nobody@x.com","password":"password123"}`,
			setupMocks: func(s *ServiceMock) {
				s.On("Login", mock.Anything, "nobody@x.com", "password123").
					Return("", models.Role(""), auth.ErrInvalidCredentials).Once()
			},
			wantStatus: http.StatusUnauthorized,
			wantError:  "invalid credentials",
		},
		{
			name:       "bad json",
			body:       `{"email":`,
			setupMocks: func(s *ServiceMock) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "validation failure",
			body:       `{"email":"not-an-email","password":"password123"}`,
			setupMocks: func(s *ServiceMock) {},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "service error",
			body: `{"email":"alice@x.com","password":"password123"}`,
			setupMocks: func(s *ServiceMock) {
				s.On("Login", mock.Anything, "alice@x.com", "password123").
					Return("", models.Role(""), errors.New("db down")).Once()
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(ServiceMock)
			tt.setupMocks(service)

			handler := login.New(discardLogger(), service)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantError != "" {
				var resp response.Response
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, tt.wantError, resp.Error)
			}
			service.AssertExpectations(t)
		})
	}
}
