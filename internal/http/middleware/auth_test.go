package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/yungbote/styleswipe-backend/internal/domain"
	"github.com/yungbote/styleswipe-backend/internal/http/response"
	"github.com/yungbote/styleswipe-backend/internal/platform/apierr"
	"github.com/yungbote/styleswipe-backend/internal/platform/ctxutil"
	"github.com/yungbote/styleswipe-backend/internal/services"
)

type stubAuth struct {
	users map[string]uuid.UUID
}

func (s *stubAuth) Register(context.Context, services.RegisterInput) (*types.User, error) {
	return nil, nil
}
func (s *stubAuth) Login(context.Context, string, string) (services.TokenPair, error) {
	return services.TokenPair{}, nil
}
func (s *stubAuth) Refresh(context.Context, string) (services.TokenPair, error) {
	return services.TokenPair{}, nil
}
func (s *stubAuth) Logout(context.Context, string) error { return nil }
func (s *stubAuth) GetAccessTTL() time.Duration       { return time.Minute }

func (s *stubAuth) SetContextFromToken(ctx context.Context, tok string) (context.Context, error) {
	id, ok := s.users[tok]
	if !ok {
		return ctx, apierr.Unauthorized("Invalid or expired access token")
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{TokenString: tok, UserID: id}), nil
}

func TestRequireAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := uuid.New()
	am := NewAuthMiddleware(nil, &stubAuth{users: map[string]uuid.UUID{"good": userID, "anon": uuid.Nil}})

	tests := []struct {
		name   string
		header string
		status int
		msg    string
	}{
		{"missing header", "", http.StatusUnauthorized, "Access token is missing"},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, "Access token is missing"},
		{"rejected token", "Bearer nope", http.StatusUnauthorized, "Invalid or expired access token"},
		{"token without user", "Bearer anon", http.StatusUnauthorized, "Authentication required"},
		{"valid token", "bearer good", http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen uuid.UUID
			r := gin.New()
			r.Use(am.RequireAuth())
			r.GET("/me", func(c *gin.Context) {
				if rd := ctxutil.GetRequestData(c.Request.Context()); rd != nil {
					seen = rd.UserID
				}
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("status: got %d want %d", rec.Code, tt.status)
			}
			if tt.status == http.StatusOK {
				if seen != userID {
					t.Fatalf("handler saw user %s", seen)
				}
				return
			}
			var env response.ErrorEnvelope
			if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if env.Error.Message != tt.msg || env.Error.Code != "unauthorized" {
				t.Fatalf("envelope: %+v", env.Error)
			}
		})
	}
}
