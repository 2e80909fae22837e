package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/styleswipe-backend/internal/platform/ctxutil"
)

func TestAttachTraceContext(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name      string
		requestID string
		keep      bool
	}{
		{"client id kept", "req-123", true},
		{"missing id generated", "", false},
		{"oversized id replaced", strings.Repeat("a", maxClientIDLen+1), false},
		{"unprintable id replaced", "bad id", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen *ctxutil.TraceData
			r := gin.New()
			r.Use(AttachTraceContext())
			r.GET("/ping", func(c *gin.Context) {
				seen = ctxutil.GetTraceData(c.Request.Context())
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			if tt.requestID != "" {
				req.Header.Set(HeaderRequestID, tt.requestID)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if seen == nil || seen.TraceID == "" || seen.RequestID == "" {
				t.Fatalf("trace data not attached: %+v", seen)
			}
			got := rec.Header().Get(HeaderRequestID)
			if got != seen.RequestID {
				t.Fatalf("response header %q does not match context %q", got, seen.RequestID)
			}
			if tt.keep && got != tt.requestID {
				t.Fatalf("expected client id to be kept, got %q", got)
			}
			if !tt.keep && got == tt.requestID {
				t.Fatalf("expected client id to be replaced")
			}
		})
	}
}
