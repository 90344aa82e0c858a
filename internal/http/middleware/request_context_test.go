package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/a-korvus/business-management-system/internal/pkg/ctxutil"
)

func identityRouter(seen *uuid.UUID) *gin.Engine {
	r := gin.New()
	r.Use(AttachRequestContext())
	r.GET("/open", func(c *gin.Context) {
		*seen = ctxutil.UserID(c.Request.Context())
		c.Status(http.StatusOK)
	})
	r.GET("/closed", RequireIdentity(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestAttachRequestContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var seen uuid.UUID
	r := identityRouter(&seen)
	userID := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set(HeaderUserID, userID.String())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || seen != userID {
		t.Fatalf("identity not attached: status=%d seen=%s", rec.Code, seen)
	}

	seen = uuid.New()
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/open", nil))
	if rec.Code != http.StatusOK || seen != uuid.Nil {
		t.Fatalf("anonymous request: status=%d seen=%s", rec.Code, seen)
	}

	req = httptest.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set(HeaderUserID, "not-a-uuid")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed identity: got %d want 400", rec.Code)
	}
}

func TestRequireIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var seen uuid.UUID
	r := identityRouter(&seen)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/closed", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous: got %d want 401", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/closed", nil)
	req.Header.Set(HeaderUserID, uuid.NewString())
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("identified: got %d want 200", rec.Code)
	}
}

func TestAttachTraceContextEchoesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachTraceContext())
	var td *ctxutil.TraceData
	r.GET("/x", func(c *gin.Context) {
		td = ctxutil.GetTraceData(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(headerRequestID, "req-1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if td == nil || td.RequestID != "req-1" || td.TraceID == "" {
		t.Fatalf("trace data: %+v", td)
	}
	if got := rec.Header().Get(headerRequestID); got != "req-1" {
		t.Fatalf("request id header: %q", got)
	}
}
