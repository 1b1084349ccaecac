package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"userprefs-backend/internal/shared/identity"
	"userprefs-backend/internal/shared/telemetry"
)

func TestLoggingIncludesRequiredFields(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	telemetry.Setup(&buf, "production", "info")
	t.Cleanup(func() { telemetry.Setup(os.Stdout, "production", "info") })

	router := gin.New()
	router.Use(RequestID(), Logging(), Auth(identity.TrustedHeader{Header: "X-User-Id"}))
	router.GET("/download-url/*key", func(c *gin.Context) {
		c.Set("imageKey", "users/u1/images/a.png")
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/download-url/users/u1/images/a.png", nil)
	req.Header.Set("X-User-Id", "u1")
	req.Header.Set("X-Request-Id", "req-123")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	last := lines[len(lines)-1]
	var payload map[string]any
	if err := json.Unmarshal([]byte(last), &payload); err != nil {
		t.Fatalf("decode log json: %v (%s)", err, last)
	}

	required := []string{"request_id", "user_id", "route", "duration_ms", "status", "image_key"}
	for _, key := range required {
		if _, ok := payload[key]; !ok {
			t.Fatalf("missing log field: %s", key)
		}
	}
	if payload["msg"] != "request.complete" {
		t.Fatalf("unexpected msg: %v", payload["msg"])
	}
	if payload["request_id"] != "req-123" {
		t.Fatalf("unexpected request_id: %v", payload["request_id"])
	}
	if payload["user_id"] != "u1" {
		t.Fatalf("unexpected user_id: %v", payload["user_id"])
	}
	if payload["route"] != "/download-url/*key" {
		t.Fatalf("unexpected route: %v", payload["route"])
	}
	if resp.Header().Get("X-Request-Id") != "req-123" {
		t.Fatalf("expected request id echoed in header")
	}
}

func TestRequestIDGeneratedWhenMissing(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RequestID())
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/x", nil))
	if got := resp.Header().Get("X-Request-Id"); len(got) != 36 {
		t.Fatalf("expected generated uuid request id, got %q", got)
	}
}
