package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/inkwelldev/inkwell/internal/config"
	httpx "github.com/inkwelldev/inkwell/internal/http"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testRouter() *gin.Engine {
	cfg := config.Config{
		Env:          "test",
		Port:         0,
		JWTSecret:    "router-test-secret",
		TokenTTLDays: 7,
	}

	// nil pool: none of the routes exercised here reach the database
	return httpx.NewRouter(nil, cfg, nil, nil)
}

func TestHealthRoute(t *testing.T) {
	r := testRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200, body=%s", w.Code, w.Body.String())
	}

	var body map[string]string

	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad response body: %v", err)
	}

	if body["status"] != "OK" {
		t.Fatalf("got status %q, want OK", body["status"])
	}
}

func TestUnmatchedRouteReturnsJSON404(t *testing.T) {
	r := testRouter()

	req := httptest.NewRequest(http.MethodGet, "/definitely/not/here", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("got status %d, want 404, body=%s", w.Code, w.Body.String())
	}

	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}

	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad response body: %v", err)
	}

	if body.Success || body.Message != "Route not found" {
		t.Fatalf("unexpected 404 body: %s", w.Body.String())
	}
}

func TestProtectedRoutesRejectAnonymousCallers(t *testing.T) {
	r := testRouter()

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/profile"},
		{http.MethodGet, "/posts/1"},
		{http.MethodDelete, "/posts/delete/1"},
	}

	for _, p := range paths {
		req := httptest.NewRequest(p.method, p.path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: got status %d, want 401, body=%s", p.method, p.path, w.Code, w.Body.String())
		}
	}
}

func TestMutatingRequestsRequireJSONContentType(t *testing.T) {
	r := testRouter()

	req := httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader("username=ada"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("got status %d, want 415, body=%s", w.Code, w.Body.String())
	}
}
