package relay

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newRelayRouter(backendURL string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(newTestClient(backendURL))
	engine := gin.New()
	engine.POST("/message", h.Message)
	engine.GET("/health", h.Health)
	return engine
}

func TestMessageEndpoint(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"content": "generated article"})
	}))
	defer backend.Close()

	engine := newRelayRouter(backend.URL)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/message",
		strings.NewReader(`{"message": "write about go"}`))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["reply"] != "generated article" {
		t.Errorf("reply = %q", resp["reply"])
	}
}

func TestMessageEndpointEmptyMessage(t *testing.T) {
	engine := newRelayRouter("http://localhost:0")

	for _, body := range []string{`{}`, `{"message": "   "}`, `not json`} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/message", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", body, rec.Code)
		}
	}
}
