package relay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"blogsmith-ai-api/internal/config"
)

func newTestClient(backendURL string) *Client {
	return NewClient(&config.RelayConfig{
		BackendBaseURL: backendURL,
		Timeout:        5 * time.Second,
	})
}

func TestReplySuccess(t *testing.T) {
	var gotPrompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/generate-blog" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		gotPrompt = body["prompt"]
		_ = json.NewEncoder(w).Encode(map[string]string{"content": "# Article\n\nBody."})
	}))
	defer srv.Close()

	reply := newTestClient(srv.URL).Reply(context.Background(), "write about go")
	if reply != "# Article\n\nBody." {
		t.Errorf("reply = %q", reply)
	}
	if gotPrompt != "write about go" {
		t.Errorf("forwarded prompt = %q", gotPrompt)
	}
}

func TestReplyNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("overloaded"))
	}))
	defer srv.Close()

	reply := newTestClient(srv.URL).Reply(context.Background(), "write about go")
	if reply != "Request failed (503). overloaded" {
		t.Errorf("reply = %q", reply)
	}
}

func TestReplyNon200BodyClipped(t *testing.T) {
	long := strings.Repeat("x", 1000)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(long))
	}))
	defer srv.Close()

	reply := newTestClient(srv.URL).Reply(context.Background(), "hi")
	if !strings.HasPrefix(reply, "Request failed (500). ") {
		t.Fatalf("reply = %q", reply)
	}
	body := strings.TrimPrefix(reply, "Request failed (500). ")
	if len(body) != maxErrorBodyRunes {
		t.Errorf("clipped body length = %d, want %d", len(body), maxErrorBodyRunes)
	}
}

func TestReplyTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // 立刻关掉，制造连接失败

	reply := newTestClient(srv.URL).Reply(context.Background(), "hi")
	if !strings.HasPrefix(reply, "Error contacting generator: ") {
		t.Errorf("reply = %q", reply)
	}
}

func TestReplyEmptyContent(t *testing.T) {
	for name, body := range map[string]string{
		"empty string": `{"content": ""}`,
		"missing key":  `{}`,
	} {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			defer srv.Close()

			reply := newTestClient(srv.URL).Reply(context.Background(), "hi")
			if reply != "No content returned from generator." {
				t.Errorf("reply = %q", reply)
			}
		})
	}
}

func TestReplyMalformedSuccessBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	reply := newTestClient(srv.URL).Reply(context.Background(), "hi")
	if !strings.HasPrefix(reply, "Error contacting generator: ") {
		t.Errorf("reply = %q", reply)
	}
}
