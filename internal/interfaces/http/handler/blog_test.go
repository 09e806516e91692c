package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	appblog "blogsmith-ai-api/internal/application/blog"
	blogmodel "blogsmith-ai-api/internal/application/blog/model"
	"blogsmith-ai-api/pkg/errors"

	"github.com/gin-gonic/gin"
)

// fakeGenerator 记录收到的请求并回放固定结果。
type fakeGenerator struct {
	gotReq *blogmodel.BlogRequest
	result *appblog.PipelineResult
	err    error
}

func (f *fakeGenerator) Run(_ context.Context, req *blogmodel.BlogRequest) (*appblog.PipelineResult, error) {
	f.gotReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func newBlogRouter(gen BlogGenerator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewBlogHandler(gen, nil)
	engine := gin.New()
	engine.POST("/generate-blog", h.Generate)
	engine.POST("/echo", h.Echo)
	return engine
}

func postRaw(engine *gin.Engine, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	engine.ServeHTTP(rec, req)
	return rec
}

func TestGenerateSuccess(t *testing.T) {
	gen := &fakeGenerator{result: &appblog.PipelineResult{
		Content: "# Final Article",
		Params:  blogmodel.NewExtractedParams("space travel", 3),
	}}
	engine := newBlogRouter(gen)

	rec := postRaw(engine, "/generate-blog", `{"topic": "space travel", "length": 3}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["content"] != "# Final Article" {
		t.Errorf("content = %q", resp["content"])
	}
	if gen.gotReq == nil || gen.gotReq.Topic != "space travel" || gen.gotReq.Length != 3 {
		t.Errorf("normalized request = %+v", gen.gotReq)
	}
}

func TestGenerateRawTextBody(t *testing.T) {
	gen := &fakeGenerator{result: &appblog.PipelineResult{Content: "ok"}}
	engine := newBlogRouter(gen)

	rec := postRaw(engine, "/generate-blog", `"hello world"`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if gen.gotReq.Prompt != "hello world" {
		t.Errorf("prompt = %q, want unwrapped quote layer", gen.gotReq.Prompt)
	}
}

func TestGenerateShapeError(t *testing.T) {
	engine := newBlogRouter(&fakeGenerator{})

	rec := postRaw(engine, "/generate-blog", `{"topic": 123}`)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	var resp struct {
		Detail  []string `json:"detail"`
		RawBody string   `json:"raw_body"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Detail) == 0 {
		t.Error("detail should list shape issues")
	}
	if resp.RawBody != `{"topic": 123}` {
		t.Errorf("raw_body = %q", resp.RawBody)
	}
}

func TestGeneratePipelineFault(t *testing.T) {
	gen := &fakeGenerator{err: errors.New(errors.CodeValidationFailed,
		"seo result parsing error: title is required\nRaw: {\"oops\": true}")}
	engine := newBlogRouter(gen)

	rec := postRaw(engine, "/generate-blog", `{"topic": "space travel"}`)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !strings.Contains(resp["detail"], `{"oops": true}`) {
		t.Errorf("detail should carry raw model output, got %q", resp["detail"])
	}
}

func TestEcho(t *testing.T) {
	engine := newBlogRouter(&fakeGenerator{})

	rec := postRaw(engine, "/echo", `{"topic": "space travel", "length": 3}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Received map[string]any `json:"received"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Received["topic"] != "space travel" {
		t.Errorf("received = %v", resp.Received)
	}
}
