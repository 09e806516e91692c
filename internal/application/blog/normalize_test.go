package blog

import (
	"testing"

	blogmodel "blogsmith-ai-api/internal/application/blog/model"
)

func TestNormalizeRequestStructured(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantTopic  string
		wantPrompt string
		wantLength int
	}{
		{
			name:       "topic and length",
			raw:        `{"topic": "space travel", "length": 3}`,
			wantTopic:  "space travel",
			wantLength: 3,
		},
		{
			name:       "prompt only",
			raw:        `{"prompt": "write about go generics"}`,
			wantPrompt: "write about go generics",
			wantLength: blogmodel.DefaultRequestLength,
		},
		{
			name:       "length defaults when unset",
			raw:        `{"topic": "caching"}`,
			wantTopic:  "caching",
			wantLength: blogmodel.DefaultRequestLength,
		},
		{
			name:       "null fields are treated as absent",
			raw:        `{"topic": null, "prompt": "hello", "length": null}`,
			wantPrompt: "hello",
			wantLength: blogmodel.DefaultRequestLength,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, shapeErr := NormalizeRequest([]byte(tt.raw))
			if shapeErr != nil {
				t.Fatalf("unexpected shape error: %v", shapeErr)
			}
			if req.Topic != tt.wantTopic {
				t.Errorf("topic = %q, want %q", req.Topic, tt.wantTopic)
			}
			if req.Prompt != tt.wantPrompt {
				t.Errorf("prompt = %q, want %q", req.Prompt, tt.wantPrompt)
			}
			if req.Length != tt.wantLength {
				t.Errorf("length = %d, want %d", req.Length, tt.wantLength)
			}
		})
	}
}

func TestNormalizeRequestRawText(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantPrompt string
	}{
		{
			name:       "quoted json string unwraps one layer",
			raw:        `"hello world"`,
			wantPrompt: "hello world",
		},
		{
			name:       "json object with prompt key",
			raw:        `{"prompt": "foo"}`,
			wantPrompt: "foo",
		},
		{
			name:       "plain text passes through",
			raw:        `plain text`,
			wantPrompt: "plain text",
		},
		{
			name:       "surrounding whitespace is stripped",
			raw:        "  write about rust  \n",
			wantPrompt: "write about rust",
		},
		{
			name:       "empty body yields empty prompt",
			raw:        "",
			wantPrompt: "",
		},
		{
			name:       "object without topic or prompt falls back to raw text",
			raw:        `{"length": 3}`,
			wantPrompt: `{"length": 3}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, shapeErr := NormalizeRequest([]byte(tt.raw))
			if shapeErr != nil {
				t.Fatalf("unexpected shape error: %v", shapeErr)
			}
			if req.Prompt != tt.wantPrompt {
				t.Errorf("prompt = %q, want %q", req.Prompt, tt.wantPrompt)
			}
			if req.Length != blogmodel.DefaultRequestLength {
				t.Errorf("length = %d, want default %d", req.Length, blogmodel.DefaultRequestLength)
			}
		})
	}
}

func TestNormalizeRequestShapeErrors(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantIssue string
	}{
		{
			name:      "topic wrong type",
			raw:       `{"topic": 123}`,
			wantIssue: "topic must be a string",
		},
		{
			name:      "prompt wrong type",
			raw:       `{"prompt": ["a"]}`,
			wantIssue: "prompt must be a string",
		},
		{
			name:      "length wrong type",
			raw:       `{"topic": "x", "length": "three"}`,
			wantIssue: "length must be an integer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, shapeErr := NormalizeRequest([]byte(tt.raw))
			if shapeErr == nil {
				t.Fatalf("expected shape error, got request %+v", req)
			}
			if shapeErr.RawBody != tt.raw {
				t.Errorf("raw body = %q, want %q", shapeErr.RawBody, tt.raw)
			}
			found := false
			for _, issue := range shapeErr.Issues {
				if issue == tt.wantIssue {
					found = true
				}
			}
			if !found {
				t.Errorf("issues %v missing %q", shapeErr.Issues, tt.wantIssue)
			}
		})
	}
}
