package blog

import (
	"strings"
	"testing"

	blogmodel "blogsmith-ai-api/internal/application/blog/model"
)

func TestParseExtractedParams(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		wantTopic  string
		wantLength int
		wantErr    bool
	}{
		{
			name:       "clean json",
			content:    `{"topic": "go generics", "length": 7}`,
			wantTopic:  "go generics",
			wantLength: 7,
		},
		{
			name:       "fenced json is tolerated",
			content:    "```json\n{\"topic\": \"go generics\", \"length\": 7}\n```",
			wantTopic:  "go generics",
			wantLength: 7,
		},
		{
			name:       "length above range is clamped",
			content:    `{"topic": "go generics", "length": 25}`,
			wantTopic:  "go generics",
			wantLength: blogmodel.MaxLength,
		},
		{
			name:       "length below range is clamped",
			content:    `{"topic": "go generics", "length": 0}`,
			wantTopic:  "go generics",
			wantLength: blogmodel.MinLength,
		},
		{
			name:       "missing length defaults to 5",
			content:    `{"topic": "go generics"}`,
			wantTopic:  "go generics",
			wantLength: blogmodel.DefaultExtractedLength,
		},
		{
			name:    "not json",
			content: "not json",
			wantErr: true,
		},
		{
			name:    "topic too short",
			content: `{"topic": "go", "length": 5}`,
			wantErr: true,
		},
		{
			name:    "topic too long",
			content: `{"topic": "` + strings.Repeat("a", 81) + `", "length": 5}`,
			wantErr: true,
		},
		{
			name:    "empty output",
			content: "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, err := parseExtractedParams(tt.content)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", params)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if params.Topic != tt.wantTopic {
				t.Errorf("topic = %q, want %q", params.Topic, tt.wantTopic)
			}
			if params.Length != tt.wantLength {
				t.Errorf("length = %d, want %d", params.Length, tt.wantLength)
			}
		})
	}
}

func TestNewExtractedParamsClamps(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{25, 20},
		{0, 1},
		{-3, 1},
		{1, 1},
		{20, 20},
		{5, 5},
	}
	for _, tt := range tests {
		got := blogmodel.NewExtractedParams("topic", tt.in).Length
		if got != tt.want {
			t.Errorf("NewExtractedParams length %d = %d, want %d", tt.in, got, tt.want)
		}
	}
}
