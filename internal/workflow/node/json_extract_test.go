package node

import "testing"

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "clean object",
			in:   `{"topic": "x"}`,
			want: `{"topic": "x"}`,
		},
		{
			name: "fenced object",
			in:   "```json\n{\"topic\": \"x\"}\n```",
			want: `{"topic": "x"}`,
		},
		{
			name: "prose around object",
			in:   "Here you go:\n{\"topic\": \"x\"}\nHope that helps!",
			want: `{"topic": "x"}`,
		},
		{
			name: "array",
			in:   `[1, 2, 3]`,
			want: `[1, 2, 3]`,
		},
		{
			name: "no json at all",
			in:   "not json",
			want: "not json",
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractJSONObject(tt.in); got != tt.want {
				t.Errorf("ExtractJSONObject(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTruncateByRunes(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello", 3, "hel"},
		{"héllo", 2, "hé"},
		{"hello", 0, ""},
	}
	for _, tt := range tests {
		if got := TruncateByRunes(tt.in, tt.max); got != tt.want {
			t.Errorf("TruncateByRunes(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
