package extract

import (
	"strings"
	"testing"
)

func TestFirstObject(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{
			name:   "simple",
			input:  `prefix {"key": "value"} suffix`,
			want:   `{"key": "value"}`,
			wantOK: true,
		},
		{
			name:   "nested",
			input:  `start {"a": {"b": "c"}} end`,
			want:   `{"a": {"b": "c"}}`,
			wantOK: true,
		},
		{
			name:   "first_of_many",
			input:  `obj1 {"id": 1} obj2 {"id": 2}`,
			want:   `{"id": 1}`,
			wantOK: true,
		},
		{
			name:   "string_with_braces",
			input:  `{"key": "value with } inside"}`,
			want:   `{"key": "value with } inside"}`,
			wantOK: true,
		},
		{
			name:   "escaped_quote",
			input:  `{"key": "value with \" and } inside"}`,
			want:   `{"key": "value with \" and } inside"}`,
			wantOK: true,
		},
		{
			name:   "escaped_backslash",
			input:  `{"key": "ends with \\"} tail`,
			want:   `{"key": "ends with \\"}`,
			wantOK: true,
		},
		{
			name:   "quote_in_prose",
			input:  `She said "here it is: {"a": 1}`,
			want:   `{"a": 1}`,
			wantOK: true,
		},
		{
			name:   "stray_closing_brace",
			input:  `} { valid } {`,
			want:   `{ valid }`,
			wantOK: true,
		},
		{
			name:   "incomplete",
			input:  `prefix { incomplete`,
			wantOK: false,
		},
		{
			name:   "no_braces",
			input:  `I cannot help with that.`,
			wantOK: false,
		},
		{
			name:   "empty_object",
			input:  `{}`,
			want:   `{}`,
			wantOK: true,
		},
		{
			name:   "multibyte",
			input:  "✨ {\"fortune\": \"🔴 ok\"} ✨",
			want:   "{\"fortune\": \"🔴 ok\"}",
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := firstObject(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("span = %q, want %q", got, tt.want)
			}
		})
	}
}

func BenchmarkFirstObject(b *testing.B) {
	var sb strings.Builder
	sb.WriteString("Pre-amble text with some random content...\n")
	for i := 0; i < 1000; i++ {
		sb.WriteString("Lorem ipsum dolor sit amet, consectetur adipiscing elit. ")
	}
	sb.WriteString("```json\n{\"result\": {\"fortune\": \"The path {unfolds}.\", \"theme\": \"red\"}}\n```")
	input := sb.String()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		firstObject(input)
	}
}
