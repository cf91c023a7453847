package llm

import (
	"testing"

	"google.golang.org/genai"
)

func TestAlias(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"gemini-flash", "gemini-2.0-flash"},
		{"gemini-pro", "gemini-2.0-pro"},
		{"gemini-2.0-flash", "gemini-2.0-flash"},
	}
	for _, tt := range tests {
		if got := alias(tt.input, geminiAliases); got != tt.want {
			t.Errorf("alias(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestGeminiSchema(t *testing.T) {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question": map[string]any{"type": "string"},
			"correct":  map[string]any{"type": "integer"},
			"level":    map[string]any{"type": "string", "enum": []any{"easy", "hard"}},
			"options": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
		"required": []any{"question", "options"},
	}

	s := geminiSchema(def)
	if s.Type != genai.TypeObject {
		t.Fatalf("expected object, got %s", s.Type)
	}
	if len(s.Properties) != 4 {
		t.Fatalf("expected 4 properties, got %d", len(s.Properties))
	}
	if s.Properties["correct"].Type != genai.TypeInteger {
		t.Fatalf("expected integer, got %s", s.Properties["correct"].Type)
	}
	if len(s.Properties["level"].Enum) != 2 {
		t.Fatalf("expected 2 enum values, got %d", len(s.Properties["level"].Enum))
	}
	if s.Properties["options"].Items.Type != genai.TypeString {
		t.Fatalf("expected string items, got %s", s.Properties["options"].Items.Type)
	}
	if len(s.Required) != 2 {
		t.Fatalf("expected 2 required, got %d", len(s.Required))
	}
}
