package security

import "testing"

func TestNameSanitizer_ImplementsInterface(t *testing.T) {
	var _ NameSanitizerService = (*nameSanitizer)(nil)
}

func TestNameSanitizer_PlainTextPassesThrough(t *testing.T) {
	s := NewNameSanitizer()

	got := s.Sanitize("Morning Run")
	if got != "Morning Run" {
		t.Errorf("Sanitize(Morning Run) = %q, want Morning Run", got)
	}
}

func TestNameSanitizer_StripsTags(t *testing.T) {
	s := NewNameSanitizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"scriptタグ", `<script>alert("x")</script>朝ラン`, "朝ラン"},
		{"aタグ", `<a href="https://evil.example">Morning Run</a>`, "Morning Run"},
		{"imgタグ", `Run <img src="https://evil.example/x.png">`, "Run"},
		{"強調タグ", "<b>10k</b> PB!", "10k PB!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Sanitize(tt.input); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNameSanitizer_RestoresEntities(t *testing.T) {
	s := NewNameSanitizer()

	// プレーンテキストの特殊文字はエスケープされずそのまま返る
	got := s.Sanitize("Run & Ride <3")
	if got != "Run & Ride <3" {
		t.Errorf("Sanitize(Run & Ride <3) = %q, want Run & Ride <3", got)
	}
}

func TestNameSanitizer_EmptyInput(t *testing.T) {
	s := NewNameSanitizer()

	if got := s.Sanitize(""); got != "" {
		t.Errorf("Sanitize(\"\") = %q, want 空文字列", got)
	}
}

func TestNameSanitizer_Idempotent(t *testing.T) {
	s := NewNameSanitizer()

	input := `<b>Morning</b> Run & Ride`
	once := s.Sanitize(input)
	twice := s.Sanitize(once)
	if once != twice {
		t.Errorf("Sanitizeが冪等でない: 1回目 %q, 2回目 %q", once, twice)
	}
}
