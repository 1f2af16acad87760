package logger

import "testing"

func TestNew(t *testing.T) {
	for _, level := range []string{"", "debug", "INFO", "warn", "error"} {
		l, err := New(level, true)
		if err != nil {
			t.Errorf("level %q: unexpected error %v", level, err)
			continue
		}
		if l == nil {
			t.Errorf("level %q: expected logger", level)
		}
	}

	if _, err := New("chatty", false); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		limit int
		want  string
	}{
		{"short", 10, "short"},
		{"  padded  ", 10, "padded"},
		{"java developer", 4, "java..."},
		{"résumé", 3, "rés..."},
		{"anything", 0, ""},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.limit); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.limit, got, tt.want)
		}
	}
}

func TestOrNop(t *testing.T) {
	if OrNop(nil) == nil {
		t.Error("expected no-op logger for nil")
	}
}
