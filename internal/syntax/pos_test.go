package syntax

import "testing"

func TestPosString(t *testing.T) {
	tests := []struct {
		name    string
		pos     Pos
		wantStr string
	}{
		{"with filename", NewPos("test.mc", 10, 5), "test.mc:10:5"},
		{"without filename", NewPos("", 10, 5), "10:5"},
		{"line 1 col 1", NewPos("main.mc", 1, 1), "main.mc:1:1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pos.String(); got != tt.wantStr {
				t.Errorf("Pos.String() = %q, want %q", got, tt.wantStr)
			}
		})
	}
}

func TestPosAccessors(t *testing.T) {
	p := NewPos("a.mc", 3, 7)
	if !p.IsValid() || p.Line() != 3 || p.Col() != 7 || p.Filename() != "a.mc" {
		t.Errorf("unexpected accessors for %v", p)
	}
	var zero Pos
	if zero.IsValid() {
		t.Error("zero Pos is valid")
	}
}
