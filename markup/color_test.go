package markup

import (
	"errors"
	"testing"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{"Lowercase", "#00ff00", "#00ff00", false},
		{"Uppercase", "#00FF00", "#00ff00", false},
		{"Short form", "#f0a", "#ff00aa", false},
		{"Without hash", "123abc", "#123abc", false},
		{"Surrounding space", " #ff0000 ", "#ff0000", false},
		{"Empty", "", "", true},
		{"Named color", "red", "", true},
		{"Trailing garbage", "#00ff00zz", "", true},
		{"Non-hex digits", "#gg0000", "", true},
		{"Too long", "#00ff0000", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseColor(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidColor) {
					t.Errorf("ParseColor(%q) error = %v, expected ErrInvalidColor", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseColor(%q) error = %v", tt.input, err)
			}
			if result != tt.expected {
				t.Errorf("ParseColor(%q) = %q, expected %q", tt.input, result, tt.expected)
			}
		})
	}
}
