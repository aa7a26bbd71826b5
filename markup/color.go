package markup

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidColor is returned for colors that are not #rgb or #rrggbb hex.
var ErrInvalidColor = errors.New("invalid color")

// ParseColor validates a hex color and returns it in canonical lowercase #rrggbb form.
// The leading '#' is optional.
func ParseColor(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s != "" && !strings.HasPrefix(s, "#") {
		s = "#" + s
	}

	if !isHexColor(s) {
		return "", fmt.Errorf("%w %q", ErrInvalidColor, s)
	}

	c, err := colorful.Hex(s)
	if err != nil {
		return "", fmt.Errorf("%w %q", ErrInvalidColor, s)
	}
	return c.Hex(), nil
}

func isHexColor(s string) bool {
	if len(s) != 4 && len(s) != 7 {
		return false
	}
	for _, r := range s[1:] {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return false
		}
	}
	return true
}
