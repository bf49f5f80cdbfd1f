package inspection

import (
	"fmt"
	"strings"
)

// Area is a plant area code. Each area owns one grid.
type Area string

// DefaultAreas is the closed set of plant areas.
var DefaultAreas = []Area{"TN2", "TN5", "TN6", "TN7"}

// WorksheetSuffix is appended to the area code to name its grid.
const WorksheetSuffix = "_Data"

func (a Area) WorksheetTitle() string { return string(a) + WorksheetSuffix }

// ParseArea resolves s against the allowed set (case-insensitive).
func ParseArea(s string, allowed []Area) (Area, error) {
	s = strings.TrimSpace(s)
	for _, a := range allowed {
		if strings.EqualFold(s, string(a)) {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownArea, s)
}
