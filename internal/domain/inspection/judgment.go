package inspection

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Status is the closed reading of a boolean point.
type Status string

const (
	StatusUnset    Status = ""
	StatusNormal   Status = "normal"
	StatusAbnormal Status = "abnormal"
)

const (
	DisplayOK = "OK"
	DisplayNG = "NG"
)

// abnormal markers accepted from free-text input surfaces
var abnormalMarkers = []string{"abnormal", "不正常"}

// ngWord is only a marker as a standalone word, never inside one
const ngWord = "ng"

// ParseStatus maps free text coming from an input surface onto Status.
// Anything without an abnormal marker is normal.
func ParseStatus(text string) Status {
	s := strings.ToLower(strings.TrimSpace(text))
	for _, m := range abnormalMarkers {
		if strings.Contains(s, m) {
			return StatusAbnormal
		}
	}
	for _, w := range strings.FieldsFunc(s, notWordRune) {
		if w == ngWord {
			return StatusAbnormal
		}
	}
	return StatusNormal
}

func notWordRune(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

// Valid reports whether s is one of the two judged states.
func (s Status) Valid() bool {
	return s == StatusNormal || s == StatusAbnormal
}

// Reading is a submitted value. Ranged points read Value, boolean points read Status.
type Reading struct {
	Value  string `json:"value,omitempty"`
	Status Status `json:"status,omitempty"`
}

// Judgment is the normalized display value and anomaly flag for a reading.
type Judgment struct {
	Display   string `json:"display"`
	Anomalous bool   `json:"anomalous"`
}

// ReadingFromText builds the reading an input surface hands over for raw
// text: boolean points get their status resolved here, never in Judge.
func ReadingFromText(p InspectionPoint, text string) Reading {
	if p.IsBoolean() {
		return Reading{Status: ParseStatus(text)}
	}
	return Reading{Value: text}
}

// Judge evaluates a reading against its point. Unparseable numbers and
// missing statuses are anomalous rather than errors.
func Judge(p InspectionPoint, r Reading) Judgment {
	if p.IsBoolean() {
		if r.Status == StatusNormal {
			return Judgment{Display: DisplayOK}
		}
		return Judgment{Display: DisplayNG, Anomalous: true}
	}

	raw := strings.TrimSpace(r.Value)
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) {
		return Judgment{Display: raw, Anomalous: true}
	}
	return Judgment{Display: raw, Anomalous: !p.Range.Contains(v)}
}
