package inspection

import "fmt"

// TagSeparator joins category and point name into a tag.
const TagSeparator = " - "

// Tag is the canonical identity of a point: category + " - " + name.
type Tag string

// MakeTag builds the tag for a category/point pair.
func MakeTag(category, name string) Tag {
	return Tag(category + TagSeparator + name)
}

// Range is an inclusive acceptance range.
type Range struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// Contains reports whether v lies within [Min, Max].
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

func (r Range) String() string {
	return fmt.Sprintf("%g ~ %g", r.Min, r.Max)
}

// InspectionPoint is a single monitored measurement or status check.
// A nil Range marks a boolean-status point.
type InspectionPoint struct {
	Category string `json:"category"`
	Name     string `json:"name"`
	Range    *Range `json:"range,omitempty"`
}

func (p InspectionPoint) Tag() Tag { return MakeTag(p.Category, p.Name) }

// IsBoolean reports whether the point is judged by status rather than by value.
func (p InspectionPoint) IsBoolean() bool { return p.Range == nil }
