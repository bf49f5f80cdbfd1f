package inspection

import (
	"fmt"
	"strings"
)

// PointSpec declares one point inside a category. Range nil means boolean point.
type PointSpec struct {
	Name  string
	Range *Range
}

// CategorySpec declares a category and its points in display order.
type CategorySpec struct {
	Name   string
	Points []PointSpec
}

// Between is a shorthand for declaring a ranged point.
func Between(min, max float64) *Range {
	return &Range{Min: min, Max: max}
}

// Catalog is the immutable, ordered set of inspection points.
// Tag order is declaration order and defines the row order of every grid.
type Catalog struct {
	categories []string
	byCategory map[string][]InspectionPoint
	points     []InspectionPoint
	index      map[Tag]int
}

// NewCatalog builds a catalog from an ordered declaration. Duplicate
// (category, name) pairs are rejected instead of collapsing silently.
func NewCatalog(specs []CategorySpec) (*Catalog, error) {
	c := &Catalog{
		byCategory: make(map[string][]InspectionPoint, len(specs)),
		index:      make(map[Tag]int),
	}
	for _, cs := range specs {
		if strings.TrimSpace(cs.Name) == "" {
			return nil, fmt.Errorf("%w: empty category name", ErrInvalidCatalog)
		}
		if _, seen := c.byCategory[cs.Name]; seen {
			return nil, fmt.Errorf("%w: category %q declared twice", ErrDuplicatePoint, cs.Name)
		}
		pts := make([]InspectionPoint, 0, len(cs.Points))
		for _, ps := range cs.Points {
			if strings.TrimSpace(ps.Name) == "" {
				return nil, fmt.Errorf("%w: empty point name in category %q", ErrInvalidCatalog, cs.Name)
			}
			if ps.Range != nil && ps.Range.Min > ps.Range.Max {
				return nil, fmt.Errorf("%w: point %q has min %g > max %g", ErrInvalidCatalog, ps.Name, ps.Range.Min, ps.Range.Max)
			}
			p := InspectionPoint{Category: cs.Name, Name: ps.Name}
			if ps.Range != nil {
				r := *ps.Range
				p.Range = &r
			}
			tag := p.Tag()
			if _, dup := c.index[tag]; dup {
				return nil, fmt.Errorf("%w: %s", ErrDuplicatePoint, tag)
			}
			c.index[tag] = len(c.points)
			c.points = append(c.points, p)
			pts = append(pts, p)
		}
		c.categories = append(c.categories, cs.Name)
		c.byCategory[cs.Name] = pts
	}
	return c, nil
}

// MustCatalog is NewCatalog for hard-coded declarations.
func MustCatalog(specs []CategorySpec) *Catalog {
	c, err := NewCatalog(specs)
	if err != nil {
		panic(err)
	}
	return c
}

// Categories returns category names in declaration order.
func (c *Catalog) Categories() []string {
	return append([]string(nil), c.categories...)
}

// Points returns the points of a category in declaration order.
func (c *Catalog) Points(category string) []InspectionPoint {
	return clonePoints(c.byCategory[category])
}

// All returns every point in tag order.
func (c *Catalog) All() []InspectionPoint {
	return clonePoints(c.points)
}

// Tags returns every tag in row order.
func (c *Catalog) Tags() []Tag {
	out := make([]Tag, len(c.points))
	for i, p := range c.points {
		out[i] = p.Tag()
	}
	return out
}

func (c *Catalog) Len() int { return len(c.points) }

// TagIndex returns the zero-based position of tag.
func (c *Catalog) TagIndex(tag Tag) (int, error) {
	i, ok := c.index[tag]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrTagNotFound, tag)
	}
	return i, nil
}

// Point returns the point registered under tag.
func (c *Catalog) Point(tag Tag) (InspectionPoint, error) {
	i, err := c.TagIndex(tag)
	if err != nil {
		return InspectionPoint{}, err
	}
	return clonePoint(c.points[i]), nil
}

// Lookup finds a point by category and name.
func (c *Catalog) Lookup(category, name string) (InspectionPoint, error) {
	return c.Point(MakeTag(category, name))
}

// RangeFor returns the acceptance range for tag, or nil for boolean points.
func (c *Catalog) RangeFor(tag Tag) (*Range, error) {
	p, err := c.Point(tag)
	if err != nil {
		return nil, err
	}
	return p.Range, nil
}

// HeaderColumn is the exact expected content of grid column 1.
func (c *Catalog) HeaderColumn() []string {
	out := make([]string, 0, len(c.points)+1)
	out = append(out, HeaderTag)
	for _, p := range c.points {
		out = append(out, string(p.Tag()))
	}
	return out
}

func clonePoint(p InspectionPoint) InspectionPoint {
	if p.Range != nil {
		r := *p.Range
		p.Range = &r
	}
	return p
}

func clonePoints(in []InspectionPoint) []InspectionPoint {
	out := make([]InspectionPoint, len(in))
	for i, p := range in {
		out[i] = clonePoint(p)
	}
	return out
}
