// Package annotation attaches semantic metadata to screen regions so
// tests and tooling can query what was rendered where, independent of
// pixel content.
package annotation

// Rect is a rectangle in cell coordinates
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// NewRect creates a rectangle
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Contains reports whether the point lies inside the rectangle
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Empty reports whether the rectangle has no area
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Intersect returns the overlapping rectangle, which may be empty
func (r Rect) Intersect(o Rect) Rect {
	x1 := max(r.X, o.X)
	y1 := max(r.Y, o.Y)
	x2 := min(r.X+r.W, o.X+o.W)
	y2 := min(r.Y+r.H, o.Y+o.H)
	if x2 < x1 {
		x2 = x1
	}
	if y2 < y1 {
		y2 = y1
	}
	return Rect{X: x1, Y: y1, W: x2 - x1, H: y2 - y1}
}

// Annotation describes the semantic role of a rendered region
type Annotation struct {
	Kind     string            `json:"kind"`
	ID       string            `json:"id,omitempty"`
	Label    string            `json:"label,omitempty"`
	Focused  bool              `json:"focused,omitempty"`
	Disabled bool              `json:"disabled,omitempty"`
	Selected bool              `json:"selected,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// RegionInfo pairs an annotation with the region it covers
type RegionInfo struct {
	Rect       Rect       `json:"rect"`
	Annotation Annotation `json:"annotation"`
}
