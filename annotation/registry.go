package annotation

// Registry collects the annotated regions of one rendered frame.
// Regions are kept in insertion order; later entries are treated as
// drawn on top of earlier ones.
//
// A Registry is not safe for concurrent use; renders own it for the
// duration of a frame.
type Registry struct {
	regions []RegionInfo
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{}
}

// Add records an annotated region
func (r *Registry) Add(rect Rect, a Annotation) {
	r.regions = append(r.regions, RegionInfo{Rect: rect, Annotation: a})
}

// At returns the topmost annotation covering the point
func (r *Registry) At(x, y int) (RegionInfo, bool) {
	for i := len(r.regions) - 1; i >= 0; i-- {
		if r.regions[i].Rect.Contains(x, y) {
			return r.regions[i], true
		}
	}
	return RegionInfo{}, false
}

// ByID returns the first region with the given annotation ID
func (r *Registry) ByID(id string) (RegionInfo, bool) {
	for _, ri := range r.regions {
		if ri.Annotation.ID == id {
			return ri, true
		}
	}
	return RegionInfo{}, false
}

// ByKind returns all regions of the given kind, in insertion order
func (r *Registry) ByKind(kind string) []RegionInfo {
	var out []RegionInfo
	for _, ri := range r.regions {
		if ri.Annotation.Kind == kind {
			out = append(out, ri)
		}
	}
	return out
}

// All returns every recorded region in insertion order
func (r *Registry) All() []RegionInfo {
	out := make([]RegionInfo, len(r.regions))
	copy(out, r.regions)
	return out
}

// Len returns the number of recorded regions
func (r *Registry) Len() int {
	return len(r.regions)
}

// Clear removes all regions, typically at the start of a frame
func (r *Registry) Clear() {
	r.regions = r.regions[:0]
}
