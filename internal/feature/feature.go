package feature

import (
	"sort"
	"strings"
	"sync"
)

// Feature is a navigation entry: a menu path, the view it mounts and the
// rule deciding whether the current user sees it.
type Feature struct {
	Path    string
	View    string
	IconCls string
	Visible func() bool
}

// Title returns the last segment of the feature path.
func (f Feature) Title() string {
	if i := strings.LastIndex(f.Path, "/"); i >= 0 {
		return f.Path[i+1:]
	}
	return f.Path
}

// Registry collects features registered by controllers.
type Registry struct {
	mu       sync.Mutex
	features map[string]Feature
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{features: make(map[string]Feature)}
}

// Register adds features keyed by path. A later registration for the same
// path replaces the earlier one.
func (r *Registry) Register(features ...Feature) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range features {
		r.features[f.Path] = f
	}
}

// Visible returns the features whose visibility rule passes, sorted by path.
func (r *Registry) Visible() []Feature {
	r.mu.Lock()
	all := make([]Feature, 0, len(r.features))
	for _, f := range r.features {
		all = append(all, f)
	}
	r.mu.Unlock()

	out := all[:0]
	for _, f := range all {
		if f.Visible == nil || f.Visible() {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Lookup returns the feature mounting the given view.
func (r *Registry) Lookup(view string) (Feature, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.features {
		if f.View == view {
			return f, true
		}
	}
	return Feature{}, false
}

// Len returns the number of registered features, visible or not.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.features)
}
