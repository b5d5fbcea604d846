package icons

import (
	"path"
	"sync"
)

// Icon references an image file and the size variants it ships in.
type Icon struct {
	File     string
	Variants []string
}

// glyphs maps icon files to the character drawn in place of the image.
var glyphs = map[string]string{
	"globe_place.png": "◍",
	"database.png":    "▤",
	"folder.png":      "▸",
}

const fallbackGlyph = "•"

// Registry holds icons keyed by name.
type Registry struct {
	mu    sync.RWMutex
	icons map[string]Icon
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{icons: make(map[string]Icon)}
}

// AddIcons registers icons by name, replacing existing entries.
func (r *Registry) AddIcons(icons map[string]Icon) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for name, icon := range icons {
		r.icons[name] = icon
	}
}

// Get returns the icon registered under name.
func (r *Registry) Get(name string) (Icon, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	icon, ok := r.icons[name]
	return icon, ok
}

// Glyph returns the terminal glyph for a registered icon, or "" if no icon
// is registered under name.
func (r *Registry) Glyph(name string) string {
	icon, ok := r.Get(name)
	if !ok {
		return ""
	}
	if g, ok := glyphs[path.Base(icon.File)]; ok {
		return g
	}
	return fallbackGlyph
}
