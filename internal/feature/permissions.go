package feature

import "strings"

// Permissions is the set of resource:action grants for the signed-in profile.
type Permissions struct {
	grants map[string]map[string]bool
}

// NewPermissions parses grants of the form "resource:action", where the
// action is the text after the last colon ("nexus:atlas:read" grants
// "read" on "nexus:atlas"). Either side may be "*".
func NewPermissions(grants []string) *Permissions {
	p := &Permissions{grants: make(map[string]map[string]bool)}
	for _, g := range grants {
		i := strings.LastIndex(g, ":")
		if i <= 0 || i == len(g)-1 {
			continue
		}
		resource, action := g[:i], g[i+1:]
		if p.grants[resource] == nil {
			p.grants[resource] = make(map[string]bool)
		}
		p.grants[resource][action] = true
	}
	return p
}

// Check reports whether action is granted on resource.
func (p *Permissions) Check(resource, action string) bool {
	if p == nil {
		return false
	}
	for _, r := range []string{resource, "*"} {
		actions := p.grants[r]
		if actions[action] || actions["*"] {
			return true
		}
	}
	return false
}
