package nexus

import (
	"context"
	"sort"
)

// SystemInformationReportPath is the server-relative path of the
// downloadable system information report.
const SystemInformationReportPath = "service/siesta/atlas/system-information"

// Info is the system information report: section name to key/value pairs.
type Info map[string]map[string]any

// Sections returns the section names in sorted order.
func (i Info) Sections() []string {
	names := make([]string, 0, len(i))
	for name := range i {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Keys returns the keys of one section in sorted order.
func (i Info) Keys(section string) []string {
	s := i[section]
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Int64 returns a numeric value from a section, if present. JSON numbers
// decode as float64.
func (i Info) Int64(section, key string) (int64, bool) {
	switch v := i[section][key].(type) {
	case float64:
		return int64(v), true
	case int64:
		return v, true
	case int:
		return int64(v), true
	}
	return 0, false
}

// SystemInformationReader reads the system information report.
type SystemInformationReader interface {
	ReadSystemInformation(ctx context.Context) (*Response[Info], error)
}

// ReadSystemInformation calls atlas_SystemInformation.read.
func (c *Client) ReadSystemInformation(ctx context.Context) (*Response[Info], error) {
	return call[Info](ctx, c, "atlas_SystemInformation", "read")
}
