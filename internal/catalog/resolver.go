package catalog

import (
	"strings"
)

// Resolve filters the snapshot by a case-insensitive substring match over
// material name and SKU. An empty query returns the full snapshot. This is a
// pure filter: it never mutates the catalog and never touches the network.
func (s *Store) Resolve(query string) []Material {
	all := s.Materials()
	if query == "" {
		return all
	}

	q := strings.ToLower(query)
	out := make([]Material, 0, len(all))
	for _, m := range all {
		if strings.Contains(strings.ToLower(m.Name), q) ||
			strings.Contains(strings.ToLower(m.SKU), q) {
			out = append(out, m)
		}
	}
	return out
}
