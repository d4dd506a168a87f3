package resolve

import (
	"strings"

	"github.com/Stromjold/Sistem-Cesfam/internal/model"
)

// substringMinLen guards partial matching: variants this short or shorter
// must match exactly, so "id" cannot match every "...id..." header.
const substringMinLen = 4

// Resolver finds the dataset column fulfilling a semantic role by matching
// headers against a per-role catalog of name variants.
type Resolver struct {
	catalog map[Role][]string
}

// NewResolver builds a resolver from the default catalog plus optional
// extra variants per role (typically from the config file). Extra variants
// are appended after the defaults and normalized the same way.
func NewResolver(extra map[string][]string) *Resolver {
	catalog := make(map[Role][]string, len(defaultCatalog))
	for role, variants := range defaultCatalog {
		catalog[role] = append([]string(nil), variants...)
	}
	for name, variants := range extra {
		role, ok := ParseRole(name)
		if !ok {
			continue
		}
		for _, v := range variants {
			v = strings.ToLower(strings.TrimSpace(v))
			if v != "" {
				catalog[role] = append(catalog[role], v)
			}
		}
	}
	return &Resolver{catalog: catalog}
}

// Resolve returns the first column (in column order) matching the role.
// Matching is case-insensitive and whitespace-trimmed; an exact variant
// match always wins over a substring match. The boolean is false when no
// column fulfills the role; callers must treat that as a resolution gap,
// not a failure.
func (r *Resolver) Resolve(d *model.Dataset, role Role) (string, bool) {
	variants := r.catalog[role]
	if len(variants) == 0 {
		return "", false
	}

	lowered := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		lowered[i] = strings.ToLower(strings.TrimSpace(c))
	}

	for i, col := range lowered {
		if d.Columns[i] == model.KeyColumn {
			continue
		}
		for _, v := range variants {
			if col == v {
				return d.Columns[i], true
			}
		}
	}
	for i, col := range lowered {
		if d.Columns[i] == model.KeyColumn {
			continue
		}
		for _, v := range variants {
			if len(v) > substringMinLen && strings.Contains(col, v) {
				return d.Columns[i], true
			}
		}
	}
	return "", false
}
