package keygen

import (
	"fmt"
	"strings"

	"github.com/Stromjold/Sistem-Cesfam/internal/model"
	"github.com/Stromjold/Sistem-Cesfam/internal/resolve"
)

// Mode selects between the automatic strategy chain and a user-chosen
// field set.
type Mode string

const (
	ModeAutomatic Mode = "automatic"
	ModeManual    Mode = "manual"
)

// Strategy chain tiers. Lower is tried first; both datasets must land on
// the same tier or both are downgraded to the identifier fallback.
const (
	tierCustom     = 1
	tierNameTriple = 2
	tierNamePair   = 3
	tierFullName   = 4
	tierIdentifier = 5
)

// Options parameterize one key-building run.
type Options struct {
	Mode   Mode
	Fields []resolve.Role // manual mode only
}

// StrategyResult is the outcome of applying one strategy to one dataset.
type StrategyResult struct {
	Strategy model.KeyStrategy
	Keys     []string
	Quality  model.KeyQuality
}

// Result pairs the per-dataset outcomes with any non-fatal warnings.
type Result struct {
	A, B     *StrategyResult
	Warnings []string
}

// Builder constructs identity keys for a pair of datasets using a priority
// chain of strategies. Keys are assigned to the datasets as the synthetic
// key column.
type Builder struct {
	resolver *resolve.Resolver
	cfg      model.KeyConfig
}

// NewBuilder creates a key builder.
func NewBuilder(resolver *resolve.Resolver, cfg model.KeyConfig) *Builder {
	if cfg.Separator == "" {
		cfg.Separator = "|"
	}
	return &Builder{resolver: resolver, cfg: cfg}
}

// Build resolves a key strategy for each dataset, forces both onto the
// same tier, assigns keys, and scores their quality. The only terminal
// failure is total exhaustion of the chain on either side; low uniqueness
// is reported as a warning and never blocks comparison.
func (b *Builder) Build(dsA, dsB *model.Dataset, opts Options) (*Result, error) {
	res := &Result{}

	resA, warnA := b.selectStrategy(dsA, opts)
	resB, warnB := b.selectStrategy(dsB, opts)
	res.Warnings = append(res.Warnings, warnA...)
	res.Warnings = append(res.Warnings, warnB...)

	if resA == nil {
		return nil, fmt.Errorf("key builder: no viable identity key for dataset %q", dsA.Name)
	}
	if resB == nil {
		return nil, fmt.Errorf("key builder: no viable identity key for dataset %q", dsB.Name)
	}

	// Mixed tiers would compare semantically different keys, so both sides
	// drop to the identifier fallback. Documented contract, debatable
	// policy: the higher-quality key is sacrificed for comparability.
	if resA.Strategy.Tier != resB.Strategy.Tier {
		res.Warnings = append(res.Warnings, fmt.Sprintf(
			"key strategies differ (%s vs %s); both datasets downgraded to the identifier column fallback",
			resA.Strategy.Kind, resB.Strategy.Kind))
		var ok bool
		if resA, ok = b.identifierStrategy(dsA); !ok {
			return nil, fmt.Errorf("key builder: no viable identity key for dataset %q", dsA.Name)
		}
		if resB, ok = b.identifierStrategy(dsB); !ok {
			return nil, fmt.Errorf("key builder: no viable identity key for dataset %q", dsB.Name)
		}
	}

	for _, pair := range []struct {
		ds *model.Dataset
		sr *StrategyResult
	}{{dsA, resA}, {dsB, resB}} {
		if err := pair.ds.AssignKeys(pair.sr.Keys); err != nil {
			return nil, fmt.Errorf("key builder: %w", err)
		}
		pair.sr.Quality = quality(pair.sr.Keys)
		pct := pair.sr.Quality.UniquenessPct
		switch {
		case pair.ds.Len() == 0:
		case pct < b.cfg.WarnUniquenessPct:
			res.Warnings = append(res.Warnings, fmt.Sprintf(
				"low-confidence key for %q: %.1f%% unique (threshold %.0f%%); matches may include false positives",
				pair.ds.Name, pct, b.cfg.WarnUniquenessPct))
		case pct < b.cfg.AcceptUniquenessPct:
			res.Warnings = append(res.Warnings, fmt.Sprintf(
				"key for %q is %.1f%% unique, below the %.0f%% acceptance threshold; review the duplicate groups",
				pair.ds.Name, pct, b.cfg.AcceptUniquenessPct))
		}
	}

	res.A, res.B = resA, resB
	return res, nil
}

// selectStrategy walks the chain and returns the first satisfiable
// strategy for one dataset, or nil when the chain is exhausted.
func (b *Builder) selectStrategy(d *model.Dataset, opts Options) (*StrategyResult, []string) {
	var warnings []string

	if opts.Mode == ModeManual && len(opts.Fields) > 0 {
		sr, missing := b.customStrategy(d, opts.Fields)
		for _, role := range missing {
			warnings = append(warnings, fmt.Sprintf("dataset %q: no column found for field %q", d.Name, role))
		}
		if sr != nil {
			return sr, warnings
		}
		warnings = append(warnings, fmt.Sprintf("dataset %q: custom field set unsatisfiable, falling back to automatic chain", d.Name))
	}

	if sr, ok := b.nameTripleStrategy(d); ok {
		return sr, warnings
	}
	if sr, ok := b.namePairStrategy(d); ok {
		return sr, warnings
	}
	if sr, ok := b.fullNameStrategy(d); ok {
		return sr, warnings
	}
	if sr, ok := b.identifierStrategy(d); ok {
		return sr, warnings
	}
	return nil, warnings
}

// customStrategy builds a key from the user-chosen role subset. Roles that
// do not resolve are skipped and reported; at least one must resolve.
func (b *Builder) customStrategy(d *model.Dataset, fields []resolve.Role) (*StrategyResult, []resolve.Role) {
	var cols []string
	var roles []resolve.Role
	var missing []resolve.Role
	for _, role := range fields {
		col, ok := b.resolver.Resolve(d, role)
		if !ok {
			missing = append(missing, role)
			continue
		}
		cols = append(cols, col)
		roles = append(roles, role)
	}
	if len(cols) == 0 {
		return nil, missing
	}

	keys := make([]string, d.Len())
	for i, row := range d.Rows {
		parts := make([]string, len(cols))
		for j, col := range cols {
			if roles[j] == resolve.RoleIdentifier {
				parts[j] = NormalizeIdentifier(row[col])
			} else {
				parts[j] = NormalizeField(row[col])
			}
		}
		keys[i] = strings.Join(parts, b.cfg.Separator)
	}

	labels := make([]string, len(roles))
	for i, r := range roles {
		labels[i] = string(r)
	}
	return &StrategyResult{
		Strategy: model.KeyStrategy{
			Kind:        model.StrategyCustomFields,
			Tier:        tierCustom,
			Description: strings.Join(labels, " + "),
			Columns:     cols,
		},
		Keys: keys,
	}, missing
}

func (b *Builder) nameTripleStrategy(d *model.Dataset) (*StrategyResult, bool) {
	given, ok1 := b.resolver.Resolve(d, resolve.RoleGivenName)
	pat, ok2 := b.resolver.Resolve(d, resolve.RolePaternalSurname)
	mat, ok3 := b.resolver.Resolve(d, resolve.RoleMaternalSurname)
	if !ok1 || !ok2 || !ok3 {
		return nil, false
	}
	return b.nameStrategy(d, model.StrategyNameTriple, tierNameTriple,
		"given name + paternal surname + maternal surname", given, pat, mat), true
}

func (b *Builder) namePairStrategy(d *model.Dataset) (*StrategyResult, bool) {
	given, ok1 := b.resolver.Resolve(d, resolve.RoleGivenName)
	pat, ok2 := b.resolver.Resolve(d, resolve.RolePaternalSurname)
	if !ok1 || !ok2 {
		return nil, false
	}
	return b.nameStrategy(d, model.StrategyNamePair, tierNamePair,
		"given name + paternal surname", given, pat), true
}

func (b *Builder) fullNameStrategy(d *model.Dataset) (*StrategyResult, bool) {
	full, ok := b.resolver.Resolve(d, resolve.RoleFullName)
	if !ok {
		return nil, false
	}
	return b.nameStrategy(d, model.StrategyFullName, tierFullName,
		"full name column", full), true
}

func (b *Builder) nameStrategy(d *model.Dataset, kind model.StrategyKind, tier int, desc string, cols ...string) *StrategyResult {
	keys := make([]string, d.Len())
	for i, row := range d.Rows {
		parts := make([]string, len(cols))
		for j, col := range cols {
			parts[j] = NormalizeField(row[col])
		}
		keys[i] = strings.Join(parts, b.cfg.Separator)
	}
	return &StrategyResult{
		Strategy: model.KeyStrategy{Kind: kind, Tier: tier, Description: desc, Columns: cols},
		Keys:     keys,
	}
}

// identifierStrategy is the last-resort tier. It prefers a column matching
// the identifier catalog; failing that it profiles every column and takes
// the one with the most non-empty cells, the closest thing to an
// identifier the dataset has.
func (b *Builder) identifierStrategy(d *model.Dataset) (*StrategyResult, bool) {
	if len(d.Columns) == 0 {
		return nil, false
	}

	col, ok := b.resolver.Resolve(d, resolve.RoleIdentifier)
	if !ok {
		col = bestIdentifierCandidate(d)
		if col == "" {
			return nil, false
		}
	}

	keys := make([]string, d.Len())
	for i, row := range d.Rows {
		keys[i] = NormalizeIdentifier(row[col])
	}
	return &StrategyResult{
		Strategy: model.KeyStrategy{
			Kind:        model.StrategyIdentifier,
			Tier:        tierIdentifier,
			Description: fmt.Sprintf("identifier column %q", col),
			Columns:     []string{col},
		},
		Keys: keys,
	}, true
}

// bestIdentifierCandidate picks the column maximizing the non-empty cell
// count; ties go to the column with more distinct values.
func bestIdentifierCandidate(d *model.Dataset) string {
	best := ""
	bestNonEmpty := -1
	bestDistinct := -1
	for _, col := range d.Columns {
		if col == model.KeyColumn {
			continue
		}
		nonEmpty := 0
		distinct := make(map[string]struct{})
		for _, row := range d.Rows {
			v := strings.TrimSpace(row[col])
			if v != "" {
				nonEmpty++
				distinct[v] = struct{}{}
			}
		}
		if nonEmpty > bestNonEmpty || (nonEmpty == bestNonEmpty && len(distinct) > bestDistinct) {
			best = col
			bestNonEmpty = nonEmpty
			bestDistinct = len(distinct)
		}
	}
	return best
}

func quality(keys []string) model.KeyQuality {
	distinct := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		distinct[k] = struct{}{}
	}
	return model.NewKeyQuality(len(keys), len(distinct))
}
