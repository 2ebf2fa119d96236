// Package routine holds the routine template registry, the kind label table
// and the validation of submitted routine rows.
package routine

import (
	"strings"
	"unicode"

	"alcyxob/gym-admin/internal/domain"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultKind is used when a kind label cannot be matched.
const DefaultKind = domain.KindBaseStrength

// kindAliases is keyed by normalized labels (see NormalizeLabel).
var kindAliases = map[string]domain.Kind{
	"hipertrofia":              domain.KindHypertrophy,
	"hypertrophy":              domain.KindHypertrophy,
	"fuerza base":              domain.KindBaseStrength,
	"fuerza":                   domain.KindBaseStrength,
	"base strength":            domain.KindBaseStrength,
	"deportista avanzado":      domain.KindAdvancedAthlete,
	"deportista":               domain.KindAdvancedAthlete,
	"advanced athlete":         domain.KindAdvancedAthlete,
	"acondicionamiento fisico": domain.KindConditioning,
	"acondicionamiento":        domain.KindConditioning,
	"conditioning":             domain.KindConditioning,
	"edad temprana":            domain.KindInitiation,
	"iniciacion":               domain.KindInitiation,
	"initiation":               domain.KindInitiation,
	"original":                 domain.KindOriginal,
}

// NormalizeLabel folds a free-text label for alias matching: diacritics are
// stripped, letters lowercased, '_' and '-' read as spaces and runs of
// whitespace collapsed.
func NormalizeLabel(label string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, label)
	if err != nil {
		folded = label
	}
	folded = strings.ToLower(folded)
	folded = strings.NewReplacer("_", " ", "-", " ").Replace(folded)
	return strings.Join(strings.Fields(folded), " ")
}

// LookupKind matches a label against the alias table.
func LookupKind(label string) (domain.Kind, bool) {
	k, ok := kindAliases[NormalizeLabel(label)]
	return k, ok
}

// KindFromLabel matches a label against the alias table, falling back to DefaultKind.
func KindFromLabel(label string) domain.Kind {
	if k, ok := LookupKind(label); ok {
		return k
	}
	return DefaultKind
}
