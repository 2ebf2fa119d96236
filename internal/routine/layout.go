package routine

import (
	"fmt"

	"alcyxob/gym-admin/internal/domain"
)

// Block names used by the layouts. Rows submitted from a section carry its block.
const (
	BlockWarmUp      = "calentamiento"
	BlockMain        = "principal"
	BlockStrength    = "fuerza"
	BlockPower       = "potencia"
	BlockAccessories = "accesorios"
)

// Section describes one table of the routine editor.
// A section either holds free rows or exactly one row per fixed category.
type Section struct {
	Name            string   `json:"name"`
	Block           string   `json:"block"`
	WarmUp          bool     `json:"warmUp"`
	FixedCategories []string `json:"fixedCategories,omitempty"`
	MinRows         int      `json:"minRows"`
	MaxRows         int      `json:"maxRows"` // 0 means unbounded
	InitialRows     int      `json:"initialRows"`
}

// Fixed reports whether the section is made of named category slots.
func (s Section) Fixed() bool {
	return len(s.FixedCategories) > 0
}

// Layout is the ordered list of sections a template kind is edited with.
type Layout struct {
	Kind     domain.Kind `json:"kind"`
	Label    string      `json:"label"`
	Sections []Section   `json:"sections"`
}

var (
	conditioningCategories = []string{"Cadena anterior", "Tracciones", "Cadena posterior", "Empujes", "Variabilidad de movimiento"}
	strengthCategories     = []string{"Empuje", "Tracción", "Dominante de rodilla"}
)

func warmUp(min, max int) Section {
	initial := min
	if initial == 0 {
		initial = 1
	}
	return Section{Name: "Calentamiento", Block: BlockWarmUp, WarmUp: true, MinRows: min, MaxRows: max, InitialRows: initial}
}

func fixed(name, block string, categories []string) Section {
	n := len(categories)
	return Section{Name: name, Block: block, FixedCategories: categories, MinRows: n, MaxRows: n, InitialRows: n}
}

func free(name, block string, initial, max int) Section {
	return Section{Name: name, Block: block, MaxRows: max, InitialRows: initial}
}

var layouts = map[domain.Kind]Layout{
	domain.KindHypertrophy: {Sections: []Section{
		warmUp(3, 0),
		free("Rutina", BlockMain, 6, 0),
	}},
	domain.KindBaseStrength: {Sections: []Section{
		warmUp(3, 0),
		free("Rutina", BlockMain, 5, 0),
	}},
	domain.KindAdvancedAthlete: {Sections: []Section{
		warmUp(5, 5),
		fixed("Fuerza", BlockStrength, strengthCategories),
		free("Potencia", BlockPower, 3, 6),
		free("Accesorios", BlockAccessories, 3, 6),
	}},
	domain.KindConditioning: {Sections: []Section{
		warmUp(3, 0),
		fixed("Rutina", BlockMain, conditioningCategories),
	}},
	domain.KindInitiation: {Sections: []Section{
		warmUp(5, 5),
		free("Rutina", BlockMain, 4, 0),
	}},
	domain.KindOriginal: {Sections: []Section{
		warmUp(0, 0),
		free("Rutina", BlockMain, 1, 0),
	}},
}

// LayoutFor returns the section layout of a kind. Unknown kinds get the
// legacy free-form layout and ok=false.
func LayoutFor(kind domain.Kind) (Layout, bool) {
	l, ok := layouts[kind]
	if !ok {
		l = layouts[domain.KindOriginal]
	}
	l.Kind = kind
	l.Label = kind.Label()
	return l, ok
}

// Layouts returns the layout of every known kind in display order.
func Layouts() []Layout {
	kinds := domain.Kinds()
	out := make([]Layout, 0, len(kinds))
	for _, k := range kinds {
		l, _ := LayoutFor(k)
		out = append(out, l)
	}
	return out
}

// match finds the section a row names itself: the warm-up section for
// warm-up rows, a section with the row's block, or a fixed section holding
// its category. ok is false when the row has to be placed by position.
func (l Layout) match(row domain.Row) (idx int, ok bool) {
	for i, s := range l.Sections {
		if s.WarmUp == row.WarmUp && (row.WarmUp || (row.Block != "" && row.Block == s.Block)) {
			return i, true
		}
	}
	if row.WarmUp {
		return -1, true
	}
	for i, s := range l.Sections {
		if !s.WarmUp && s.Fixed() && s.categoryIndex(row.Category) >= 0 {
			return i, true
		}
	}
	return -1, false
}

// spill returns the first free main section with room left. When every
// free section is full it returns the first free one (or the first main
// section when every main section is fixed) so the overflow is reported.
func (l Layout) spill(counts []int) int {
	firstMain, firstFree := -1, -1
	for i, s := range l.Sections {
		if s.WarmUp {
			continue
		}
		if firstMain < 0 {
			firstMain = i
		}
		if s.Fixed() {
			continue
		}
		if firstFree < 0 {
			firstFree = i
		}
		if s.MaxRows == 0 || counts[i] < s.MaxRows {
			return i
		}
	}
	if firstFree >= 0 {
		return firstFree
	}
	return firstMain
}

// assign maps each row to a section index, or -1 when no section takes it.
// Rows that name their section are placed first; the rest fill the free
// sections in layout order, moving on when a bounded section is full.
func (l Layout) assign(rows []domain.Row) []int {
	out := make([]int, len(rows))
	counts := make([]int, len(l.Sections))
	var pending []int
	for i, r := range rows {
		si, ok := l.match(r)
		if !ok {
			pending = append(pending, i)
			continue
		}
		out[i] = si
		if si >= 0 {
			counts[si]++
		}
	}
	for _, i := range pending {
		si := l.spill(counts)
		out[i] = si
		if si >= 0 {
			counts[si]++
		}
	}
	return out
}

func (s Section) categoryIndex(category string) int {
	key := NormalizeLabel(category)
	if key == "" {
		return -1
	}
	for i, c := range s.FixedCategories {
		if NormalizeLabel(c) == key {
			return i
		}
	}
	return -1
}

// RenderedSection is a section with the rows to show in the editor.
type RenderedSection struct {
	Section
	Rows []domain.Row `json:"rows"`
}

// Render distributes rows over the layout and fills the gaps with blank
// placeholder rows: every missing fixed category yields one row with that
// category preset, and free sections are padded up to their initial size.
func (l Layout) Render(rows []domain.Row) []RenderedSection {
	assigned := make([][]domain.Row, len(l.Sections))
	for i, si := range l.assign(rows) {
		if si >= 0 {
			assigned[si] = append(assigned[si], rows[i])
		}
	}

	out := make([]RenderedSection, len(l.Sections))
	for i, s := range l.Sections {
		rs := RenderedSection{Section: s}
		if s.Fixed() {
			used := make([]bool, len(assigned[i]))
			for _, cat := range s.FixedCategories {
				found := false
				for j, r := range assigned[i] {
					if !used[j] && NormalizeLabel(r.Category) == NormalizeLabel(cat) {
						rs.Rows = append(rs.Rows, r)
						used[j] = true
						found = true
						break
					}
				}
				if !found {
					rs.Rows = append(rs.Rows, placeholder(s, cat))
				}
			}
			for j, r := range assigned[i] {
				if !used[j] {
					rs.Rows = append(rs.Rows, r)
				}
			}
		} else {
			rs.Rows = append(rs.Rows, assigned[i]...)
			for len(rs.Rows) < s.InitialRows {
				rs.Rows = append(rs.Rows, placeholder(s, ""))
			}
		}
		out[i] = rs
	}
	return out
}

func placeholder(s Section, category string) domain.Row {
	return domain.Row{Category: category, WarmUp: s.WarmUp, Block: s.Block}
}

// checkBounds rejects row sets that overflow a bounded section. positions
// holds the 1-based submission index of each row.
func (l Layout) checkBounds(rows []domain.Row, positions []int) error {
	counts := make([]int, len(l.Sections))
	for i, si := range l.assign(rows) {
		if si < 0 {
			continue
		}
		counts[si]++
		s := l.Sections[si]
		if s.MaxRows > 0 && counts[si] > s.MaxRows {
			return &ValidationError{
				Row:    positions[i],
				Field:  "bloque",
				Reason: fmt.Sprintf("section %q admits at most %d rows", s.Name, s.MaxRows),
			}
		}
	}
	return nil
}
