package routine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"alcyxob/gym-admin/internal/domain"
)

// RawRow is one submitted row before validation. ExerciseID and Exercise are
// the two accepted spellings of the exercise reference; ExerciseID wins.
type RawRow struct {
	Category   string
	ExerciseID string
	Exercise   string
	Series     string
	Reps       string
	Weight     string
	Rest       string
	RIR        string
	Sensations string
	Notes      string
	Block      string
	WarmUp     bool
}

// Submission is a parsed save request for a routine version.
// Comment is nil when the request carried no comment field at all.
type Submission struct {
	Rows    []RawRow
	Comment *string
	Week    string
}

// flexString accepts JSON strings, numbers and booleans as text.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*f = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
	case len(b) > 0 && (b[0] == '{' || b[0] == '['):
		return fmt.Errorf("expected a scalar value, got %s", b)
	default:
		*f = flexString(b)
	}
	return nil
}

// flexBool accepts true/false, 1/0 and the usual checkbox strings.
type flexBool bool

func (f *flexBool) UnmarshalJSON(b []byte) error {
	var s flexString
	if err := s.UnmarshalJSON(b); err != nil {
		return err
	}
	*f = flexBool(truthy(string(s)))
	return nil
}

func truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "on", "si", "sí", "yes":
		return true
	}
	return false
}

type payloadRow struct {
	Categoria       flexString `json:"categoria"`
	EjercicioID     flexString `json:"ejercicio_id"`
	Ejercicio       flexString `json:"ejercicio"`
	Series          flexString `json:"series"`
	Reps            flexString `json:"reps"`
	Repeticiones    flexString `json:"repeticiones"`
	Kilos           flexString `json:"kilos"`
	Peso            flexString `json:"peso"`
	Descanso        flexString `json:"descanso"`
	RIR             flexString `json:"rir"`
	Sensaciones     flexString `json:"sensaciones"`
	Notas           flexString `json:"notas"`
	Bloque          flexString `json:"bloque"`
	EsCalentamiento flexBool   `json:"es_calentamiento"`
}

func (p payloadRow) raw() RawRow {
	block := string(p.Bloque)
	return RawRow{
		Category:   string(p.Categoria),
		ExerciseID: string(p.EjercicioID),
		Exercise:   string(p.Ejercicio),
		Series:     string(p.Series),
		Reps:       firstNonEmpty(string(p.Reps), string(p.Repeticiones)),
		Weight:     firstNonEmpty(string(p.Kilos), string(p.Peso)),
		Rest:       string(p.Descanso),
		RIR:        string(p.RIR),
		Sensations: string(p.Sensaciones),
		Notes:      string(p.Notas),
		Block:      block,
		WarmUp:     bool(p.EsCalentamiento) || strings.EqualFold(strings.TrimSpace(block), BlockWarmUp),
	}
}

type payloadDocument struct {
	WeekID  flexString   `json:"semana_id"`
	Week    flexString   `json:"semana"`
	Rows    []payloadRow `json:"filas"`
	Details []payloadRow `json:"detalles"` // Older editor script
	Comment *string      `json:"comentario"`
}

// ParsePayload decodes the structured submission document
// {"semana_id": "3", "filas": [...]}.
func ParsePayload(data []byte) (Submission, error) {
	var doc payloadDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return Submission{}, &ValidationError{Field: "payload", Reason: "malformed JSON payload: " + err.Error()}
	}
	rows := doc.Rows
	if len(rows) == 0 {
		rows = doc.Details
	}
	sub := Submission{
		Rows:    make([]RawRow, len(rows)),
		Comment: doc.Comment,
		Week:    firstNonEmpty(string(doc.WeekID), string(doc.Week)),
	}
	for i, r := range rows {
		sub.Rows[i] = r.raw()
	}
	return sub, nil
}

// ParseFormSubmission reads a form-encoded save request. A "payload" field
// holds the structured document; otherwise the legacy indexed fields
// (total_filas, categoria_0, ...) are read.
func ParseFormSubmission(values url.Values) (Submission, error) {
	var sub Submission
	if payload, ok := values["payload"]; ok && len(payload) > 0 {
		var err error
		sub, err = ParsePayload([]byte(payload[0]))
		if err != nil {
			return Submission{}, err
		}
	} else {
		sub = parseLegacyForm(values)
	}
	if sub.Comment == nil {
		if c, ok := values["comentario"]; ok && len(c) > 0 {
			text := c[0]
			sub.Comment = &text
		}
	}
	if sub.Week == "" {
		sub.Week = firstNonEmpty(values.Get("semana_id"), values.Get("semana"))
	}
	return sub, nil
}

// parseLegacyForm reads the two parallel blocks of the flat editor form:
// warm-up rows prefixed "cal_" counted by total_filas_calentamiento, and
// main rows counted by total_filas.
func parseLegacyForm(values url.Values) Submission {
	var sub Submission
	warm := formCount(values.Get("total_filas_calentamiento"))
	for i := 0; i < warm; i++ {
		sub.Rows = append(sub.Rows, legacyRow(values, "cal_", i, true))
	}
	main := formCount(values.Get("total_filas"))
	for i := 0; i < main; i++ {
		sub.Rows = append(sub.Rows, legacyRow(values, "", i, false))
	}
	return sub
}

func legacyRow(values url.Values, prefix string, i int, warmUp bool) RawRow {
	get := func(name string) string {
		return values.Get(fmt.Sprintf("%s%s_%d", prefix, name, i))
	}
	block := BlockMain
	if warmUp {
		block = BlockWarmUp
	}
	return RawRow{
		Category:   get("categoria"),
		ExerciseID: get("ejercicio_id"),
		Exercise:   get("ejercicio"),
		Series:     get("series"),
		Reps:       get("repeticiones"),
		Weight:     get("peso"),
		Rest:       get("descanso"),
		RIR:        get("rir"),
		Sensations: get("sensaciones"),
		Notes:      get("notas"),
		Block:      firstNonEmpty(get("bloque"), block),
		WarmUp:     warmUp,
	}
}

// formCount parses a row counter. Anything past MaxRows+1 is never read:
// one extra row is enough for the validator to reject the submission.
func formCount(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	if n > MaxRows+1 {
		return MaxRows + 1
	}
	return n
}

// ParseWeek reads a week number, returning fallback when s is empty,
// unparseable or outside the allowed range.
func ParseWeek(s string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < domain.MinWeek || n > domain.MaxWeek {
		return fallback
	}
	return n
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
