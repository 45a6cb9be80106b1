package usecase

import (
	"strings"
	"unicode"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// Campos canônicos aceitos na importação
const (
	FieldName    = "name"
	FieldEmail   = "email"
	FieldPhone   = "phone"
	FieldCompany = "company"
	FieldStatus  = "status"
	FieldSource  = "source"
	FieldNotes   = "notes"
)

// columnRule maps a header to a canonical field when it contains any of the
// keywords (substring) or any of the words (whole token), and none of the
// exclusions.
type columnRule struct {
	Field    string
	Keywords []string
	Words    []string
	Exclude  []string
}

// columnRules is evaluated top to bottom, first match wins. The mapping is a
// best-effort heuristic, not a schema: "first_name" and "last_name" both land
// on name and the right-most column wins. "org" is only a whole word, so
// "Organic Source" stays a source and "Georgia Office" is dropped.
var columnRules = []columnRule{
	{Field: FieldName, Keywords: []string{"name"}, Exclude: []string{"company"}},
	{Field: FieldEmail, Keywords: []string{"email", "e-mail"}},
	{Field: FieldPhone, Keywords: []string{"phone", "tel"}},
	{Field: FieldCompany, Keywords: []string{"company", "organization"}, Words: []string{"org"}},
	{Field: FieldStatus, Keywords: []string{"status"}},
	{Field: FieldSource, Keywords: []string{"source", "origin"}},
	{Field: FieldNotes, Keywords: []string{"note"}},
}

func (r columnRule) matches(h parsedHeader) bool {
	for _, ex := range r.Exclude {
		if strings.Contains(h.text, ex) {
			return false
		}
	}
	for _, kw := range r.Keywords {
		if strings.Contains(h.text, kw) {
			return true
		}
	}
	for _, w := range r.Words {
		for _, tok := range h.tokens {
			if tok == w {
				return true
			}
		}
	}
	return false
}

// parsedHeader is the lowercased, trimmed header plus its words split on anything
// that is not a letter or digit.
type parsedHeader struct {
	text   string
	tokens []string
}

func newHeader(raw string) parsedHeader {
	h := strings.ToLower(strings.TrimSpace(raw))
	return parsedHeader{
		text: h,
		tokens: strings.FieldsFunc(h, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		}),
	}
}

// MapHeader resolves a raw header to its canonical field, or "" when no rule
// applies.
func MapHeader(header string) string {
	h := newHeader(header)
	for _, rule := range columnRules {
		if rule.matches(h) {
			return rule.Field
		}
	}
	return ""
}

// MapColumns restricts a raw row to the canonical field set. Headers matching
// no rule are dropped; when two headers map to the same field the last one
// processed wins.
func MapColumns(cells []entity.Cell) map[string]string {
	mapped := make(map[string]string)
	for _, c := range cells {
		if field := MapHeader(c.Header); field != "" {
			mapped[field] = c.Value
		}
	}
	return mapped
}
