package category

import (
	"errors"
	"fmt"

	"github.com/danielgtaylor/huma/v2"
)

// DefaultCode is what Encode returns for a label outside the table.
const DefaultCode = 0

var (
	ErrUnrecognizedLabel = errors.New("unrecognized label")
	ErrUnknownCode       = errors.New("unknown code")
)

// Table is a fixed label list; a label's code is its position. Tables are
// part of the stored record format and must never be reordered.
type Table struct {
	name     string
	labels   []string
	index    map[string]int
	fallback int
}

func NewTable(name string, labels ...string) *Table {
	index := make(map[string]int, len(labels))
	for i, l := range labels {
		index[l] = i
	}
	return &Table{
		name:   name,
		labels: labels,
		index:  index,
	}
}

// WithFallback sets the code whose label Decode returns for an out-of-range
// code. It panics on a code outside the table.
func (t *Table) WithFallback(code int) *Table {
	if code < 0 || code >= len(t.labels) {
		panic(fmt.Sprintf("category %s: fallback %d out of range", t.name, code))
	}
	t.fallback = code
	return t
}

var (
	AbsentTime = NewTable("absentTime", "오전", "오후", "종일")
	// any stored code other than 0 reads back as 사유
	AbsentCategory = NewTable("absentCategory", "공가", "사유").WithFallback(1)
	ChangeReason   = NewTable("reason", "입실 미클릭", "입실 오클릭", "퇴실 미클릭", "퇴실 오클릭")
)

func (t *Table) Name() string {
	return t.name
}

// Lookup returns the code of label or ErrUnrecognizedLabel.
func (t *Table) Lookup(label string) (int, error) {
	code, ok := t.index[label]
	if !ok {
		return DefaultCode, fmt.Errorf("%s %q: %w", t.name, label, ErrUnrecognizedLabel)
	}
	return code, nil
}

// Encode returns the code of label, DefaultCode when the label is unknown.
func (t *Table) Encode(label string) int {
	code, _ := t.Lookup(label)
	return code
}

// Label is the strict inverse of Encode.
func (t *Table) Label(code int) (string, error) {
	if code < 0 || code >= len(t.labels) {
		return "", fmt.Errorf("%s %d: %w", t.name, code, ErrUnknownCode)
	}
	return t.labels[code], nil
}

// Decode returns the label for code, the fallback label (DefaultCode unless
// set with WithFallback) when code is out of range.
func (t *Table) Decode(code int) string {
	label, err := t.Label(code)
	if err != nil {
		return t.labels[t.fallback]
	}
	return label
}

func (t *Table) Contains(label string) bool {
	_, ok := t.index[label]
	return ok
}

func (t *Table) Labels() []string {
	out := make([]string, len(t.labels))
	copy(out, t.labels)
	return out
}

func (t *Table) Len() int {
	return len(t.labels)
}

// Tables перечисляет все таблицы меток
func Tables() []*Table {
	return []*Table{AbsentTime, AbsentCategory, ChangeReason, AbsenceCampus, ChangeCampus}
}

// SchemaRef - ссылка на схему таблицы в компонентах OpenAPI
func (t *Table) SchemaRef() string {
	return "#/components/schemas/" + t.name
}

// Schema регистрирует допустимые метки в компонентах OpenAPI и возвращает
// ссылку на них
func (t *Table) Schema(r huma.Registry) *huma.Schema {
	schemas := r.Map()
	if _, ok := schemas[t.name]; !ok {
		enum := make([]any, len(t.labels))
		for i, l := range t.labels {
			enum[i] = l
		}
		schemas[t.name] = &huma.Schema{
			Type:     huma.TypeString,
			Enum:     enum,
			Examples: []any{t.labels[DefaultCode]},
		}
	}
	return &huma.Schema{Ref: t.SchemaRef()}
}
