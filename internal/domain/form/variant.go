package form

import (
	"fmt"

	"attendform/internal/domain/category"

	"github.com/danielgtaylor/huma/v2"
)

type Variant string

const (
	VariantAbsence Variant = "absence"
	VariantChange  Variant = "change"
)

const (
	RouteAbsencePreview = "/preview"
	RouteChangePreview  = "/preview2"
)

func (Variant) Schema(huma.Registry) *huma.Schema {
	return &huma.Schema{
		Type: huma.TypeString,
		Enum: []any{
			string(VariantAbsence),
			string(VariantChange),
		},
		Description: "Вид формы: absence - отсутствие, change - изменение отметки",
		Examples:    []any{VariantAbsence},
	}
}

// Validate проверяет, что вид формы известен.
func (v Variant) Validate() error {
	switch v {
	case VariantAbsence, VariantChange:
		return nil
	}
	return fmt.Errorf("неверный вид формы: %s", v)
}

func (v Variant) String() string {
	return string(v)
}

// Route is the preview page a submitted form hands off to.
func (v Variant) Route() string {
	if v == VariantChange {
		return RouteChangePreview
	}
	return RouteAbsencePreview
}

// Key builds the store key of a form.
func (v Variant) Key(id string) string {
	return string(v) + ":" + id
}

// Option is a choice field and the label table its values come from.
type Option struct {
	Field string
	Table *category.Table
}

// Options lists the choice fields of the variant in form order.
func (v Variant) Options() []Option {
	if v == VariantChange {
		return []Option{
			{FieldLocation, category.ChangeCampus},
			{FieldChangeCode, category.ChangeReason},
		}
	}
	return []Option{
		{FieldLocation, category.AbsenceCampus},
		{FieldAbsentCategory, category.AbsentCategory},
		{FieldCategory, category.AbsentTime},
	}
}
