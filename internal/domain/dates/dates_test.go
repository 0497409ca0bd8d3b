package dates

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToDisplay(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "empty", raw: "", want: ""},
		{name: "one digit", raw: "0", want: "0"},
		{name: "two digits", raw: "05", want: "05"},
		{name: "three digits", raw: "050", want: "05.0"},
		{name: "four digits", raw: "0503", want: "05.03"},
		{name: "full", raw: "050315", want: "05.03.15"},
		{name: "extra digits dropped", raw: "05031599", want: "05.03.15"},
		{name: "noise stripped", raw: "05-03/15", want: "05.03.15"},
		{name: "already dotted", raw: "05.03.15", want: "05.03.15"},
		{name: "letters only", raw: "abc", want: ""},
		{name: "hangul stripped", raw: "05년03월", want: "05.03"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToDisplay(tt.raw))
		})
	}
}

func TestToDisplay_Shape(t *testing.T) {
	shape := regexp.MustCompile(`^(\d{1,2}(\.\d{1,2}(\.\d{1,2})?)?)?$`)
	inputs := []string{"", "1", "12a3", "1.2.3.4.5.6.7", "x9y8z7w6v5u4t3", "2024-12-31", "  7 "}

	for _, in := range inputs {
		out := ToDisplay(in)
		assert.Regexp(t, shape, out, "input %q", in)
		assert.LessOrEqual(t, len(out), 8)
		assert.LessOrEqual(t, strings.Count(out, "."), 2)
	}
}

func TestToDomainSplit(t *testing.T) {
	assert.Equal(t, Split{YY: "05", MM: "03", DD: "15"}, ToDomainSplit("05.03.15"))
	assert.Equal(t, Split{YY: "05", MM: "03"}, ToDomainSplit("05.03"))
	assert.Equal(t, Split{}, ToDomainSplit(""))
}

func TestSplitToISO(t *testing.T) {
	tests := []struct {
		name  string
		split Split
		want  string
	}{
		{name: "full", split: Split{YY: "24", MM: "03", DD: "05"}, want: "2024-03-05"},
		{name: "pads month and day", split: Split{YY: "24", MM: "3", DD: "5"}, want: "2024-03-05"},
		{name: "empty parts padded", split: Split{YY: "24"}, want: "2024-00-00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitToISO(tt.split))
		})
	}
}

func TestISORoundTrip(t *testing.T) {
	for _, display := range []string{"24.03.05", "99.12.31", "00.01.01"} {
		assert.Equal(t, display, ISOToDisplay(SplitToISO(ToDomainSplit(display))))
	}
}

func TestISOToDisplay(t *testing.T) {
	assert.Equal(t, "24.03.05", ISOToDisplay("2024-03-05"))
	assert.Equal(t, "24.03.05", ISOToDisplay("24-03-05"))
	assert.Equal(t, "", ISOToDisplay(""))
}

func TestISOToSplit(t *testing.T) {
	assert.Equal(t, Split{YY: "24", MM: "03", DD: "05"}, ISOToSplit("2024-03-05"))
	assert.Equal(t, Split{YY: "99", MM: "12", DD: "31"}, ISOToSplit("1999-12-31"))
	assert.Equal(t, Split{}, ISOToSplit(""))
	assert.Equal(t, Split{YY: "4"}, ISOToSplit("024"))
}

func TestDisplayToISO(t *testing.T) {
	assert.Equal(t, "2005-03-15", DisplayToISO("05.03.15"))
}

func TestISOToDisplay_TwoDigitYear(t *testing.T) {
	assert.Equal(t, "05.03.15", ISOToDisplay("05-03-15"))
	assert.Equal(t, "05.03.15", ISOToDisplay(DisplayToISO("05.03.15")))
}

func TestValidISO(t *testing.T) {
	assert.True(t, ValidISO("2024-03-05"))
	assert.False(t, ValidISO("24-03-05"))
	assert.False(t, ValidISO("2024/03/05"))
	assert.False(t, ValidISO("2024-0a-05"))
	assert.False(t, ValidISO(""))
}
