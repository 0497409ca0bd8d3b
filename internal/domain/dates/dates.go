// Package dates converts between the dotted date a person types into the form
// ("yy.mm.dd") and the dash separated date the record carries.
package dates

import (
	"strings"
)

// Century is prepended to every two-digit year.
const Century = "20"

const maxDisplayDigits = 6

// Split is a date broken into its two-digit components, as typed.
type Split struct {
	YY string
	MM string
	DD string
}

// ToDisplay normalizes raw keyboard input into the progressive dotted form:
// non-digits are dropped, at most six digits are kept, and a dot follows the
// second and fourth digit when more digits come after it.
func ToDisplay(raw string) string {
	digits := make([]byte, 0, maxDisplayDigits)
	for i := 0; i < len(raw) && len(digits) < maxDisplayDigits; i++ {
		if c := raw[i]; c >= '0' && c <= '9' {
			digits = append(digits, c)
		}
	}

	var b strings.Builder
	b.Grow(len(digits) + 2)
	for i, c := range digits {
		if i == 2 || i == 4 {
			b.WriteByte('.')
		}
		b.WriteByte(c)
	}
	return b.String()
}

// ToDomainSplit splits a display date on dots. Missing parts are empty, no
// calendar validation is done.
func ToDomainSplit(display string) Split {
	parts := strings.SplitN(display, ".", 3)
	var s Split
	if len(parts) > 0 {
		s.YY = parts[0]
	}
	if len(parts) > 1 {
		s.MM = parts[1]
	}
	if len(parts) > 2 {
		s.DD = parts[2]
	}
	return s
}

// SplitToISO renders a split date as "20yy-mm-dd" with month and day padded to
// two digits.
func SplitToISO(s Split) string {
	return Century + s.YY + "-" + pad2(s.MM) + "-" + pad2(s.DD)
}

// ISOToDisplay turns "yyyy-mm-dd" into "yy.mm.dd". A four digit year keeps
// only its last two digits so that ISOToDisplay(SplitToISO(s)) gives back the
// typed date.
func ISOToDisplay(iso string) string {
	parts := strings.SplitN(iso, "-", 3)
	if len(parts[0]) == 4 {
		parts[0] = parts[0][2:]
	}
	return strings.Join(parts, ".")
}

// ISOToSplit breaks "yyyy-mm-dd" into components. The year keeps its
// third and fourth characters, whatever the century.
func ISOToSplit(iso string) Split {
	parts := strings.SplitN(iso, "-", 3)
	var s Split
	s.YY = substr(parts[0], 2, 4)
	if len(parts) > 1 {
		s.MM = parts[1]
	}
	if len(parts) > 2 {
		s.DD = parts[2]
	}
	return s
}

// DisplayToISO is SplitToISO(ToDomainSplit(display)).
func DisplayToISO(display string) string {
	return SplitToISO(ToDomainSplit(display))
}

// ValidISO reports whether s looks like "yyyy-mm-dd".
func ValidISO(s string) bool {
	if len(s) != 10 || s[4] != '-' || s[7] != '-' {
		return false
	}
	for i := 0; i < len(s); i++ {
		if i == 4 || i == 7 {
			continue
		}
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func pad2(s string) string {
	if len(s) >= 2 {
		return s
	}
	return strings.Repeat("0", 2-len(s)) + s
}

func substr(s string, from, to int) string {
	if from > len(s) {
		return ""
	}
	if to > len(s) {
		to = len(s)
	}
	return s[from:to]
}
