package bookings

import (
	"math"
	"strings"
	"unicode"

	"branchdesk/internal/catalog"
)

// Total is the order amount in whole rupees. Negative ticket counts
// price at zero; there is no upper bound.
func Total(screen catalog.ScreenClass, tickets int) int {
	if tickets <= 0 {
		return 0
	}
	if screen.Price > 0 && tickets > math.MaxInt/screen.Price {
		return math.MaxInt
	}
	return screen.Price * tickets
}

// ParseTickets reads a ticket count the way the booking form does: leading
// whitespace and an optional sign are skipped, then the leading run of
// decimal digits is used and anything after it ignored. Input with no
// leading digits, and negative counts, read as 0.
func ParseTickets(raw string) int {
	s := strings.TrimLeftFunc(raw, unicode.IsSpace)

	negative := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		negative = s[0] == '-'
		s = s[1:]
	}

	n := 0
	digits := 0
	for ; digits < len(s) && s[digits] >= '0' && s[digits] <= '9'; digits++ {
		d := int(s[digits] - '0')
		if n > (math.MaxInt32-d)/10 {
			n = math.MaxInt32
			continue
		}
		n = n*10 + d
	}

	if digits == 0 || negative {
		return 0
	}
	return n
}
