// Package money converts between user-facing dollar strings and the integer
// cents stored on events. Costs are kept in minor units end to end; floats
// only appear at display time.
package money

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseCents parses a dollar amount like "12.50", "12.5", "12" or "$12.50"
// into cents. A blank string parses to 0. Fractional digits beyond two are
// truncated rather than rounded, matching integer cents arithmetic.
func ParseCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	whole, frac, hasFrac := strings.Cut(s, ".")

	var dollars int64
	if whole != "" {
		if !allDigits(whole) {
			return 0, fmt.Errorf("invalid dollar amount %q", s)
		}
		d, err := strconv.ParseInt(whole, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid dollar amount %q", s)
		}
		dollars = d
	} else if !hasFrac {
		return 0, fmt.Errorf("invalid dollar amount %q", s)
	}

	var cents int64
	if hasFrac {
		// ParseInt would accept a sign here; cents must be bare digits.
		if !allDigits(frac) {
			return 0, fmt.Errorf("invalid dollar amount %q", s)
		}
		if len(frac) > 2 {
			frac = frac[:2]
		}
		for len(frac) < 2 {
			frac += "0"
		}
		c, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid dollar amount %q", s)
		}
		cents = c
	}

	return dollars*100 + cents, nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Format renders cents as a two-decimal dollar string without a currency
// symbol: Format(1250) == "12.50".
func Format(cents int64) string {
	return fmt.Sprintf("%.2f", float64(cents)/100)
}
