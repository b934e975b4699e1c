package pricing

import (
	"errors"
	"strconv"
	"strings"
)

// parseLeadingInt reads an optional sign and the leading decimal digits of s,
// ignoring anything after them: "12", "12 sq ft" and "12.9" all give 12.
// Input without leading digits gives 0 and values past the int range saturate.
// This matches how the storefront form has always interpreted its fields.
func parseLeadingInt(s string) int {
	s = strings.TrimSpace(s)

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0
	}
	return n
}
