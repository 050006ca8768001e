package mw

import (
	"strconv"
)

// ParseAmount parses a base 10 amount in [0, 2^64). Signs, whitespace,
// underscores and other bases are rejected, as is anything that overflows.
func ParseAmount(s string) (uint64, error) {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, makeError(ErrInvalidAmount, "amount "+
				strconv.Quote(s)+" is not a decimal number")
		}
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, makeError(ErrInvalidAmount, "amount "+
			strconv.Quote(s)+" is not a 64-bit unsigned integer")
	}
	return v, nil
}
