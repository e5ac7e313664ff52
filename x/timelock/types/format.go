package types

import (
	"fmt"
	"strings"
)

// EncodeBase10 renders a raw token amount with the mint's decimal point,
// trimming trailing zeros: 1500000 with 6 decimals renders as "1.5".
func EncodeBase10(amount uint64, decimals int) string {
	s := fmt.Sprintf("%0*d", decimals+1, amount)
	cut := len(s) - decimals
	out := s[:cut] + "." + s[cut:]
	out = strings.TrimRight(out, "0")
	return strings.TrimRight(out, ".")
}

// PrettyTime renders a duration in seconds as days/hours/minutes/seconds.
func PrettyTime(t uint64) string {
	seconds := t % 60
	minutes := (t / 60) % 60
	hours := (t / 3600) % 24
	days := t / 86400
	return fmt.Sprintf("%d days, %d hours, %d minutes, %d seconds", days, hours, minutes, seconds)
}
