package listing

import "strings"

// compareIDs compares identifiers such as "C4000r12" so that runs of digits
// order numerically: "C999" < "C1000" and "C4000r2" < "C4000r10".
func compareIDs(a, b string) int {
	for a != "" && b != "" {
		ca, ra := nextRun(a)
		cb, rb := nextRun(b)
		a, b = ra, rb

		if isDigit(ca[0]) && isDigit(cb[0]) {
			na, nb := strings.TrimLeft(ca, "0"), strings.TrimLeft(cb, "0")
			if len(na) != len(nb) {
				return sign(len(na) - len(nb))
			}
			if c := strings.Compare(na, nb); c != 0 {
				return c
			}
			continue
		}
		if c := strings.Compare(ca, cb); c != 0 {
			return c
		}
	}
	return sign(len(a) - len(b))
}

// nextRun splits s after its leading run of digits or non-digits.
func nextRun(s string) (run, rest string) {
	digit := isDigit(s[0])
	i := 1
	for i < len(s) && isDigit(s[i]) == digit {
		i++
	}
	return s[:i], s[i:]
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}
