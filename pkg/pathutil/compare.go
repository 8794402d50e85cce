package pathutil

import "strings"

// Comparator orders two directory entry names; directories use one fixed
// at construction so that children iterate in a stable, predictable order.
type Comparator func(a, b string) bool

// CaseSensitive orders names by raw byte value.
func CaseSensitive(a, b string) bool {
	return a < b
}

// CaseInsensitive orders names ignoring case, falling back to a
// byte-value comparison to keep the order stable when names differ only
// in case.
func CaseInsensitive(a, b string) bool {
	af, bf := strings.ToLower(a), strings.ToLower(b)
	if af == bf {
		return a < b
	}
	return af < bf
}

// EqualNames reports whether a and b name the same entry under the given
// comparator's case policy.
func EqualNames(a, b string, caseInsensitive bool) bool {
	if caseInsensitive {
		return strings.EqualFold(a, b)
	}
	return a == b
}
