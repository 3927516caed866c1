package tgui

// CutRunes returns the first n runes of s without any marker.
// The cut always lands on a rune boundary.
func CutRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		// Byte length bounds rune count.
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
