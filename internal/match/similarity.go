package match

import "strings"

// Ratio computes a symmetric string similarity in [0,1] between the two
// strings, lower-cased. It is the Ratcliff/Obershelp measure: twice the
// total length of the matching blocks divided by the combined length, where
// matching blocks are found by recursively taking the longest common
// substring and matching to either side of it.
func Ratio(a, b string) float64 {
	ra := []rune(strings.ToLower(a))
	rb := []rune(strings.ToLower(b))

	total := len(ra) + len(rb)
	if total == 0 {
		return 1.0
	}

	return 2.0 * float64(matchingChars(ra, rb)) / float64(total)
}

// matchingChars returns the total number of characters covered by the
// matching blocks between a and b.
func matchingChars(a, b []rune) int {
	ai, bi, size := longestCommonSubstring(a, b)
	if size == 0 {
		return 0
	}

	n := size
	n += matchingChars(a[:ai], b[:bi])
	n += matchingChars(a[ai+size:], b[bi+size:])
	return n
}

// longestCommonSubstring returns the start indices and length of the longest
// run of characters common to a and b. Ties resolve to the earliest match
// in a, then in b.
func longestCommonSubstring(a, b []rune) (ai, bi, size int) {
	if len(a) == 0 || len(b) == 0 {
		return 0, 0, 0
	}

	// lengths[j] holds the length of the common suffix ending at a[i], b[j]
	// for the current row i.
	lengths := make([]int, len(b)+1)
	for i := 0; i < len(a); i++ {
		// Walk j backwards so lengths[j] still holds the previous row.
		for j := len(b) - 1; j >= 0; j-- {
			if a[i] == b[j] {
				lengths[j+1] = lengths[j] + 1
				if lengths[j+1] > size {
					size = lengths[j+1]
					ai = i - size + 1
					bi = j - size + 1
				}
			} else {
				lengths[j+1] = 0
			}
		}
	}

	return ai, bi, size
}
