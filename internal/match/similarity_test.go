package match

import (
	"math"
	"testing"
)

func TestRatioIdentical(t *testing.T) {
	if r := Ratio("nike", "nike"); r != 1.0 {
		t.Errorf("expected 1.0 for identical strings, got %v", r)
	}
	if r := Ratio("Nike", "nike"); r != 1.0 {
		t.Errorf("expected case-insensitive 1.0, got %v", r)
	}
}

func TestRatioEmpty(t *testing.T) {
	if r := Ratio("", ""); r != 1.0 {
		t.Errorf("expected 1.0 for two empty strings, got %v", r)
	}
	if r := Ratio("nike", ""); r != 0.0 {
		t.Errorf("expected 0.0 against an empty string, got %v", r)
	}
}

func TestRatioDisjoint(t *testing.T) {
	if r := Ratio("abc", "xyz"); r != 0.0 {
		t.Errorf("expected 0.0 for disjoint strings, got %v", r)
	}
}

func TestRatioTransposition(t *testing.T) {
	// "niek" shares the "ni" block plus a stray "k" with "nike":
	// 2*3/(4+4) = 0.75.
	if r := Ratio("nike", "niek"); math.Abs(r-0.75) > 1e-9 {
		t.Errorf("expected 0.75, got %v", r)
	}
}

func TestRatioNearMiss(t *testing.T) {
	// A doubled letter barely dents the score.
	r := Ratio("adidas", "addidas")
	if r < 0.9 {
		t.Errorf("expected a high ratio for a doubled letter, got %v", r)
	}
	if r >= 1.0 {
		t.Errorf("non-identical strings must score below 1.0, got %v", r)
	}
}

func TestRatioSymmetric(t *testing.T) {
	pairs := [][2]string{
		{"sneakers", "sneaker"},
		{"electronics", "electronic"},
		{"nike", "niek"},
	}
	for _, p := range pairs {
		if a, b := Ratio(p[0], p[1]), Ratio(p[1], p[0]); a != b {
			t.Errorf("Ratio(%q,%q)=%v but Ratio(%q,%q)=%v", p[0], p[1], a, p[1], p[0], b)
		}
	}
}

func TestLongestCommonSubstring(t *testing.T) {
	ai, bi, size := longestCommonSubstring([]rune("xadidasy"), []rune("adidas"))
	if ai != 1 || bi != 0 || size != 6 {
		t.Errorf("expected (1,0,6), got (%d,%d,%d)", ai, bi, size)
	}

	_, _, size = longestCommonSubstring([]rune(""), []rune("abc"))
	if size != 0 {
		t.Errorf("expected no match against empty input, got size %d", size)
	}
}
