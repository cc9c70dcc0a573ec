package vision

import "testing"

func TestCategoryFromDescription(t *testing.T) {
	tests := []struct {
		description string
		want        string
	}{
		{"A white running shoe with a mesh upper.", "sneakers"},
		{"This is a sleek silver laptop with a backlit keyboard.", "electronics"},
		{"A hardcover novel with an embossed title.", "books"},
		{"A pair of over-ear headphones.", "electronics"},
		{"A denim jacket with brass buttons.", "clothes"},
		{"Some unidentifiable object.", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := CategoryFromDescription(tt.description); got != tt.want {
			t.Errorf("CategoryFromDescription(%q) = %q, want %q", tt.description, got, tt.want)
		}
	}
}
