package catalog

// Product is an immutable catalog entry. Stages and the match engine only
// read products; session contexts hold value copies, never shared handles.
type Product struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Brand    string  `json:"brand"`
	Color    string  `json:"color"`
	Price    float64 `json:"price"`
	Category string  `json:"category"` // possibly comma-joined, e.g. "sneakers,footwear"
}
