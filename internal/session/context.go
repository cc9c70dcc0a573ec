package session

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"

	"github.com/ziadkadry99/shop-scout/internal/catalog"
)

// Context is the mutable record threaded through every stage of a session.
// All slots are optional until a stage sets them. One session owns exactly
// one Context; contexts are never shared across sessions.
type Context struct {
	ID string `json:"id,omitempty"`

	ImageBase64       string `json:"image_base64,omitempty"`
	VisionDescription string `json:"vision_description,omitempty"`

	ProductType          string `json:"product_type,omitempty"`
	ProductTypeConfirmed bool   `json:"product_type_confirmed,omitempty"`

	// Preferences maps attribute keys to values. Price ranges are stored in
	// canonical "min-max" form. Keys come from the known attribute
	// vocabulary; free-text questions get a deterministic generated key.
	Preferences map[string]string `json:"preferences,omitempty"`

	// Recommendations is always derived fresh by the match engine; stages
	// other than recommendation and inventory filtering never hand-edit it.
	Recommendations []catalog.Product `json:"recommendations,omitempty"`

	// InventoryStatus records the stock verdict per product id, including
	// products later filtered out of Recommendations.
	InventoryStatus map[int]bool `json:"inventory_status,omitempty"`

	ConfirmedProduct *catalog.Product `json:"confirmed_product,omitempty"`

	// Cart only grows during a session.
	Cart []catalog.Product `json:"cart,omitempty"`

	AddMore        bool   `json:"add_more,omitempty"`
	FeedbackRating *int   `json:"feedback_rating,omitempty"`
	Summary        string `json:"summary,omitempty"`

	// Error records non-fatal collaborator failures for observability.
	Error string `json:"error,omitempty"`
}

// New creates an empty session context with a fresh id.
func New() *Context {
	return &Context{
		ID:          uuid.New().String(),
		Preferences: make(map[string]string),
	}
}

// Clone returns a deep copy of the context. Used for snapshots, so a
// suspended session can be resumed without aliasing the live copy.
func (c *Context) Clone() *Context {
	cp := *c

	if c.Preferences != nil {
		cp.Preferences = make(map[string]string, len(c.Preferences))
		for k, v := range c.Preferences {
			cp.Preferences[k] = v
		}
	}
	if c.InventoryStatus != nil {
		cp.InventoryStatus = make(map[int]bool, len(c.InventoryStatus))
		for k, v := range c.InventoryStatus {
			cp.InventoryStatus[k] = v
		}
	}
	cp.Recommendations = append([]catalog.Product(nil), c.Recommendations...)
	cp.Cart = append([]catalog.Product(nil), c.Cart...)
	if c.ConfirmedProduct != nil {
		p := *c.ConfirmedProduct
		cp.ConfirmedProduct = &p
	}
	if c.FeedbackRating != nil {
		r := *c.FeedbackRating
		cp.FeedbackRating = &r
	}

	return &cp
}

// SetPreference records a preference value under the given key,
// overwriting any previous value. The key should come from the known
// vocabulary or from KeyForQuestion.
func (c *Context) SetPreference(key, value string) {
	if c.Preferences == nil {
		c.Preferences = make(map[string]string)
	}
	c.Preferences[key] = value
}

// MergePreference records a value only if the key is not already set.
// Returns true if the value was written. Enrichment uses this so LLM
// suggestions never silently overwrite what the user said.
func (c *Context) MergePreference(key, value string) bool {
	if c.Preferences == nil {
		c.Preferences = make(map[string]string)
	}
	if _, ok := c.Preferences[key]; ok {
		return false
	}
	c.Preferences[key] = value
	return true
}

// Preference returns the value for key, or "" when unset.
func (c *Context) Preference(key string) string {
	return c.Preferences[key]
}

// AddToCart appends a product to the cart. The cart never shrinks.
func (c *Context) AddToCart(p catalog.Product) {
	c.Cart = append(c.Cart, p)
}

// RecordError notes a non-fatal collaborator failure on the context.
func (c *Context) RecordError(msg string) {
	c.Error = msg
}

// Known preference attribute keys. Free-text questions that resolve to none
// of these get a generated key via KeyForQuestion.
const (
	KeyBrand         = "brand"
	KeyColor         = "color"
	KeyPriceRange    = "price_range"
	KeyCategory      = "category"
	KeySize          = "size"
	KeyMaterial      = "material"
	KeyGenre         = "genre"
	KeyFormat        = "format"
	KeyAuthorOrTitle = "author_or_title"
	KeyFeatures      = "features"
)

// keyHints maps a substring of a question to the attribute key it asks about.
// Checked in order so "price" wins over a stray "color" later in the text.
var keyHints = []struct {
	hint string
	key  string
}{
	{"brand", KeyBrand},
	{"price", KeyPriceRange},
	{"budget", KeyPriceRange},
	{"color", KeyColor},
	{"colour", KeyColor},
	{"size", KeySize},
	{"material", KeyMaterial},
	{"author", KeyAuthorOrTitle},
	{"title", KeyAuthorOrTitle},
	{"genre", KeyGenre},
	{"paperback", KeyFormat},
	{"hardcover", KeyFormat},
	{"category", KeyCategory},
	{"feature", KeyFeatures},
}

// KeyForQuestion maps a free-text clarification question to a preference
// key. Questions that match a known attribute get that key; anything else
// gets a deterministic generated key, so asking the same question twice in
// one session targets the same slot and never clobbers another attribute.
func KeyForQuestion(question string) string {
	lowered := strings.ToLower(question)
	for _, h := range keyHints {
		if strings.Contains(lowered, h.hint) {
			return h.key
		}
	}

	sum := sha256.Sum256([]byte(lowered))
	return "q_" + hex.EncodeToString(sum[:4])
}
