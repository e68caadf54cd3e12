package testutil

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

// OrderLine is a product line of a Channable order body
type OrderLine struct {
	ID       int64  `json:"id"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
	Title    string `json:"title,omitempty"`
}

// OrderBuilder builds Channable order bodies as they arrive on the webhook
type OrderBuilder struct {
	body map[string]any
	// lines are kept apart so WithLine can append
	lines []OrderLine
}

// NewOrder starts an order for a store with sensible defaults: bol, EUR,
// billed and shipped to the Netherlands.
func NewOrder(storeID, channableID int64) *OrderBuilder {
	return &OrderBuilder{
		body: map[string]any{
			"channable_id": channableID,
			"channel_id":   "CH-1",
			"channel_name": "bol",
			"order_status": "not_shipped",
			"store_id":     storeID,
			"customer": map[string]any{
				"first_name": "Jan",
				"last_name":  "Jansen",
				"email":      "jan@example.com",
			},
			"billing":  map[string]any{"first_name": "Jan", "last_name": "Jansen", "country_code": "NL"},
			"shipping": map[string]any{"first_name": "Jan", "last_name": "Jansen", "country_code": "NL"},
			"price":    map[string]any{"currency": "EUR"},
		},
	}
}

// WithLine appends a product line
func (b *OrderBuilder) WithLine(productID int64, qty int, price, title string) *OrderBuilder {
	b.lines = append(b.lines, OrderLine{ID: productID, Quantity: qty, Price: price, Title: title})
	return b
}

// Shipped marks the order as already fulfilled by the marketplace
func (b *OrderBuilder) Shipped() *OrderBuilder {
	b.body["order_status"] = "shipped"
	return b
}

// WithCountry sets both the billing and the shipping country
func (b *OrderBuilder) WithCountry(code string) *OrderBuilder {
	b.body["billing"].(map[string]any)["country_code"] = code
	b.body["shipping"].(map[string]any)["country_code"] = code
	return b
}

// JSON returns the marshaled order body
func (b *OrderBuilder) JSON(t *testing.T) []byte {
	t.Helper()

	body := make(map[string]any, len(b.body)+1)
	for k, v := range b.body {
		body[k] = v
	}
	lines := b.lines
	if lines == nil {
		lines = []OrderLine{}
	}
	body["products"] = lines

	data, err := json.Marshal(body)
	require.NoError(t, err)
	return data
}
