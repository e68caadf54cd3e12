package loadgen

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

// Order is the webhook body of a generated order
type Order struct {
	ChannableID int64       `json:"channable_id"`
	ChannelID   string      `json:"channel_id"`
	ChannelName string      `json:"channel_name"`
	OrderStatus string      `json:"order_status"`
	StoreID     int64       `json:"store_id"`
	Customer    Customer    `json:"customer"`
	Billing     Address     `json:"billing"`
	Shipping    Address     `json:"shipping"`
	Price       OrderTotals `json:"price"`
	Products    []OrderLine `json:"products"`
}

// Customer is the buyer of a generated order
type Customer struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// Address is a generated postal address
type Address struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Street      string `json:"address1"`
	HouseNumber string `json:"house_number"`
	ZipCode     string `json:"zip_code"`
	City        string `json:"city"`
	CountryCode string `json:"country_code"`
}

// OrderTotals carries the order currency
type OrderTotals struct {
	Currency string `json:"currency"`
}

// OrderLine is one product line of a generated order
type OrderLine struct {
	ID       int64  `json:"id"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
	Title    string `json:"title"`
}

var channels = []string{"bol", "amazon", "cdiscount", "kaufland"}

// OrderGenerator produces orders with fake customers and unique Channable IDs.
//
// Thread Safety: Safe for concurrent use by multiple goroutines.
type OrderGenerator struct {
	mu     sync.Mutex
	faker  *gofakeit.Faker
	cfg    *Config
	nextID atomic.Int64
	store  atomic.Uint64
}

// NewOrderGenerator creates a generator. Channable IDs start at a value derived
// from the current time so consecutive runs do not collide.
func NewOrderGenerator(cfg *Config) *OrderGenerator {
	g := &OrderGenerator{
		faker: gofakeit.New(cfg.Seed),
		cfg:   cfg,
	}
	g.nextID.Store(time.Now().Unix() * 1000)
	return g
}

// Next returns the next order
func (g *OrderGenerator) Next() Order {
	id := g.nextID.Add(1)
	storeID := g.cfg.Stores[int(g.store.Add(1)-1)%len(g.cfg.Stores)]

	g.mu.Lock()
	defer g.mu.Unlock()

	first, last := g.faker.FirstName(), g.faker.LastName()
	country := g.cfg.Countries[g.faker.IntN(len(g.cfg.Countries))]
	address := Address{
		FirstName:   first,
		LastName:    last,
		Street:      g.faker.Street(),
		HouseNumber: g.faker.StreetNumber(),
		ZipCode:     g.faker.Zip(),
		City:        g.faker.City(),
		CountryCode: country,
	}

	status := "not_shipped"
	if g.faker.Float64() < g.cfg.LVBRatio {
		status = "shipped"
	}

	lineCount := 1 + g.faker.IntN(g.cfg.MaxLines)
	lines := make([]OrderLine, 0, lineCount)
	for range lineCount {
		p := g.cfg.Products[g.faker.IntN(len(g.cfg.Products))]
		lines = append(lines, OrderLine{
			ID:       p.ID,
			Quantity: 1 + g.faker.IntN(3),
			Price:    p.Price,
			Title:    p.Title,
		})
	}

	return Order{
		ChannableID: id,
		ChannelID:   g.faker.Numerify("##########"),
		ChannelName: channels[g.faker.IntN(len(channels))],
		OrderStatus: status,
		StoreID:     storeID,
		Customer: Customer{
			FirstName: first,
			LastName:  last,
			Email:     g.faker.Email(),
			Phone:     g.faker.Phone(),
		},
		Billing:  address,
		Shipping: address,
		Price:    OrderTotals{Currency: "EUR"},
		Products: lines,
	}
}

// NextBody returns the next order marshaled as the webhook expects it
func (g *OrderGenerator) NextBody() (Order, []byte, error) {
	order := g.Next()
	body, err := json.Marshal(order)
	return order, body, err
}
