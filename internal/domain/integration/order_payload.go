package integration

import (
	"strings"

	"github.com/shopspring/decimal"
)

// OrderStatusShipped is reported by Channable for orders already shipped by the
// marketplace (bol.com LVB, Amazon FBA). Such orders never move local stock.
const OrderStatusShipped = "shipped"

// Address is a postal address attached to an order
type Address struct {
	FirstName      string
	MiddleName     string
	LastName       string
	Company        string
	Email          string
	Phone          string
	Street         string
	HouseNumber    string
	HouseNumberExt string
	ZipCode        string
	City           string
	Region         string
	CountryCode    string
}

// FullName joins the name parts that are set
func (a Address) FullName() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{a.FirstName, a.MiddleName, a.LastName} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// Customer is the buyer of an order
type Customer struct {
	Gender    string
	FirstName string
	LastName  string
	Company   string
	Email     string
	Phone     string
	Mobile    string
}

// OrderTotals holds the monetary totals reported by the channel
type OrderTotals struct {
	Subtotal decimal.Decimal
	Shipping decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
	Currency string
}

// OrderLine is one product line of an order.
// Title is only used to make error messages readable.
type OrderLine struct {
	ProductID int64
	Quantity  int
	Price     decimal.Decimal
	Title     string
	EAN       string
}

// DisplayTitle returns the title or a placeholder when the channel sent none
func (l OrderLine) DisplayTitle() string {
	if strings.TrimSpace(l.Title) == "" {
		return UnknownTitle
	}
	return l.Title
}

// UnknownTitle is used in messages for lines without a title
const UnknownTitle = "*unknown*"

// OrderPayload is an order as pushed by Channable
type OrderPayload struct {
	ChannableID int64
	ChannelID   string
	ChannelName string
	OrderStatus string
	StoreID     int64
	Customer    Customer
	Billing     Address
	Shipping    Address
	Price       OrderTotals
	Products    []OrderLine
}

// IsLVB reports whether the order was fulfilled by the marketplace itself
func (p *OrderPayload) IsLVB() bool {
	return strings.EqualFold(strings.TrimSpace(p.OrderStatus), OrderStatusShipped)
}

// HasProducts reports whether the payload carries at least one line
func (p *OrderPayload) HasProducts() bool {
	return len(p.Products) > 0
}
