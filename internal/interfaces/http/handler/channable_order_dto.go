package handler

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/orderbridge/backend/internal/domain/integration"
)

// =====================
// Channable order webhook DTOs
// =====================

// ChannableOrderRequest is the order body pushed by Channable
type ChannableOrderRequest struct {
	ChannableID int64              `json:"channable_id" binding:"required,gt=0" example:"5001"`
	ChannelID   string             `json:"channel_id" binding:"max=64" example:"1234567890"`
	ChannelName string             `json:"channel_name" binding:"required,max=64" example:"bol"`
	OrderStatus string             `json:"order_status" binding:"max=32" example:"not_shipped"`
	StoreID     int64              `json:"store_id" binding:"gte=0" example:"1"`
	Customer    CustomerRequest    `json:"customer"`
	Billing     AddressRequest     `json:"billing"`
	Shipping    AddressRequest     `json:"shipping"`
	Price       OrderTotalsRequest `json:"price"`
	// Products may be empty; such orders are rejected with IMPORT_EMPTY_ITEMS
	Products    []OrderLineRequest `json:"products" binding:"dive"`
}

// CustomerRequest is the buyer of a Channable order
type CustomerRequest struct {
	Gender    string `json:"gender" binding:"max=16"`
	FirstName string `json:"first_name" binding:"max=128"`
	LastName  string `json:"last_name" binding:"max=128"`
	Company   string `json:"company" binding:"max=255"`
	Email     string `json:"email" binding:"omitempty,email" example:"buyer@example.com"`
	Phone     string `json:"phone" binding:"max=64"`
	Mobile    string `json:"mobile" binding:"max=64"`
}

// AddressRequest is a billing or shipping address
type AddressRequest struct {
	FirstName      string `json:"first_name" binding:"max=128"`
	MiddleName     string `json:"middle_name" binding:"max=128"`
	LastName       string `json:"last_name" binding:"max=128"`
	Company        string `json:"company" binding:"max=255"`
	Email          string `json:"email" binding:"omitempty,email"`
	Phone          string `json:"phone" binding:"max=64"`
	Street         string `json:"address1" binding:"max=255"`
	HouseNumber    string `json:"house_number" binding:"max=32"`
	HouseNumberExt string `json:"house_number_ext" binding:"max=32"`
	ZipCode        string `json:"zip_code" binding:"max=32"`
	City           string `json:"city" binding:"max=128"`
	Region         string `json:"region" binding:"max=128"`
	CountryCode    string `json:"country_code" binding:"omitempty,iso3166_1_alpha2" example:"NL"`
}

// OrderTotalsRequest holds the channel reported totals
type OrderTotalsRequest struct {
	Subtotal decimal.Decimal `json:"subtotal" swaggertype:"string" example:"45.00"`
	Shipping decimal.Decimal `json:"shipping" swaggertype:"string" example:"0.00"`
	Discount decimal.Decimal `json:"discount" swaggertype:"string" example:"0.00"`
	Total    decimal.Decimal `json:"total" swaggertype:"string" example:"45.00"`
	Currency string          `json:"currency" binding:"omitempty,currency" example:"EUR"`
}

// OrderLineRequest is one product line of a Channable order
type OrderLineRequest struct {
	ID       int64           `json:"id" binding:"required,gt=0" example:"10"`
	Quantity int             `json:"quantity" binding:"gte=0" example:"2"`
	Price    decimal.Decimal `json:"price" swaggertype:"string" example:"12.10"`
	Title    string          `json:"title" binding:"max=255" example:"Stoneware mug"`
	EAN      string          `json:"ean" binding:"omitempty,max=14,numeric" example:"8712345678906"`
}

func (r *ChannableOrderRequest) toPayload() integration.OrderPayload {
	lines := make([]integration.OrderLine, len(r.Products))
	for i, p := range r.Products {
		lines[i] = integration.OrderLine{
			ProductID: p.ID,
			Quantity:  p.Quantity,
			Price:     p.Price,
			Title:     p.Title,
			EAN:       p.EAN,
		}
	}
	return integration.OrderPayload{
		ChannableID: r.ChannableID,
		ChannelID:   r.ChannelID,
		ChannelName: r.ChannelName,
		OrderStatus: r.OrderStatus,
		StoreID:     r.StoreID,
		Customer: integration.Customer{
			Gender:    r.Customer.Gender,
			FirstName: r.Customer.FirstName,
			LastName:  r.Customer.LastName,
			Company:   r.Customer.Company,
			Email:     r.Customer.Email,
			Phone:     r.Customer.Phone,
			Mobile:    r.Customer.Mobile,
		},
		Billing:  r.Billing.toAddress(),
		Shipping: r.Shipping.toAddress(),
		Price: integration.OrderTotals{
			Subtotal: r.Price.Subtotal,
			Shipping: r.Price.Shipping,
			Discount: r.Price.Discount,
			Total:    r.Price.Total,
			Currency: strings.ToUpper(r.Price.Currency),
		},
		Products: lines,
	}
}

func (a AddressRequest) toAddress() integration.Address {
	return integration.Address{
		FirstName:      a.FirstName,
		MiddleName:     a.MiddleName,
		LastName:       a.LastName,
		Company:        a.Company,
		Email:          a.Email,
		Phone:          a.Phone,
		Street:         a.Street,
		HouseNumber:    a.HouseNumber,
		HouseNumberExt: a.HouseNumberExt,
		ZipCode:        a.ZipCode,
		City:           a.City,
		Region:         a.Region,
		CountryCode:    a.CountryCode,
	}
}
