package integration

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// ExcludeTax converts a tax inclusive price to the net price for a rate in percent
func ExcludeTax(price, ratePercent decimal.Decimal) decimal.Decimal {
	return price.Div(hundred.Add(ratePercent)).Mul(hundred)
}

// PriceInput collects everything needed to reconcile a reported unit price
type PriceInput struct {
	Reported         decimal.Decimal
	PriceIncludesTax bool
	TaxRate          decimal.Decimal
	// Surcharge is the fixed product tax to deduct, zero when none applies
	Surcharge decimal.Decimal
}

// ReconcilePrice computes the unit price placed on the cart line.
// The surcharge is subtracted after tax has been taken out.
func ReconcilePrice(in PriceInput) decimal.Decimal {
	price := in.Reported
	if !in.PriceIncludesTax {
		price = ExcludeTax(price, in.TaxRate)
	}
	if !in.Surcharge.IsZero() {
		price = price.Sub(in.Surcharge)
	}
	return price
}
