package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-kasir/internal/money"
)

var (
	taxRateElectronics = decimal.RequireFromString("0.10")
	taxRateClothing    = decimal.RequireFromString("0.05")
)

// TaxRate returns the fixed tax rate for a product category.
// Categories outside the table are untaxed rather than rejected; request
// validation keeps unknown categories out of the API, so the default arm
// only matters for callers constructing items directly.
func TaxRate(category ProductCategory) decimal.Decimal {
	switch category {
	case CategoryElectronics:
		return taxRateElectronics
	case CategoryBooks:
		return decimal.Zero
	case CategoryClothing:
		return taxRateClothing
	default:
		return decimal.Zero
	}
}

// CalculateTax computes the tax on a pre-tax amount, quantized to 2 dp.
func CalculateTax(preTax money.Money, category ProductCategory) money.Money {
	return preTax.MulRate(TaxRate(category))
}
