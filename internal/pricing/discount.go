package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-kasir/internal/money"
)

// The three discount rules are staged: the item rule consumes each item's
// post-tax subtotal, the bulk rule consumes the cart total after item
// discounts, and the loyalty rule consumes the total after the bulk discount.
// The order is part of the contract; reordering changes the numbers.

var (
	itemDiscountRate = decimal.RequireFromString("0.15")
	bulkDiscountRate = decimal.RequireFromString("0.10")
	bulkThreshold    = money.MustParse("200.00")

	loyaltyRateBronze = decimal.RequireFromString("0.05")
	loyaltyRateSilver = decimal.RequireFromString("0.10")
	loyaltyRateGold   = decimal.RequireFromString("0.15")
)

// ItemDiscountQty is the quantity above which Electronics earn the item rule.
const ItemDiscountQty = 2

// ItemDiscount returns 15% of the item's post-tax subtotal when the item is
// Electronics with quantity above ItemDiscountQty, else 0.00.
func ItemDiscount(item LineItem, subtotalAfterTax money.Money) money.Money {
	if item.Category == CategoryElectronics && item.Quantity > ItemDiscountQty {
		return subtotalAfterTax.MulRate(itemDiscountRate)
	}
	return money.Zero
}

// BulkDiscount returns 10% of cartTotal when it exceeds 200.00, else 0.00.
// cartTotal must already have item discounts subtracted.
func BulkDiscount(cartTotal money.Money) money.Money {
	if cartTotal.GreaterThan(bulkThreshold) {
		return cartTotal.MulRate(bulkDiscountRate)
	}
	return money.Zero
}

// LoyaltyRate returns the discount rate for a loyalty tier. Unknown tiers
// fall back to 0%, mirroring the category fallback in TaxRate.
func LoyaltyRate(level LoyaltyLevel) decimal.Decimal {
	switch level {
	case LoyaltyBronze:
		return loyaltyRateBronze
	case LoyaltySilver:
		return loyaltyRateSilver
	case LoyaltyGold:
		return loyaltyRateGold
	default:
		return decimal.Zero
	}
}

// LoyaltyDiscount applies the tier rate to the amount remaining after the
// bulk discount.
func LoyaltyDiscount(amount money.Money, level LoyaltyLevel) money.Money {
	rate := LoyaltyRate(level)
	if rate.IsZero() {
		return money.Zero
	}
	return amount.MulRate(rate)
}
