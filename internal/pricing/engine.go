package pricing

import "github.com/noah-isme/backend-kasir/internal/money"

// LineItem is one product entry in a cart. Items are immutable once
// constructed; updates replace the item wholesale.
type LineItem struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Category  ProductCategory `json:"category"`
	UnitPrice money.Money     `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
}

// Customer carries the attributes that influence cart-level pricing.
type Customer struct {
	LoyaltyLevel LoyaltyLevel `json:"loyaltyLevel"`
}

// ItemBreakdown is the derived, read-only pricing record for one line item.
type ItemBreakdown struct {
	ID                int64           `json:"id"`
	Name              string          `json:"name"`
	Category          ProductCategory `json:"category"`
	BasePrice         money.Money     `json:"basePrice"`
	Quantity          int             `json:"quantity"`
	SubtotalBeforeTax money.Money     `json:"subtotalBeforeTax"`
	TaxAmount         money.Money     `json:"taxAmount"`
	SubtotalAfterTax  money.Money     `json:"subtotalAfterTax"`
	ItemDiscount      money.Money     `json:"itemDiscount"`
	FinalItemTotal    money.Money     `json:"finalItemTotal"`
}

// CartSummary aggregates the per-item breakdowns and the cart-level discount
// sequence. Subtotal is the sum of post-tax subtotals before any discount.
type CartSummary struct {
	Items                []ItemBreakdown `json:"items"`
	Subtotal             money.Money     `json:"subtotal"`
	TotalTax             money.Money     `json:"totalTax"`
	ItemDiscounts        money.Money     `json:"itemDiscounts"`
	BulkDiscount         money.Money     `json:"bulkDiscount"`
	LoyaltyDiscount      money.Money     `json:"loyaltyDiscount"`
	FinalTotal           money.Money     `json:"finalTotal"`
	CustomerLoyaltyLevel LoyaltyLevel    `json:"customerLoyaltyLevel"`
}

// Summarize prices a cart. It is a pure function over its inputs: no state is
// retained between calls, and identical inputs always produce identical
// summaries. Zero items is valid and yields an all-zero summary.
//
// The pipeline runs in five fixed stages:
//  1. per-item tax and item discount, accumulating cart totals
//  2. cart total after item discounts
//  3. bulk discount on that total
//  4. amount after the bulk discount
//  5. loyalty discount on that amount, then the final total
func Summarize(items []LineItem, customer Customer) CartSummary {
	breakdowns := make([]ItemBreakdown, 0, len(items))
	subtotal := money.Zero
	totalTax := money.Zero
	itemDiscounts := money.Zero

	for _, item := range items {
		beforeTax := item.UnitPrice.MulInt(int64(item.Quantity))
		tax := CalculateTax(beforeTax, item.Category)
		afterTax := beforeTax.Add(tax)
		discount := ItemDiscount(item, afterTax)

		breakdowns = append(breakdowns, ItemBreakdown{
			ID:                item.ID,
			Name:              item.Name,
			Category:          item.Category,
			BasePrice:         item.UnitPrice,
			Quantity:          item.Quantity,
			SubtotalBeforeTax: beforeTax,
			TaxAmount:         tax,
			SubtotalAfterTax:  afterTax,
			ItemDiscount:      discount,
			FinalItemTotal:    afterTax.Sub(discount),
		})

		subtotal = subtotal.Add(afterTax)
		totalTax = totalTax.Add(tax)
		itemDiscounts = itemDiscounts.Add(discount)
	}

	afterItemDiscounts := subtotal.Sub(itemDiscounts)
	bulk := BulkDiscount(afterItemDiscounts)
	afterBulk := afterItemDiscounts.Sub(bulk)
	loyalty := LoyaltyDiscount(afterBulk, customer.LoyaltyLevel)

	return CartSummary{
		Items:                breakdowns,
		Subtotal:             subtotal.Quantize(),
		TotalTax:             totalTax.Quantize(),
		ItemDiscounts:        itemDiscounts.Quantize(),
		BulkDiscount:         bulk,
		LoyaltyDiscount:      loyalty,
		FinalTotal:           afterBulk.Sub(loyalty).Quantize(),
		CustomerLoyaltyLevel: customer.LoyaltyLevel,
	}
}
