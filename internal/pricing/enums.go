package pricing

import "fmt"

// ProductCategory identifies the tax and discount class of a line item.
type ProductCategory string

// Known product categories.
const (
	CategoryElectronics ProductCategory = "Electronics"
	CategoryBooks       ProductCategory = "Books"
	CategoryClothing    ProductCategory = "Clothing"
)

// Valid reports whether the category is one of the known values.
func (c ProductCategory) Valid() bool {
	switch c {
	case CategoryElectronics, CategoryBooks, CategoryClothing:
		return true
	}
	return false
}

// ParseCategory converts a raw string into a ProductCategory.
func ParseCategory(value string) (ProductCategory, error) {
	c := ProductCategory(value)
	if !c.Valid() {
		return "", fmt.Errorf("unknown product category %q", value)
	}
	return c, nil
}

// LoyaltyLevel is the customer tier driving the loyalty discount rate.
type LoyaltyLevel string

// Known loyalty levels.
const (
	LoyaltyNone   LoyaltyLevel = "None"
	LoyaltyBronze LoyaltyLevel = "Bronze"
	LoyaltySilver LoyaltyLevel = "Silver"
	LoyaltyGold   LoyaltyLevel = "Gold"
)

// Valid reports whether the level is one of the known values.
func (l LoyaltyLevel) Valid() bool {
	switch l {
	case LoyaltyNone, LoyaltyBronze, LoyaltySilver, LoyaltyGold:
		return true
	}
	return false
}

// ParseLoyaltyLevel converts a raw string into a LoyaltyLevel. The empty
// string maps to LoyaltyNone, which is the default tier.
func ParseLoyaltyLevel(value string) (LoyaltyLevel, error) {
	if value == "" {
		return LoyaltyNone, nil
	}
	l := LoyaltyLevel(value)
	if !l.Valid() {
		return "", fmt.Errorf("unknown loyalty level %q", value)
	}
	return l, nil
}
