package handlers

import "fmt"

// Sale mechanics: a product is on sale when compareAtPrice is set above the
// selling price. The selling price is always what the customer pays.

type pricingUpdateInput struct {
	Price          *float64
	CompareAtPrice *float64
}

type pricingUpdateResult struct {
	Price             float64
	CompareAtPrice    float64
	SetCompareAtPrice bool
}

func validatePricing(price, compareAtPrice float64) error {
	if price <= 0 {
		return fmt.Errorf("price must be greater than 0")
	}
	if compareAtPrice < 0 {
		return fmt.Errorf("compareAtPrice must be zero or greater")
	}
	if compareAtPrice > 0 && compareAtPrice <= price {
		return fmt.Errorf("compareAtPrice must be greater than price")
	}
	return nil
}

// resolvePricingUpdate merges a partial pricing update over the stored
// values and validates the resulting pair. A compareAtPrice of 0 clears
// the sale.
func resolvePricingUpdate(existingPrice, existingCompareAt float64, input pricingUpdateInput) (pricingUpdateResult, error) {
	result := pricingUpdateResult{
		Price:          existingPrice,
		CompareAtPrice: existingCompareAt,
	}

	if input.Price != nil {
		result.Price = *input.Price
	}
	if input.CompareAtPrice != nil {
		result.CompareAtPrice = *input.CompareAtPrice
		result.SetCompareAtPrice = true
	}

	if err := validatePricing(result.Price, result.CompareAtPrice); err != nil {
		return pricingUpdateResult{}, err
	}

	return result, nil
}
