// Package catalog holds product helpers shared by the admin and storefront
// handlers: variant generation and effective pricing.
package catalog

import (
	"fmt"
	"strings"

	"midessories/internal/models"
)

// GenerateVariants expands a set of variant options into the cartesian
// product of their values. Each generated variant inherits the base price
// and zero stock, with a SKU of the form BASE-VAL1-VAL2 derived from the
// option values in option order. Options with no values are skipped;
// no options means no variants.
func GenerateVariants(baseSKU string, basePrice float64, options []models.VariantOption) []models.ProductVariant {
	axes := make([]models.VariantOption, 0, len(options))
	for _, opt := range options {
		if strings.TrimSpace(opt.Name) == "" || len(opt.Values) == 0 {
			continue
		}
		axes = append(axes, opt)
	}
	if len(axes) == 0 {
		return nil
	}

	variants := []models.ProductVariant{{
		SKU:        strings.ToUpper(strings.TrimSpace(baseSKU)),
		Price:      basePrice,
		Attributes: map[string]string{},
	}}

	for _, axis := range axes {
		expanded := make([]models.ProductVariant, 0, len(variants)*len(axis.Values))
		for _, base := range variants {
			for _, value := range axis.Values {
				attrs := make(map[string]string, len(base.Attributes)+1)
				for k, v := range base.Attributes {
					attrs[k] = v
				}
				attrs[axis.Name] = value

				expanded = append(expanded, models.ProductVariant{
					SKU:        variantSKU(base.SKU, value),
					Price:      basePrice,
					Attributes: attrs,
				})
			}
		}
		variants = expanded
	}

	return variants
}

// FindVariant matches a color/size selection against a product's variants.
// Selections are matched case-insensitively on the conventional "Color" and
// "Size" attribute names.
func FindVariant(p models.Product, color, size string) (models.ProductVariant, bool) {
	if !p.HasVariants {
		return models.ProductVariant{}, false
	}
	for _, v := range p.Variants {
		if matchesAttribute(v.Attributes, "Color", color) && matchesAttribute(v.Attributes, "Size", size) {
			return v, true
		}
	}
	return models.ProductVariant{}, false
}

// EffectiveUnitPrice resolves the price a line item is sold at: the variant
// price when a variant matches, otherwise the base product price.
func EffectiveUnitPrice(p models.Product, color, size string) float64 {
	if v, ok := FindVariant(p, color, size); ok {
		return v.Price
	}
	return p.Price
}

// AvailableStock resolves the stock pool backing a selection.
func AvailableStock(p models.Product, color, size string) int {
	if v, ok := FindVariant(p, color, size); ok {
		return v.Stock
	}
	return p.Stock
}

// IsOnSale reports whether a compare-at price marks the product down.
func IsOnSale(price, compareAtPrice float64) bool {
	return compareAtPrice > 0 && compareAtPrice > price
}

func matchesAttribute(attrs map[string]string, name, want string) bool {
	if strings.TrimSpace(want) == "" {
		return true
	}
	for k, v := range attrs {
		if strings.EqualFold(k, name) {
			return strings.EqualFold(v, want)
		}
	}
	return false
}

func variantSKU(base, value string) string {
	slug := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(value), " ", "-"))
	if base == "" {
		return slug
	}
	return fmt.Sprintf("%s-%s", base, slug)
}
