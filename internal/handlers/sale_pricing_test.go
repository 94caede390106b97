package handlers

import (
	"encoding/json"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestValidatePricingRejectsCompareAtBelowPrice(t *testing.T) {
	tests := []float64{100, 80}
	for _, compareAt := range tests {
		if err := validatePricing(100, compareAt); err == nil {
			t.Fatalf("expected validation error for compareAtPrice=%v", compareAt)
		}
	}
}

func TestValidatePricingAllowsClearedSale(t *testing.T) {
	if err := validatePricing(100, 0); err != nil {
		t.Fatalf("expected no error when compareAtPrice is 0, got %v", err)
	}
}

func TestResolvePricingUpdateMergesOverExisting(t *testing.T) {
	newPrice := 90.0
	result, err := resolvePricingUpdate(100, 150, pricingUpdateInput{Price: &newPrice})
	if err != nil {
		t.Fatalf("resolvePricingUpdate returned error: %v", err)
	}
	if result.Price != 90 || result.CompareAtPrice != 150 {
		t.Fatalf("unexpected result: %+v", result)
	}

	cleared := 0.0
	result, err = resolvePricingUpdate(100, 150, pricingUpdateInput{CompareAtPrice: &cleared})
	if err != nil {
		t.Fatalf("resolvePricingUpdate returned error: %v", err)
	}
	if result.CompareAtPrice != 0 || !result.SetCompareAtPrice {
		t.Fatalf("expected sale cleared, got %+v", result)
	}
}

func TestNormalizeProductDocumentDerivesSaleFlag(t *testing.T) {
	product, err := normalizeProductDocument(bson.M{
		"name":           "Pearl Hair Clip",
		"price":          2500.0,
		"compareAtPrice": 3500.0,
		"stock":          5,
	})
	if err != nil {
		t.Fatalf("normalizeProductDocument returned error: %v", err)
	}
	if product.CompareAtPrice != 3500 {
		t.Fatalf("expected compareAtPrice preserved, got %v", product.CompareAtPrice)
	}
	if !product.IsOnSale {
		t.Fatal("expected IsOnSale to be true")
	}
	if !product.InStock {
		t.Fatal("expected InStock to be true")
	}
}

func TestNormalizeProductDocumentToleratesNumericStock(t *testing.T) {
	for _, stock := range []interface{}{int32(4), int64(4), 4.0} {
		product, err := normalizeProductDocument(bson.M{
			"name":  "Tote Bag",
			"price": 3000.0,
			"stock": stock,
		})
		if err != nil {
			t.Fatalf("normalizeProductDocument returned error: %v", err)
		}
		if product.Stock != 4 {
			t.Fatalf("expected stock 4 for %T, got %d", stock, product.Stock)
		}
	}
}

func TestProductJSONAlwaysIncludesDerivedFields(t *testing.T) {
	product, err := normalizeProductDocument(bson.M{
		"name":           "Beaded Necklace",
		"price":          4200.0,
		"compareAtPrice": 5000.0,
		"stock":          10,
	})
	if err != nil {
		t.Fatalf("normalizeProductDocument returned error: %v", err)
	}

	body, err := json.Marshal(product)
	if err != nil {
		t.Fatalf("json marshal failed: %v", err)
	}

	jsonBody := string(body)
	if !strings.Contains(jsonBody, "\"isOnSale\":true") {
		t.Fatalf("expected isOnSale=true in response json, got %s", jsonBody)
	}
	if !strings.Contains(jsonBody, "\"inStock\":true") {
		t.Fatalf("expected inStock=true in response json, got %s", jsonBody)
	}
}
