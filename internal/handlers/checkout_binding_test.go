package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"midessories/internal/validation"
)

func bindCheckout(t *testing.T, phone string) error {
	t.Helper()
	body := `{
		"email": "ada@example.com",
		"phone": "` + phone + `",
		"firstName": "Ada",
		"lastName": "Obi",
		"address": "12 Allen Avenue",
		"city": "Ikeja",
		"state": "Lagos",
		"shippingMethod": "lagos-flat",
		"paymentMethod": "transfer",
		"items": [{"productId": "65a1b2c3d4e5f6a7b8c9d0e1", "quantity": 1}]
	}`
	req := httptest.NewRequest("POST", "/checkout", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	var dto CheckoutRequest
	return binding.JSON.Bind(req, &dto)
}

func TestCheckoutBindingEnforcesNigerianPhone(t *testing.T) {
	validation.Register()

	require.NoError(t, bindCheckout(t, "08031234567"))
	require.NoError(t, bindCheckout(t, "+234 803 123 4567"))

	err := bindCheckout(t, "12345")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ngphone")
}

func TestRegisterBindingEnforcesNigerianPhone(t *testing.T) {
	validation.Register()

	body := `{
		"email": "ada@example.com",
		"password": "s3cretpass",
		"firstName": "Ada",
		"lastName": "Obi",
		"phone": "0999"
	}`
	req := httptest.NewRequest("POST", "/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	var dto RegisterRequest
	err := binding.JSON.Bind(req, &dto)
	require.Error(t, err)

	// The phone field is optional, so an empty value still binds.
	empty := strings.Replace(body, `"0999"`, `""`, 1)
	req = httptest.NewRequest("POST", "/auth/register", strings.NewReader(empty))
	req.Header.Set("Content-Type", "application/json")
	assert.NoError(t, binding.JSON.Bind(req, &dto))
}
