package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNigerianPhoneValidNumbers(t *testing.T) {
	valid := []string{
		"07012345678",
		"08098765432",
		"08123456789",
		"09011112222",
		"09155554444",
		"0801 234 5678",
		"+234 801 234 5678",
	}
	for _, phone := range valid {
		ok, msg := NigerianPhone(phone)
		assert.True(t, ok, "%s should be valid (%s)", phone, msg)
	}
}

func TestNigerianPhoneRejectsBadInput(t *testing.T) {
	tests := []struct {
		phone string
		msg   string
	}{
		{"", "Phone number is required"},
		{"080123", "Phone number must be 11 digits"},
		{"080123456789", "Phone number must be 11 digits"},
		{"06012345678", "Please enter a valid Nigerian phone number"},
		{"08212345678", "Please enter a valid Nigerian phone number"},
	}
	for _, tc := range tests {
		ok, msg := NigerianPhone(tc.phone)
		assert.False(t, ok, "%s should be invalid", tc.phone)
		assert.Equal(t, tc.msg, msg)
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "08012345678", Normalize("0801 234 5678"))
	assert.Equal(t, "08012345678", Normalize("+2348012345678"))
}
