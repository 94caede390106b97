package currency

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatNaira(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "₦0"},
		{900, "₦900"},
		{9100, "₦9,100"},
		{3100.49, "₦3,100"},
		{3100.5, "₦3,101"},
		{1234567, "₦1,234,567"},
		{-4000, "-₦4,000"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, FormatNaira(tc.amount), "amount %v", tc.amount)
	}
}

func TestToKobo(t *testing.T) {
	assert.Equal(t, int64(910000), ToKobo(9100))
	assert.Equal(t, int64(310049), ToKobo(3100.49))
}
