// Package validation registers custom request validators shared by the
// checkout and account forms.
package validation

import (
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var validPhonePrefixes = []string{"070", "080", "081", "090", "091"}

// NigerianPhone checks an 11-digit Nigerian mobile number with an allowed
// network prefix. Spaces, dashes and a leading +234 are tolerated; the
// returned message is suitable for field-level display.
func NigerianPhone(phone string) (bool, string) {
	clean := digitsOnly(phone)
	if strings.HasPrefix(clean, "234") && len(clean) == 13 {
		clean = "0" + clean[3:]
	}

	if clean == "" {
		return false, "Phone number is required"
	}
	if len(clean) != 11 {
		return false, "Phone number must be 11 digits"
	}
	for _, prefix := range validPhonePrefixes {
		if strings.HasPrefix(clean, prefix) {
			return true, ""
		}
	}
	return false, "Please enter a valid Nigerian phone number"
}

// Normalize strips formatting from a phone number so one canonical form is
// persisted.
func Normalize(phone string) string {
	clean := digitsOnly(phone)
	if strings.HasPrefix(clean, "234") && len(clean) == 13 {
		clean = "0" + clean[3:]
	}
	return clean
}

// Register wires the ngphone tag into gin's binding validator so DTOs can
// declare `binding:"ngphone"`.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("ngphone", func(fl validator.FieldLevel) bool {
			ok, _ := NigerianPhone(fl.Field().String())
			return ok
		})
	}
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
