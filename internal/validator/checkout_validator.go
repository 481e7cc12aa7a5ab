package validator

import (
	"regexp"
	"strings"

	"storefront/internal/usecase"
)

type checkoutValidator struct{}

func NewCheckoutValidator() usecase.CheckoutValidator {
	return checkoutValidator{}
}

var (
	expiryRe = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cvvRe    = regexp.MustCompile(`^\d{3,4}$`)
)

// 配送先とカード（シミュレーション）を検証する
func (checkoutValidator) ValidateCheckout(in usecase.CheckoutInput) error {
	s := in.Shipping
	required := []struct {
		name  string
		value string
	}{
		{"firstName", s.FirstName},
		{"lastName", s.LastName},
		{"email", s.Email},
		{"address", s.Address},
		{"city", s.City},
		{"state", s.State},
		{"zipCode", s.ZipCode},
		{"country", s.Country},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return invalid(f.name + " is required")
		}
	}
	if !isEmailLike(strings.TrimSpace(s.Email)) {
		return invalid("invalid email")
	}

	p := in.Payment
	digits := strings.NewReplacer(" ", "", "-", "").Replace(p.CardNumber)
	if len(digits) < 12 || len(digits) > 19 || !isDigits(digits) {
		return invalid("invalid card number")
	}
	if strings.TrimSpace(p.CardName) == "" {
		return invalid("cardName is required")
	}
	if !expiryRe.MatchString(strings.TrimSpace(p.Expiry)) {
		return invalid("invalid expiry")
	}
	if !cvvRe.MatchString(strings.TrimSpace(p.CVV)) {
		return invalid("invalid cvv")
	}
	return nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
