package dto

import (
	"math"
	"strings"
)

const (
	MinTipAmount = 1
	MaxTipAmount = 10000
)

type CheckoutRequest struct {
	Amount  float64 `json:"amount"`
	Message string  `json:"message" validate:"omitempty,max=500"`
}

// Validate checks the amount by hand so the bound messages name the dollar
// limits the way the checkout page displays them.
func (c *CheckoutRequest) Validate() error {
	c.Message = strings.TrimSpace(c.Message)

	errs := make(map[string]string)

	switch {
	case c.Amount == 0 || math.IsNaN(c.Amount):
		errs["amount"] = "amount is required"
	case c.Amount < MinTipAmount:
		errs["amount"] = "Minimum amount is $1"
	case c.Amount > MaxTipAmount:
		errs["amount"] = "Maximum amount is $10,000"
	}

	if err := GetValidator().Struct(c); err != nil {
		for field, message := range FormatValidationErrors(err) {
			if _, seen := errs[field]; !seen {
				errs[field] = message
			}
		}
	}

	if len(errs) > 0 {
		return FieldErrors(errs)
	}
	return nil
}

// FieldErrors is a validation failure already shaped as a field -> message
// map, for dtos whose checks are written by hand.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	return "validation failed"
}

type CheckoutResponse struct {
	URL       string `json:"url"`
	SessionID string `json:"sessionId"`
}
