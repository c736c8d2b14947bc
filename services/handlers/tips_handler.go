package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/davidortiz-dev/portfolio_api/dto"
	"github.com/davidortiz-dev/portfolio_api/shared"
)

type TipsHandler struct {
	paymentSvc PaymentServiceInterface
}

func NewTipsHandler(paymentSvc PaymentServiceInterface) *TipsHandler {
	return &TipsHandler{paymentSvc: paymentSvc}
}

// @Summary Create Tip Checkout
// @Description Opens a payment-gateway checkout session for a tip
// @Tags tips
// @Accept  json
// @Produce json
// @Param checkoutRequest body dto.CheckoutRequest true "Checkout request"
// @Success 200 {object} dto.CheckoutResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Failure 503 {object} shared.Response
// @Router /api/v1/tips/checkout [post]
func (h *TipsHandler) Checkout(c *fiber.Ctx) error {
	var req dto.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.CreateValidationErrorResponse(err))
	}

	resp, err := h.paymentSvc.CreateCheckout(req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}
