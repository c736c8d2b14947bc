package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/davidortiz-dev/portfolio_api/dto"
	"github.com/davidortiz-dev/portfolio_api/shared"
)

type ContactHandler struct {
	contactSvc ContactServiceInterface
}

func NewContactHandler(contactSvc ContactServiceInterface) *ContactHandler {
	return &ContactHandler{contactSvc: contactSvc}
}

// @Summary Submit Contact Form
// @Description Validates and stores a contact-form submission, then notifies the site owner
// @Tags contact
// @Accept  json
// @Produce json
// @Param contactRequest body dto.ContactRequest true "Contact request"
// @Success 200 {object} dto.ContactResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Router /api/v1/contact [post]
func (h *ContactHandler) Submit(c *fiber.Ctx) error {
	var req dto.ContactRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.CreateValidationErrorResponse(err))
	}

	resp, err := h.contactSvc.Submit(req, shared.GetClientIP(c), c.Get(fiber.HeaderUserAgent))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}
