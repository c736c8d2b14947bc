package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/davidortiz-dev/portfolio_api/dto"
	"github.com/davidortiz-dev/portfolio_api/shared"
)

type AnalyticsHandler struct {
	analyticsSvc AnalyticsServiceInterface
}

func NewAnalyticsHandler(analyticsSvc AnalyticsServiceInterface) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsSvc: analyticsSvc}
}

// @Summary Ingest Analytics Events
// @Description Accepts a single telemetry event or an array of them
// @Tags analytics
// @Accept  json
// @Produce json
// @Success 200 {object} dto.AnalyticsResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Router /api/v1/analytics [post]
func (h *AnalyticsHandler) Ingest(c *fiber.Ctx) error {
	body := c.Body()

	// The widget posts either one event or a batch; accept both shapes.
	var events []dto.AnalyticsEvent
	if err := shared.JSONAPI.Unmarshal(body, &events); err != nil {
		var single dto.AnalyticsEvent
		if err := shared.JSONAPI.Unmarshal(body, &single); err != nil {
			return shared.NewBadRequestError(err, "Invalid request")
		}
		events = []dto.AnalyticsEvent{single}
	}

	resp, err := h.analyticsSvc.Ingest(events)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}
