package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/davidortiz-dev/portfolio_api/dto"
	"github.com/davidortiz-dev/portfolio_api/shared"
)

type ChatHandler struct {
	chatSvc ChatServiceInterface
}

func NewChatHandler(chatSvc ChatServiceInterface) *ChatHandler {
	return &ChatHandler{chatSvc: chatSvc}
}

// @Summary Chat
// @Description Sends a visitor message to the site assistant and returns the reply
// @Tags chat
// @Accept  json
// @Produce json
// @Param chatRequest body dto.ChatRequest true "Chat request"
// @Success 200 {object} dto.ChatResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Failure 502 {object} shared.Response
// @Router /api/v1/chat [post]
func (h *ChatHandler) Chat(c *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.CreateValidationErrorResponse(err))
	}

	resp, err := h.chatSvc.Chat(c.Context(), req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// @Summary Log Chat Transcript
// @Description Redacts and stores one chat exchange for quality review
// @Tags chat
// @Accept  json
// @Produce json
// @Param chatLogRequest body dto.ChatLogRequest true "Chat log request"
// @Success 200 {object} dto.ChatLogResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Router /api/v1/chat/log [post]
func (h *ChatHandler) Log(c *fiber.Ctx) error {
	var req dto.ChatLogRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.CreateValidationErrorResponse(err))
	}

	resp, err := h.chatSvc.LogTranscript(req, 0)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}
