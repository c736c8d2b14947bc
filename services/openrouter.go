package services

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	appContext "github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"

	"github.com/davidortiz-dev/portfolio_api/dto"
	"github.com/davidortiz-dev/portfolio_api/shared"
)

// OpenRouterService is a thin client for the OpenRouter chat-completion
// API. The assistant persona lives in a static system prompt; everything
// else is pass-through.
type OpenRouterService struct {
	appContext.DefaultService

	httpClient   *http.Client
	apiURL       string
	apiKey       string
	model        string
	systemPrompt string
}

const OPENROUTER_SVC = "openrouter_svc"

const defaultSystemPrompt = "You are the assistant on David Ortiz's consulting and " +
	"education site. Answer questions about David's services, background, courses " +
	"and availability. Be concise and friendly. If asked about anything unrelated " +
	"to the site, politely steer the conversation back. Never ask visitors for " +
	"personal or payment information."

type completionRequest struct {
	Model    string              `json:"model"`
	Messages []completionMessage `json:"messages"`
}

type completionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message completionMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// Completion is the answer returned to the chat pipeline.
type Completion struct {
	Text         string
	Model        string
	ResponseTime time.Duration
}

func (svc OpenRouterService) Id() string {
	return OPENROUTER_SVC
}

func (svc *OpenRouterService) Configure(ctx *appContext.Context) error {
	svc.httpClient = &http.Client{
		Timeout: 30 * time.Second,
	}
	svc.apiURL = os.Getenv("OPENROUTER_API_URL")
	if svc.apiURL == "" {
		svc.apiURL = "https://openrouter.ai/api/v1/chat/completions"
	}
	svc.apiKey = os.Getenv("OPENROUTER_API_KEY")
	svc.model = os.Getenv("OPENROUTER_MODEL")
	if svc.model == "" {
		svc.model = "meta-llama/llama-3.1-8b-instruct"
	}
	svc.systemPrompt = defaultSystemPrompt

	return svc.DefaultService.Configure(ctx)
}

func (svc *OpenRouterService) Start() error {
	if svc.apiKey == "" {
		log.Warn("OPENROUTER_API_KEY not set, chat completions will fail")
	}
	return nil
}

// Complete sends the session history plus the new message and returns the
// assistant reply. Failures are upstream errors (502 at the handler).
func (svc *OpenRouterService) Complete(ctx context.Context, message string, history []dto.ChatTurn) (*Completion, error) {
	messages := make([]completionMessage, 0, len(history)+2)
	messages = append(messages, completionMessage{Role: "system", Content: svc.systemPrompt})
	for _, turn := range history {
		messages = append(messages, completionMessage{Role: turn.Role, Content: turn.Content})
	}
	messages = append(messages, completionMessage{Role: "user", Content: message})

	payload, err := shared.JSONAPI.Marshal(completionRequest{
		Model:    svc.model,
		Messages: messages,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, svc.apiURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+svc.apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := svc.httpClient.Do(req)
	if err != nil {
		upstreamFailuresTotal.WithLabelValues("openrouter").Inc()
		return nil, shared.NewUpstreamError(err, "Chat service unavailable")
	}
	defer resp.Body.Close()

	var result completionResponse
	if err := shared.JSONAPI.NewDecoder(resp.Body).Decode(&result); err != nil {
		upstreamFailuresTotal.WithLabelValues("openrouter").Inc()
		return nil, shared.NewUpstreamError(err, "Chat service returned an invalid response")
	}

	if resp.StatusCode != http.StatusOK || result.Error != nil {
		upstreamFailuresTotal.WithLabelValues("openrouter").Inc()
		detail := fmt.Errorf("openrouter status %d", resp.StatusCode)
		if result.Error != nil {
			detail = fmt.Errorf("openrouter: %s", result.Error.Message)
		}
		return nil, shared.NewUpstreamError(detail, "Chat service unavailable")
	}

	if len(result.Choices) == 0 {
		upstreamFailuresTotal.WithLabelValues("openrouter").Inc()
		return nil, shared.NewUpstreamError(fmt.Errorf("openrouter: empty choices"), "Chat service returned no answer")
	}

	modelName := result.Model
	if modelName == "" {
		modelName = svc.model
	}

	return &Completion{
		Text:         result.Choices[0].Message.Content,
		Model:        modelName,
		ResponseTime: time.Since(start),
	}, nil
}
