package services

import (
	"context"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/davidortiz-dev/portfolio_api/dto"
	"github.com/davidortiz-dev/portfolio_api/model"
)

// ChatService runs the site's AI chat widget: session history in, LLM
// completion out, with the transcript logged (redacted) as a side channel.
type ChatService struct {
	appContext.DefaultService

	openRouterSvc *OpenRouterService
	redisSvc      *RedisService
	sanitizeSvc   *SanitizeService
	storageSvc    *StorageService
}

const CHAT_SVC = "chat_svc"

func (svc ChatService) Id() string {
	return CHAT_SVC
}

func (svc *ChatService) Start() error {
	svc.openRouterSvc = svc.Service(OPENROUTER_SVC).(*OpenRouterService)
	svc.redisSvc = svc.Service(REDIS_SVC).(*RedisService)
	svc.sanitizeSvc = svc.Service(SANITIZE_SVC).(*SanitizeService)
	svc.storageSvc = svc.Service(STORAGE_SVC).(*StorageService)
	return nil
}

func (svc *ChatService) Chat(ctx context.Context, req dto.ChatRequest) (*dto.ChatResponse, error) {
	history := req.History
	if len(history) == 0 && svc.redisSvc.Enabled() {
		cached, err := svc.redisSvc.GetHistory(ctx, req.SessionID)
		if err != nil {
			// Cache miss is not a chat failure.
			log.WithError(err).WithField("session_id", req.SessionID).
				Warn("Failed to load session history")
		} else {
			history = cached
		}
	}

	completion, err := svc.openRouterSvc.Complete(ctx, req.Message, history)
	if err != nil {
		return nil, err
	}

	// Both the history cache and the transcript log are best-effort side
	// channels; their failures are logged, never surfaced.
	go svc.recordExchange(req, completion)

	return &dto.ChatResponse{
		Success:      true,
		Response:     completion.Text,
		Model:        completion.Model,
		ResponseTime: completion.ResponseTime.Milliseconds(),
		Timestamp:    time.Now(),
	}, nil
}

func (svc *ChatService) recordExchange(req dto.ChatRequest, completion *Completion) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := svc.redisSvc.AppendHistory(ctx, req.SessionID,
		dto.ChatTurn{Role: "user", Content: req.Message},
		dto.ChatTurn{Role: "assistant", Content: completion.Text},
	); err != nil {
		log.WithError(err).WithField("session_id", req.SessionID).
			Warn("Failed to cache session history")
	}

	if _, err := svc.LogTranscript(dto.ChatLogRequest{
		Query:     req.Message,
		Response:  completion.Text,
		SessionID: req.SessionID,
		Model:     completion.Model,
	}, completion.ResponseTime); err != nil {
		log.WithError(err).WithField("session_id", req.SessionID).
			Error("Failed to log chat transcript")
	}
}

// LogTranscript redacts and persists one exchange. Detection runs first so
// metrics record which categories fired even though only the redacted text
// is stored.
func (svc *ChatService) LogTranscript(req dto.ChatLogRequest, responseTime time.Duration) (*dto.ChatLogResponse, error) {
	combined := req.Query + "\n" + req.Response
	categories := svc.sanitizeSvc.Detect(combined)
	for _, category := range categories {
		redactionsTotal.WithLabelValues(category).Inc()
	}

	chatLog := &model.ChatLog{
		ID:           uuid.NewString(),
		SessionID:    req.SessionID,
		Query:        svc.sanitizeSvc.Redact(req.Query),
		Response:     svc.sanitizeSvc.Redact(req.Response),
		Model:        req.Model,
		Redacted:     len(categories) > 0,
		ResponseTime: responseTime.Milliseconds(),
	}

	if err := svc.storageSvc.SaveChatLog(chatLog); err != nil {
		return nil, err
	}

	return &dto.ChatLogResponse{
		Success:   true,
		LogID:     chatLog.ID,
		Redacted:  chatLog.Redacted,
		Timestamp: time.Now(),
	}, nil
}
