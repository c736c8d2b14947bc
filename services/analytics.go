package services

import (
	"context"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/davidortiz-dev/portfolio_api/dto"
	"github.com/davidortiz-dev/portfolio_api/model"
	"github.com/davidortiz-dev/portfolio_api/shared"
)

// AnalyticsService ingests page telemetry in batches. Invalid items are
// skipped, valid ones stored; the daily redis counters are fire-and-forget.
type AnalyticsService struct {
	appContext.DefaultService

	storageSvc *StorageService
	redisSvc   *RedisService
}

const ANALYTICS_SVC = "analytics_svc"

// MaxEventBatch bounds one ingest call.
const MaxEventBatch = 50

func (svc AnalyticsService) Id() string {
	return ANALYTICS_SVC
}

func (svc *AnalyticsService) Start() error {
	svc.storageSvc = svc.Service(STORAGE_SVC).(*StorageService)
	svc.redisSvc = svc.Service(REDIS_SVC).(*RedisService)
	return nil
}

// Ingest validates each event independently and stores the valid ones.
// A batch where every item is invalid is a client error.
func (svc *AnalyticsService) Ingest(events []dto.AnalyticsEvent) (*dto.AnalyticsResponse, error) {
	if len(events) == 0 {
		return nil, shared.NewBadRequestError(nil, "No events provided")
	}
	if len(events) > MaxEventBatch {
		return nil, shared.NewBadRequestError(nil, "Too many events in one batch")
	}

	rows := make([]model.AnalyticsEvent, 0, len(events))
	for i := range events {
		if err := events[i].Validate(); err != nil {
			continue
		}

		properties := ""
		if len(events[i].Properties) > 0 {
			if encoded, err := shared.JSONAPI.Marshal(events[i].Properties); err == nil {
				properties = string(encoded)
			}
		}

		rows = append(rows, model.AnalyticsEvent{
			ID:         uuid.NewString(),
			Event:      events[i].Event,
			SessionID:  events[i].SessionID,
			Page:       events[i].Page,
			Properties: properties,
			ClientTime: time.UnixMilli(events[i].Timestamp),
		})
	}

	if len(rows) == 0 {
		return nil, shared.NewBadRequestError(nil, "No valid events in batch")
	}

	stored, err := svc.storageSvc.SaveEvents(rows)
	if err != nil {
		return nil, err
	}

	go svc.bumpCounters(rows)

	return &dto.AnalyticsResponse{
		Success:   true,
		Processed: len(events),
		Stored:    stored,
		Timestamp: time.Now(),
	}, nil
}

func (svc *AnalyticsService) bumpCounters(rows []model.AnalyticsEvent) {
	if !svc.redisSvc.Enabled() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	day := time.Now().UTC()
	for i := range rows {
		if err := svc.redisSvc.IncrementEventCounter(ctx, rows[i].Event, day); err != nil {
			log.WithError(err).Debug("Failed to bump analytics counter")
			return
		}
	}
}
