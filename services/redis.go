package services

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/davidortiz-dev/portfolio_api/dto"
	"github.com/davidortiz-dev/portfolio_api/shared"
)

// RedisService backs the chat session history cache and the best-effort
// analytics counters. Optional: when REDIS_ADDR is unset both consumers
// degrade gracefully.
type RedisService struct {
	appContext.DefaultService
	redis *redis.Client

	historyTTL time.Duration
	historyCap int64
}

const REDIS_SVC = "redis_svc"

func (svc RedisService) Id() string {
	return REDIS_SVC
}

func (svc *RedisService) Configure(ctx *appContext.Context) error {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		log.Info("REDIS_ADDR not set, session cache disabled")
		return svc.DefaultService.Configure(ctx)
	}

	db := 0
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if parsed, err := strconv.Atoi(dbStr); err == nil {
			db = parsed
		}
	}

	svc.redis = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
	})

	svc.historyTTL = 30 * time.Minute
	svc.historyCap = 20

	return svc.DefaultService.Configure(ctx)
}

func (svc *RedisService) Start() error {
	if svc.redis != nil {
		ctx := context.Background()
		if _, err := svc.redis.Ping(ctx).Result(); err != nil {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
	}
	return nil
}

func (svc *RedisService) Enabled() bool {
	return svc.redis != nil
}

// ==================== SESSION HISTORY ====================

func historyKey(sessionID string) string {
	return "chat:history:" + sessionID
}

// AppendHistory records one exchange for the session, capped at historyCap
// entries and expiring after historyTTL of inactivity.
func (svc *RedisService) AppendHistory(ctx context.Context, sessionID string, turns ...dto.ChatTurn) error {
	if svc.redis == nil {
		return nil
	}

	key := historyKey(sessionID)
	pipe := svc.redis.TxPipeline()
	for _, turn := range turns {
		encoded, err := shared.JSONAPI.Marshal(turn)
		if err != nil {
			return err
		}
		pipe.RPush(ctx, key, encoded)
	}
	pipe.LTrim(ctx, key, -svc.historyCap, -1)
	pipe.Expire(ctx, key, svc.historyTTL)

	_, err := pipe.Exec(ctx)
	return err
}

// GetHistory returns the cached turns for a session, oldest first.
func (svc *RedisService) GetHistory(ctx context.Context, sessionID string) ([]dto.ChatTurn, error) {
	if svc.redis == nil {
		return nil, nil
	}

	raw, err := svc.redis.LRange(ctx, historyKey(sessionID), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	turns := make([]dto.ChatTurn, 0, len(raw))
	for _, item := range raw {
		var turn dto.ChatTurn
		if err := shared.JSONAPI.Unmarshal([]byte(item), &turn); err != nil {
			continue
		}
		turns = append(turns, turn)
	}
	return turns, nil
}

// ==================== COUNTERS ====================

// IncrementEventCounter bumps the per-day counter for an event name.
// Best-effort telemetry: callers log and move on when it fails.
func (svc *RedisService) IncrementEventCounter(ctx context.Context, event string, day time.Time) error {
	if svc.redis == nil {
		return nil
	}

	key := fmt.Sprintf("analytics:%s:%s", event, day.Format("2006-01-02"))
	pipe := svc.redis.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, 90*24*time.Hour)
	_, err := pipe.Exec(ctx)
	return err
}
