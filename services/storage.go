package services

import (
	"os"
	"time"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/davidortiz-dev/portfolio_api/model"
)

// StorageService is the document sink for submissions, transcripts, events
// and tips. Postgres when DATABASE_URL is set, a local sqlite file
// otherwise. Expired rows (TTL) are removed by an hourly sweep.
type StorageService struct {
	context.DefaultService
	db *gorm.DB

	databaseURL string
	sqlitePath  string
	stop        chan struct{}
}

const STORAGE_SVC = "storage_svc"

const (
	SubmissionTTL = 90 * 24 * time.Hour
	ChatLogTTL    = 30 * 24 * time.Hour
	EventTTL      = 60 * 24 * time.Hour
)

func (ds StorageService) Id() string {
	return STORAGE_SVC
}

// Db Access to the raw gorm handle
func (ds StorageService) Db() *gorm.DB {
	return ds.db
}

func (ds *StorageService) Configure(ctx *context.Context) error {
	ds.databaseURL = os.Getenv("DATABASE_URL")
	ds.sqlitePath = os.Getenv("DB_DATABASE")
	if ds.sqlitePath == "" {
		ds.sqlitePath = "portfolio.db"
	}
	ds.stop = make(chan struct{})

	return ds.DefaultService.Configure(ctx)
}

// Start opens the connection and migrates any tables that have changed
// since last runtime.
func (ds *StorageService) Start() (err error) {
	cfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	}

	if ds.databaseURL != "" {
		ds.db, err = gorm.Open(postgres.Open(ds.databaseURL), cfg)
	} else {
		ds.db, err = gorm.Open(sqlite.Open(ds.sqlitePath), cfg)
	}
	if err != nil {
		return err
	}

	models := []interface{}{
		&model.ContactSubmission{},
		&model.ChatLog{},
		&model.AnalyticsEvent{},
		&model.Tip{},
	}

	if err = ds.db.AutoMigrate(models...); err != nil {
		log.WithError(err).Error("Failed to migrate database")
		return err
	}

	go ds.startExpirySweep()

	log.Info("Database connected and migrated successfully")
	return nil
}

func (ds *StorageService) Shutdown() {
	close(ds.stop)
}

// ==================== SUBMISSIONS ====================

func (ds *StorageService) SaveSubmission(submission *model.ContactSubmission) error {
	now := time.Now()
	submission.CreatedAt = now
	submission.ExpiresAt = now.Add(SubmissionTTL)
	return ds.db.Create(submission).Error
}

// ==================== CHAT LOGS ====================

func (ds *StorageService) SaveChatLog(chatLog *model.ChatLog) error {
	now := time.Now()
	chatLog.CreatedAt = now
	chatLog.ExpiresAt = now.Add(ChatLogTTL)
	return ds.db.Create(chatLog).Error
}

// ==================== ANALYTICS ====================

func (ds *StorageService) SaveEvents(events []model.AnalyticsEvent) (int, error) {
	if len(events) == 0 {
		return 0, nil
	}
	now := time.Now()
	for i := range events {
		events[i].CreatedAt = now
		events[i].ExpiresAt = now.Add(EventTTL)
	}
	if err := ds.db.Create(&events).Error; err != nil {
		return 0, err
	}
	return len(events), nil
}

// ==================== TIPS ====================

func (ds *StorageService) SaveTip(tip *model.Tip) error {
	return ds.db.Create(tip).Error
}

func (ds *StorageService) UpdateTipStatus(checkoutSessionID, status string) error {
	return ds.db.Model(&model.Tip{}).
		Where("checkout_session_id = ?", checkoutSessionID).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
}

// ==================== TTL SWEEP ====================

func (ds *StorageService) CleanupExpired() error {
	now := time.Now()

	for _, m := range []interface{}{
		&model.ContactSubmission{},
		&model.ChatLog{},
		&model.AnalyticsEvent{},
	} {
		if err := ds.db.Where("expires_at < ?", now).Delete(m).Error; err != nil {
			return err
		}
	}
	return nil
}

func (ds *StorageService) startExpirySweep() {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := ds.CleanupExpired(); err != nil {
				log.WithError(err).Error("Storage expiry sweep failed")
			}
		case <-ds.stop:
			return
		}
	}
}
