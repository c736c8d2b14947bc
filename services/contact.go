package services

import (
	"time"

	"github.com/alphabatem/common/context"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/davidortiz-dev/portfolio_api/dto"
	"github.com/davidortiz-dev/portfolio_api/model"
)

// ContactService persists contact-form submissions and notifies the owner.
// Spam is silently dropped: the submitter still sees success so the
// detector is not revealed, but nothing is stored or sent.
type ContactService struct {
	context.DefaultService

	storageSvc  *StorageService
	sanitizeSvc *SanitizeService
	emailSvc    *EmailService
}

const CONTACT_SVC = "contact_svc"

func (svc ContactService) Id() string {
	return CONTACT_SVC
}

func (svc *ContactService) Start() error {
	svc.storageSvc = svc.Service(STORAGE_SVC).(*StorageService)
	svc.sanitizeSvc = svc.Service(SANITIZE_SVC).(*SanitizeService)
	svc.emailSvc = svc.Service(EMAIL_SVC).(*EmailService)
	return nil
}

func (svc *ContactService) Submit(req dto.ContactRequest, clientIP, userAgent string) (*dto.ContactResponse, error) {
	submissionID := uuid.NewString()
	now := time.Now()

	combined := req.Name + " " + req.Subject + " " + req.Message
	if spam := svc.sanitizeSvc.CheckSpam(combined); spam.IsSpam {
		spamDetectedTotal.WithLabelValues(spam.Reason).Inc()
		log.WithFields(log.Fields{
			"reason": spam.Reason,
			"ip":     clientIP,
		}).Info("Contact submission flagged as spam, skipping storage")

		return &dto.ContactResponse{
			Success:      true,
			Message:      "Thanks for reaching out! I'll get back to you soon.",
			SubmissionID: submissionID,
			Timestamp:    now,
		}, nil
	}

	submission := &model.ContactSubmission{
		ID:        submissionID,
		Name:      req.Name,
		Email:     req.Email,
		Subject:   req.Subject,
		Message:   req.Message,
		ClientIP:  clientIP,
		UserAgent: userAgent,
	}

	if err := svc.storageSvc.SaveSubmission(submission); err != nil {
		return nil, err
	}

	// Notification is a side channel; the submitter never waits on SMTP.
	go func() {
		if err := svc.emailSvc.SendContactNotification(submission); err != nil {
			upstreamFailuresTotal.WithLabelValues("smtp").Inc()
			log.WithError(err).WithField("submission_id", submission.ID).
				Error("Failed to send contact notification")
		}
	}()

	return &dto.ContactResponse{
		Success:      true,
		Message:      "Thanks for reaching out! I'll get back to you soon.",
		SubmissionID: submissionID,
		Timestamp:    now,
	}, nil
}
