package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"os"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"

	"github.com/davidortiz-dev/portfolio_api/model"
)

// EmailService sends the owner a note when a contact submission lands.
// Delivery is best-effort; the submitter never waits on SMTP.
type EmailService struct {
	context.DefaultService

	smtpHost     string
	smtpPort     string
	smtpUsername string
	smtpPassword string
	fromEmail    string
	notifyEmail  string

	notifyTemplate *template.Template
}

const EMAIL_SVC = "email_svc"

const contactNotificationHTML = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>New contact submission</title>
</head>
<body>
    <h2>New contact submission</h2>
    <p><strong>From:</strong> {{.Name}} &lt;{{.Email}}&gt;</p>
    {{if .Subject}}<p><strong>Subject:</strong> {{.Subject}}</p>{{end}}
    <p><strong>Message:</strong></p>
    <blockquote>{{.Message}}</blockquote>
    <p><small>Submission {{.ID}} received {{.CreatedAt.Format "2006-01-02 15:04:05 MST"}}</small></p>
</body>
</html>
`

func (svc EmailService) Id() string {
	return EMAIL_SVC
}

func (svc *EmailService) Configure(ctx *context.Context) error {
	svc.smtpHost = os.Getenv("SMTP_HOST")
	svc.smtpPort = os.Getenv("SMTP_PORT")
	svc.smtpUsername = os.Getenv("SMTP_USERNAME")
	svc.smtpPassword = os.Getenv("SMTP_PASSWORD")
	svc.fromEmail = os.Getenv("FROM_EMAIL")
	svc.notifyEmail = os.Getenv("NOTIFY_EMAIL")

	if svc.smtpPort == "" {
		svc.smtpPort = "587"
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *EmailService) Start() error {
	tmpl, err := template.New("contact_notification").Parse(contactNotificationHTML)
	if err != nil {
		return err
	}
	svc.notifyTemplate = tmpl

	if svc.smtpHost == "" || svc.notifyEmail == "" {
		log.Warn("SMTP not fully configured, contact notifications disabled")
	}
	return nil
}

func (svc *EmailService) Enabled() bool {
	return svc.smtpHost != "" && svc.notifyEmail != ""
}

// SendContactNotification emails the owner about a new submission.
func (svc *EmailService) SendContactNotification(submission *model.ContactSubmission) error {
	if !svc.Enabled() {
		return nil
	}

	var body bytes.Buffer
	if err := svc.notifyTemplate.Execute(&body, submission); err != nil {
		return err
	}

	subject := "New contact submission from " + submission.Name
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		svc.fromEmail, svc.notifyEmail, subject, body.String())

	addr := svc.smtpHost + ":" + svc.smtpPort
	var auth smtp.Auth
	if svc.smtpUsername != "" {
		auth = smtp.PlainAuth("", svc.smtpUsername, svc.smtpPassword, svc.smtpHost)
	}

	return smtp.SendMail(addr, auth, svc.fromEmail, []string{svc.notifyEmail}, []byte(msg))
}
