package service

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"examiner-registry-backend/internal/domain"
	"examiner-registry-backend/internal/logger"
)

type sendGridNotifier struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

// NewNotificationService returns a SendGrid-backed notifier, or a no-op one when apiKey is empty.
func NewNotificationService(apiKey, fromEmail, fromName string) NotificationService {
	if apiKey == "" {
		return noopNotifier{}
	}
	return &sendGridNotifier{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *sendGridNotifier) SendApprovalNotice(ctx context.Context, examiner *domain.Examiner) error {
	if examiner.Email == "" {
		return nil
	}
	name := examiner.FullName
	if name == "" {
		name = examiner.NickName
	}

	subject := fmt.Sprintf("Examiner application approved (SL %d)", examiner.Serial)
	plainText := fmt.Sprintf("Hello %s,\n\nYour examiner application has been approved. Your serial number is %d.\n\nBest regards,\n%s",
		name, examiner.Serial, s.fromName)
	htmlContent := fmt.Sprintf(`<html><body>
<p>Hello %s,</p>
<p>Your examiner application has been approved. Your serial number is <strong>%d</strong>.</p>
<p>Best regards,<br>%s</p>
</body></html>`, name, examiner.Serial, s.fromName)

	message := mail.NewSingleEmail(
		mail.NewEmail(s.fromName, s.fromEmail),
		subject,
		mail.NewEmail(name, examiner.Email),
		plainText,
		htmlContent,
	)

	logger.ExternalServiceCall("sendgrid", "send_approval_notice", "examiner_id", examiner.ID)
	response, err := s.client.SendWithContext(ctx, message)
	if err == nil && response.StatusCode >= 400 {
		err = fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	logger.ExternalServiceResult("sendgrid", "send_approval_notice", err, "examiner_id", examiner.ID)
	if err != nil {
		return fmt.Errorf("failed to send approval notice: %w", err)
	}
	return nil
}

type noopNotifier struct{}

func (noopNotifier) SendApprovalNotice(ctx context.Context, examiner *domain.Examiner) error {
	return nil
}
