package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/helpinghands/volunteer-api/internal/logging"
)

type Service struct {
	smtpHost     string
	smtpPort     string
	smtpUser     string
	smtpPassword string
	fromEmail    string
}

func NewService(smtpHost, smtpPort, smtpUser, smtpPassword string) *Service {
	return &Service{
		smtpHost:     smtpHost,
		smtpPort:     smtpPort,
		smtpUser:     smtpUser,
		smtpPassword: smtpPassword,
		fromEmail:    smtpUser,
	}
}

// SendWelcomeEmail greets a newly registered volunteer.
// This method is designed to be called in a goroutine
func (s *Service) SendWelcomeEmail(ctx context.Context, toEmail, firstName string) error {
	logger := logging.GetLoggerFromContext(ctx)

	subject := "Welcome to HelpingHands"
	body, err := s.renderWelcomeEmailTemplate(firstName)
	if err != nil {
		logger.Error("failed to render welcome email template", "error", err)
		return fmt.Errorf("render template: %w", err)
	}

	if err := s.sendEmail(toEmail, subject, body); err != nil {
		logger.Error("failed to send welcome email", "email", toEmail, "error", err)
		return fmt.Errorf("send email: %w", err)
	}

	logger.Info("welcome email sent", "email", toEmail)
	return nil
}

// SendDonationReceipt confirms a completed donation to the donor.
// This method is designed to be called in a goroutine
func (s *Service) SendDonationReceipt(ctx context.Context, toEmail, firstName string, amount float64, currency string) error {
	logger := logging.GetLoggerFromContext(ctx)

	subject := "Thank you for your donation"
	body, err := s.renderDonationReceiptTemplate(firstName, amount, currency)
	if err != nil {
		logger.Error("failed to render donation receipt template", "error", err)
		return fmt.Errorf("render template: %w", err)
	}

	if err := s.sendEmail(toEmail, subject, body); err != nil {
		logger.Error("failed to send donation receipt", "email", toEmail, "error", err)
		return fmt.Errorf("send email: %w", err)
	}

	logger.Info("donation receipt sent", "email", toEmail)
	return nil
}

func (s *Service) sendEmail(to, subject, body string) error {
	auth := smtp.PlainAuth("", s.smtpUser, s.smtpPassword, s.smtpHost)

	// Build message
	msg := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s\r\n",
		s.fromEmail, to, subject, body,
	))

	addr := fmt.Sprintf("%s:%s", s.smtpHost, s.smtpPort)
	return smtp.SendMail(addr, auth, s.fromEmail, []string{to}, msg)
}

func (s *Service) renderWelcomeEmailTemplate(firstName string) (string, error) {
	tmpl := `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body {
            font-family: Arial, sans-serif;
            line-height: 1.6;
            color: #333;
            max-width: 600px;
            margin: 0 auto;
            padding: 20px;
        }
        .header {
            background-color: #16A34A;
            color: white;
            padding: 20px;
            text-align: center;
            border-radius: 5px 5px 0 0;
        }
        .content {
            background-color: #f9f9f9;
            padding: 30px;
            border-radius: 0 0 5px 5px;
        }
        .footer {
            margin-top: 30px;
            font-size: 12px;
            color: #666;
            text-align: center;
        }
    </style>
</head>
<body>
    <div class="header">
        <h1>Welcome to HelpingHands!</h1>
    </div>
    <div class="content">
        <h2>Hi {{.FirstName}},</h2>
        <p>Your account has been created. You can now browse volunteer opportunities, sign up for the ones that fit you, and support the community with donations.</p>

        <p>We're glad to have you on board.</p>
    </div>
    <div class="footer">
        <p>&copy; 2026 HelpingHands. All rights reserved.</p>
    </div>
</body>
</html>
`

	t, err := template.New("welcome").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}

	var buf bytes.Buffer
	data := struct {
		FirstName string
	}{
		FirstName: firstName,
	}

	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}

	return buf.String(), nil
}

func (s *Service) renderDonationReceiptTemplate(firstName string, amount float64, currency string) (string, error) {
	tmpl := `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body {
            font-family: Arial, sans-serif;
            line-height: 1.6;
            color: #333;
            max-width: 600px;
            margin: 0 auto;
            padding: 20px;
        }
        .header {
            background-color: #16A34A;
            color: white;
            padding: 20px;
            text-align: center;
            border-radius: 5px 5px 0 0;
        }
        .content {
            background-color: #f9f9f9;
            padding: 30px;
            border-radius: 0 0 5px 5px;
        }
        .amount {
            font-size: 24px;
            font-weight: bold;
            color: #16A34A;
        }
        .footer {
            margin-top: 30px;
            font-size: 12px;
            color: #666;
            text-align: center;
        }
    </style>
</head>
<body>
    <div class="header">
        <h1>Thank you for your donation</h1>
    </div>
    <div class="content">
        <h2>Hi {{.FirstName}},</h2>
        <p>We received your donation of</p>
        <p class="amount">{{printf "%.2f" .Amount}} {{.Currency}}</p>
        <p>Your generosity directly supports the volunteers and communities we work with.</p>
    </div>
    <div class="footer">
        <p>&copy; 2026 HelpingHands. All rights reserved.</p>
    </div>
</body>
</html>
`

	t, err := template.New("donationReceipt").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}

	var buf bytes.Buffer
	data := struct {
		FirstName string
		Amount    float64
		Currency  string
	}{
		FirstName: firstName,
		Amount:    amount,
		Currency:  currency,
	}

	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}

	return buf.String(), nil
}
