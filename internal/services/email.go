package services

import (
	"fmt"
	"html"
	"mime"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"sgc-backend/internal/content"
	"sgc-backend/internal/models"
)

type EmailService struct {
	host        string
	port        string
	user        string
	pass        string
	from        string
	salesEmail  string
	frontendURL string
	devMode     bool
	logger      *zap.Logger
}

func NewEmailService(host, port, user, pass, from, salesEmail, frontendURL string, logger *zap.Logger) *EmailService {
	devMode := host == "" || user == ""
	if devMode {
		logger.Warn("email service running in DEV MODE (logging to console)")
	}
	return &EmailService{
		host:        host,
		port:        port,
		user:        user,
		pass:        pass,
		from:        from,
		salesEmail:  salesEmail,
		frontendURL: frontendURL,
		devMode:     devMode,
		logger:      logger,
	}
}

type acknowledgementCopy struct {
	subject  string
	greeting string
	footer   string
}

var acknowledgements = map[models.Language]acknowledgementCopy{
	models.LanguageVietnamese: {
		subject:  "SGC đã nhận được yêu cầu tư vấn của bạn",
		greeting: "Xin chào %s,",
		footer:   "Nội dung bạn đã gửi:",
	},
	models.LanguageEnglish: {
		subject:  "SGC has received your consultation request",
		greeting: "Hello %s,",
		footer:   "Your message:",
	},
}

const emailLayout = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family: 'Segoe UI', Arial, sans-serif; margin: 0; padding: 0; background-color: #f8fafc;">
  <div style="max-width: 520px; margin: 40px auto; background: white; border-radius: 12px; box-shadow: 0 4px 24px rgba(0,0,0,0.08); overflow: hidden;">
    <div style="background: linear-gradient(135deg, #0284c7 0%%, #0ea5e9 100%%); padding: 28px; text-align: center;">
      <h1 style="color: white; margin: 0; font-size: 24px; font-weight: 700;">SGC</h1>
    </div>
    <div style="padding: 32px; color: #334155; font-size: 14px; line-height: 1.6;">
%s
    </div>
  </div>
</body>
</html>`

// SendContactNotification tells the sales inbox about a new submission.
func (s *EmailService) SendContactNotification(c *models.ContactSubmission) error {
	if s.salesEmail == "" {
		return fmt.Errorf("sales email is not configured")
	}

	phone := "-"
	if c.Phone != nil {
		phone = *c.Phone
	}

	var b strings.Builder
	b.WriteString(`      <h2 style="margin: 0 0 16px; font-size: 20px; color: #1e293b;">New contact request</h2>` + "\n")
	fmt.Fprintf(&b, "      <p><strong>Name:</strong> %s</p>\n", html.EscapeString(c.Name))
	fmt.Fprintf(&b, "      <p><strong>Email:</strong> %s</p>\n", html.EscapeString(c.Email))
	fmt.Fprintf(&b, "      <p><strong>Phone:</strong> %s</p>\n", html.EscapeString(phone))
	fmt.Fprintf(&b, "      <p><strong>Language:</strong> %s</p>\n", html.EscapeString(string(c.Language)))
	fmt.Fprintf(&b, "      <p><strong>Received:</strong> %s</p>\n", c.CreatedAt.Format("2006-01-02 15:04 MST"))
	fmt.Fprintf(&b, "      <p style=\"white-space: pre-wrap;\">%s</p>", html.EscapeString(c.Message))

	subject := fmt.Sprintf("[SGC] New contact request from %s", c.Name)
	return s.sendHTML(s.salesEmail, subject, fmt.Sprintf(emailLayout, b.String()))
}

// SendContactAcknowledgement confirms receipt to the visitor in their language.
func (s *EmailService) SendContactAcknowledgement(c *models.ContactSubmission) error {
	ack, ok := acknowledgements[c.Language]
	if !ok {
		ack = acknowledgements[models.DefaultLanguage]
	}
	thanks := content.For(c.Language).ThankYou

	var b strings.Builder
	fmt.Fprintf(&b, "      <p>%s</p>\n", html.EscapeString(fmt.Sprintf(ack.greeting, c.Name)))
	fmt.Fprintf(&b, "      <h2 style=\"margin: 0 0 16px; font-size: 20px; color: #1e293b;\">%s</h2>\n", html.EscapeString(thanks.Title))
	fmt.Fprintf(&b, "      <p>%s</p>\n", html.EscapeString(thanks.Message))
	fmt.Fprintf(&b, "      <p style=\"color: #94a3b8;\">%s</p>\n", html.EscapeString(ack.footer))
	fmt.Fprintf(&b, "      <blockquote style=\"white-space: pre-wrap; border-left: 3px solid #e2e8f0; margin: 0; padding-left: 12px;\">%s</blockquote>", html.EscapeString(c.Message))
	if s.frontendURL != "" {
		fmt.Fprintf(&b, "\n      <p><a href=\"%s\" style=\"color: #0284c7;\">%s</a></p>", html.EscapeString(s.frontendURL), html.EscapeString(thanks.BackHome))
	}

	return s.sendHTML(c.Email, ack.subject, fmt.Sprintf(emailLayout, b.String()))
}

func (s *EmailService) sendHTML(to, subject, htmlBody string) error {
	if s.devMode {
		s.logger.Info("[DEV EMAIL]",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.String("body", htmlBody),
		)
		return nil
	}

	headers := []string{
		fmt.Sprintf("From: %s", s.from),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", mime.QEncoding.Encode("utf-8", subject)),
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=UTF-8",
	}

	message := strings.Join(headers, "\r\n") + "\r\n\r\n" + htmlBody

	auth := smtp.PlainAuth("", s.user, s.pass, s.host)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)

	if err := smtp.SendMail(addr, auth, s.from, []string{to}, []byte(message)); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}

	s.logger.Info("email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}
