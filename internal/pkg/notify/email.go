package notify

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/junaydArshad/Green-Campus/internal/config"

	"gopkg.in/gomail.v2"
)

// EmailNotifier 实现基于 SMTP 的邮件通知。
type EmailNotifier struct {
	cfg    *config.EmailConfig
	logger *slog.Logger
}

// NewEmailNotifier 创建一个新的邮件通知器。
func NewEmailNotifier(cfg *config.EmailConfig, logger *slog.Logger) *EmailNotifier {
	return &EmailNotifier{
		cfg:    cfg,
		logger: logger,
	}
}

func (n *EmailNotifier) configured() bool {
	return n.cfg.SMTPHost != "" && n.cfg.SMTPUser != "" && n.cfg.FromEmail != ""
}

func (n *EmailNotifier) send(toEmail, subject, htmlBody string) error {
	if !n.configured() {
		n.logger.Warn("email config missing, skip notification", slog.String("to", toEmail))
		return nil
	}
	if strings.TrimSpace(toEmail) == "" {
		n.logger.Warn("email recipient empty, skip notification")
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.cfg.FromEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(n.cfg.SMTPHost, n.cfg.SMTPPort, n.cfg.SMTPUser, n.cfg.SMTPPass)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}

// SendWateringReminder 提醒树主某棵树需要浇水。
func (n *EmailNotifier) SendWateringReminder(toEmail, ownerName, speciesName string, lastWatered *time.Time, intervalDays int) error {
	lastLine := "This tree has no watering activity on record yet."
	if lastWatered != nil {
		lastLine = fmt.Sprintf("Last watered on %s.", lastWatered.Format("2006-01-02"))
	}

	body := fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif;">
  <div style="max-width: 520px; margin: 0 auto; padding: 16px;">
    <h2>🌳 Green Campus Watering Reminder</h2>
    <p>Hi %s,</p>
    <p>Your <strong>%s</strong> is due for watering. %s</p>
    <p>This species should be watered about every %d days.</p>
  </div>
</body>
</html>`, ownerName, speciesName, lastLine, intervalDays)

	if err := n.send(toEmail, "[Green Campus] 🌳 Your tree needs watering", body); err != nil {
		return err
	}
	n.logger.Info("watering reminder email sent", slog.String("to", toEmail), slog.String("species", speciesName))
	return nil
}

// SendPasswordReset 发送密码重置令牌。
func (n *EmailNotifier) SendPasswordReset(toEmail, resetToken string) error {
	body := fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif;">
  <div style="max-width: 520px; margin: 0 auto; padding: 16px;">
    <h2>Green Campus Password Reset</h2>
    <p>Your password reset token is:</p>
    <div style="font-size: 20px; font-weight: bold; letter-spacing: 2px;">%s</div>
    <p>If you did not request a reset, you can ignore this email.</p>
  </div>
</body>
</html>`, resetToken)

	if err := n.send(toEmail, "[Green Campus] Password reset", body); err != nil {
		return err
	}
	n.logger.Info("password reset email sent", slog.String("to", toEmail))
	return nil
}

// SendMessage 发送一封任意主题/正文的邮件（管理员留言）。
func (n *EmailNotifier) SendMessage(toEmail, subject, body string) error {
	html := fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif;">
  <div style="max-width: 520px; margin: 0 auto; padding: 16px;">
    <h2>Green Campus</h2>
    <p>%s</p>
  </div>
</body>
</html>`, body)

	if err := n.send(toEmail, subject, html); err != nil {
		return err
	}
	n.logger.Info("admin message sent", slog.String("to", toEmail), slog.String("subject", subject))
	return nil
}
