package mailer

import (
	"fmt"

	"github.com/nbbcoffee/coffeehub/config"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Mailer sends transactional mail. When SMTP is disabled in the config every
// send is a no-op, callers never block on mail delivery.
type Mailer struct {
	cfg config.SmtpConfig
}

func New(cfg config.SmtpConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

// SendWelcome sends the registration notice to a new account, best effort.
func (m *Mailer) SendWelcome(to, username string) error {
	if !m.cfg.Enable {
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Selamat datang di NBB Coffee Hub")
	msg.SetBody("text/plain", fmt.Sprintf(
		"Halo %s,\n\nAkun Anda sudah aktif. Selamat berbelanja dan berjualan kopi!\n", username))

	dialer := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	if err := dialer.DialAndSend(msg); err != nil {
		zap.L().Warn("failed to send welcome mail", zap.String("to", to), zap.Error(err))
		return err
	}
	return nil
}
