package services

import (
	"fmt"
	"net/smtp"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
)

type MailService struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	Enabled  bool
}

func NewMailService() *MailService {
	host := os.Getenv("SMTP_HOST")
	port := os.Getenv("SMTP_PORT")
	user := os.Getenv("SMTP_USER")
	pass := os.Getenv("SMTP_PASS")
	from := os.Getenv("SMTP_FROM")

	enabled := host != "" && port != "" && user != "" && pass != "" && from != ""
	if !enabled {
		log.Warn().Msg("MailService disabled: missing SMTP environment variables")
	}

	return &MailService{
		Host:     host,
		Port:     port,
		Username: user,
		Password: pass,
		From:     from,
		Enabled:  enabled,
	}
}

func (s *MailService) sendAsync(to []string, subject string, body string) {
	if !s.Enabled {
		return
	}

	go func() {
		auth := smtp.PlainAuth("", s.Username, s.Password, s.Host)
		addr := fmt.Sprintf("%s:%s", s.Host, s.Port)

		mime := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n\n"
		msg := []byte(fmt.Sprintf("To: %s\r\n"+
			"From: Gather <%s>\r\n"+
			"Subject: %s\r\n"+
			"%s\r\n%s", strings.Join(to, ","), s.From, subject, mime, body))

		if err := smtp.SendMail(addr, auth, s.From, to, msg); err != nil {
			log.Error().Err(err).Strs("to", to).Msg("Failed to send mail")
		}
	}()
}

// SendPasswordResetEmail mails the change-password link carrying the token.
func (s *MailService) SendPasswordResetEmail(to, token string) {
	siteURL := os.Getenv("SITE_URL")
	if siteURL == "" {
		siteURL = "http://localhost:8080"
	}
	link := fmt.Sprintf("%s/change-password/%s", siteURL, token)
	body := fmt.Sprintf(`<p>Someone requested a password reset for your account.</p>
<p><a href="%s">Change your password</a></p>
<p>The link is valid for 24 hours. If this wasn't you, ignore this mail.</p>`, link)
	s.sendAsync([]string{to}, "Please change your password", body)
}
