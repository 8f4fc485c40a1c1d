package services

import (
	"ERPAuth/config"
	"fmt"
	"net/url"

	"gopkg.in/gomail.v2"
)

type EmailService interface {
	SendPasswordResetEmail(to, token string) error
}

type SMTPEmailService struct {
	dialer      *gomail.Dialer
	from        string
	frontendURL string
}

func NewSMTPEmailService(cfg config.SMTPConfig, frontendURL string) *SMTPEmailService {
	return &SMTPEmailService{
		dialer:      gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:        cfg.From,
		frontendURL: frontendURL,
	}
}

func (s *SMTPEmailService) SendPasswordResetEmail(to, token string) error {
	if err := s.dialer.DialAndSend(s.resetMessage(to, token)); err != nil {
		return fmt.Errorf("failed to send password reset email: %w", err)
	}
	return nil
}

func (s *SMTPEmailService) resetMessage(to, token string) *gomail.Message {
	link := s.frontendURL + "/reset-password?token=" + url.QueryEscape(token)

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "[ERP] 비밀번호 재설정 안내 / Password reset")
	m.SetBody("text/plain", fmt.Sprintf(
		"아래 링크에서 비밀번호를 재설정하세요. 링크는 24시간 동안 유효합니다.\n"+
			"Use the link below to reset your password. It expires in 24 hours.\n\n%s\n", link))
	m.AddAlternative("text/html", fmt.Sprintf(
		`<p>아래 링크에서 비밀번호를 재설정하세요.<br>Use the link below to reset your password.</p><p><a href="%s">%s</a></p>`,
		link, link))
	return m
}
