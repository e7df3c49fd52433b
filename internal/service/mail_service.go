package service

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/rs/zerolog"
)

// Mailer 是对外发邮件能力的抽象，便于在测试中替换。
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type smtpMailer struct {
	addr string
	from string
}

// NewSMTPMailer 构造基于 net/smtp 的 Mailer。
func NewSMTPMailer(host, port, from string) Mailer {
	return &smtpMailer{addr: host + ":" + port, from: from}
}

func (m *smtpMailer) Send(_ context.Context, to, subject, body string) error {
	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		m.from, to, subject, body))

	if err := smtp.SendMail(m.addr, nil, m.from, []string{to}, msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

type noopMailer struct {
	logger zerolog.Logger
}

// NewNoopMailer 在未配置 SMTP 时使用，只记录日志不真正发送。
func NewNoopMailer(logger zerolog.Logger) Mailer {
	return &noopMailer{logger: logger}
}

func (m *noopMailer) Send(_ context.Context, to, subject, _ string) error {
	m.logger.Debug().Str("to", to).Str("subject", subject).Msg("mail delivery disabled, skipping send")
	return nil
}
