// Package mail は SMTP 経由で通知メールを送信します。
package mail

import (
	"context"
	"fmt"

	"github.com/ogurasousui/employee-registry/internal/core/notification"
	"github.com/ogurasousui/employee-registry/internal/platform/config"
	"gopkg.in/gomail.v2"
)

// SMTPSender は notification.Sender の SMTP 実装です。
type SMTPSender struct {
	from string
	send func(...*gomail.Message) error
}

// NewSMTPSender は設定から送信者を生成します。接続は送信ごとに行います。
func NewSMTPSender(cfg config.MailConfig) *SMTPSender {
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	return &SMTPSender{from: cfg.From, send: dialer.DialAndSend}
}

var _ notification.Sender = (*SMTPSender)(nil)

// Send はプレーンテキストのメールを 1 通送信します。
func (s *SMTPSender) Send(ctx context.Context, msg notification.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.send(s.buildMessage(msg)); err != nil {
		return fmt.Errorf("mail: send to %s: %w", msg.To, err)
	}
	return nil
}

func (s *SMTPSender) buildMessage(msg notification.Message) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Text)
	return m
}
