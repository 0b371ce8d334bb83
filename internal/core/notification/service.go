package notification

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
)

// Message は送信するメールです。
type Message struct {
	To      string
	Subject string
	Text    string
}

// Sender はメール送信の外部ゲートウェイです。
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// UseCase は通知ユースケースの公開インターフェースです。
type UseCase interface {
	SendEmail(ctx context.Context, in SendEmailInput) error
}

// Service は通知ユースケースを提供します。
type Service struct {
	sender Sender
}

// NewService は Service を生成します。
func NewService(sender Sender) *Service {
	return &Service{sender: sender}
}

// SendEmailInput はメール送信の入力です。
type SendEmailInput struct {
	To      string
	Subject string
	Text    string
}

// SendEmail は入力を検証し、ゲートウェイへ送信を委譲します。
func (s *Service) SendEmail(ctx context.Context, in SendEmailInput) error {
	to := strings.TrimSpace(in.To)
	if to == "" {
		return ErrRecipientRequired
	}
	if _, err := mail.ParseAddress(to); err != nil {
		return ErrInvalidRecipient
	}
	if strings.TrimSpace(in.Subject) == "" {
		return ErrSubjectRequired
	}
	if in.Text == "" {
		return ErrBodyRequired
	}

	if err := s.sender.Send(ctx, Message{To: to, Subject: in.Subject, Text: in.Text}); err != nil {
		return fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
	}
	return nil
}
