package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ogurasousui/employee-registry/internal/core/notification"
	"go.uber.org/zap"
)

// NotificationHandler はメール送信 API のハンドラーです。
type NotificationHandler struct {
	svc    notification.UseCase
	logger *zap.Logger
}

func NewNotificationHandler(svc notification.UseCase, logger *zap.Logger) *NotificationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationHandler{svc: svc, logger: logger}
}

func (h *NotificationHandler) RegisterRoutes(router gin.IRouter) {
	router.POST("/api/send-email", h.SendEmail)
}

type sendEmailRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

// SendEmail はメールを 1 通送信します。
func (h *NotificationHandler) SendEmail(c *gin.Context) {
	var req sendEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, fmt.Errorf("%w: %w", errInvalidRequestBody, err))
		return
	}

	if err := h.svc.SendEmail(c.Request.Context(), notification.SendEmailInput{
		To:      req.To,
		Subject: req.Subject,
		Text:    req.Text,
	}); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Email sent successfully"})
}
