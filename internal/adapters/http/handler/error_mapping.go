package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ogurasousui/employee-registry/internal/core/employee"
	"github.com/ogurasousui/employee-registry/internal/core/notification"
	"go.uber.org/zap"
)

const msgInternalServerError = "Internal server error"

type httpError struct {
	status  int
	message string
}

var errorMessages = []struct {
	target error
	httpError
}{
	{employee.ErrNameRequired, httpError{http.StatusBadRequest, "Name is required"}},
	{employee.ErrEmailRequired, httpError{http.StatusBadRequest, "Email is required"}},
	{employee.ErrPhoneRequired, httpError{http.StatusBadRequest, "Phone is required"}},
	{employee.ErrInvalidEmail, httpError{http.StatusBadRequest, "Invalid email format"}},
	{employee.ErrInvalidPhone, httpError{http.StatusBadRequest, "Invalid phone number format (10 digits required)"}},
	{employee.ErrTitleRequired, httpError{http.StatusBadRequest, "Employee title is required"}},
	{employee.ErrInvalidTitle, httpError{http.StatusBadRequest, "Invalid employee title"}},
	{employee.ErrEmailAlreadyExists, httpError{http.StatusBadRequest, "Email address already exists"}},
	{employee.ErrEmailParamRequired, httpError{http.StatusBadRequest, "Email parameter is required"}},
	{employee.ErrInvalidID, httpError{http.StatusBadRequest, "Invalid employee id"}},
	{employee.ErrInvalidPage, httpError{http.StatusBadRequest, "Invalid page"}},
	{employee.ErrInvalidPageSize, httpError{http.StatusBadRequest, "Invalid limit"}},
	{employee.ErrInvalidBatch, httpError{http.StatusBadRequest, "Invalid CSV file"}},
	{employee.ErrEmployeeNotFound, httpError{http.StatusNotFound, "Employee not found or status is not true"}},
	{errInvalidRequestBody, httpError{http.StatusBadRequest, "Invalid request body"}},
	{notification.ErrRecipientRequired, httpError{http.StatusBadRequest, "Recipient is required"}},
	{notification.ErrInvalidRecipient, httpError{http.StatusBadRequest, "Invalid recipient email format"}},
	{notification.ErrSubjectRequired, httpError{http.StatusBadRequest, "Subject is required"}},
	{notification.ErrBodyRequired, httpError{http.StatusBadRequest, "Text is required"}},
	{notification.ErrDeliveryFailed, httpError{http.StatusInternalServerError, "Failed to send email"}},
}

// toHTTPError はドメインエラーをステータスコードとクライアント向けメッセージに変換します。
// 未知のエラーは内部エラーとして扱い、詳細は返しません。
func toHTTPError(err error) httpError {
	for _, m := range errorMessages {
		if errors.Is(err, m.target) {
			return m.httpError
		}
	}
	return httpError{http.StatusInternalServerError, msgInternalServerError}
}

func respondError(c *gin.Context, logger *zap.Logger, err error) {
	he := toHTTPError(err)
	if he.status >= http.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	} else {
		logger.Debug("request rejected", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(he.status, gin.H{"error": he.message})
}
