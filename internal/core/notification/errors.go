package notification

import "errors"

var (
	ErrRecipientRequired = errors.New("notification: recipient is required")
	ErrInvalidRecipient  = errors.New("notification: invalid recipient")
	ErrSubjectRequired   = errors.New("notification: subject is required")
	ErrBodyRequired      = errors.New("notification: body is required")
	ErrDeliveryFailed    = errors.New("notification: delivery failed")
)
