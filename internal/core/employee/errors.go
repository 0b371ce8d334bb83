package employee

import "errors"

var (
	ErrNameRequired          = errors.New("employee: name is required")
	ErrEmailRequired         = errors.New("employee: email is required")
	ErrPhoneRequired         = errors.New("employee: phone is required")
	ErrInvalidEmail          = errors.New("employee: invalid email format")
	ErrInvalidPhone          = errors.New("employee: invalid phone number format")
	ErrTitleRequired         = errors.New("employee: employee title is required")
	ErrInvalidTitle          = errors.New("employee: invalid employee title")
	ErrInvalidID             = errors.New("employee: invalid id")
	ErrInvalidPage           = errors.New("employee: invalid page")
	ErrInvalidPageSize       = errors.New("employee: invalid page size")
	ErrEmailParamRequired    = errors.New("employee: email parameter is required")
	ErrEmployeeNotFound      = errors.New("employee: not found")
	ErrEmailAlreadyExists    = errors.New("employee: email already exists")
	ErrInvalidBatch          = errors.New("employee: invalid batch")
	ErrPhotoStorageNotConfig = errors.New("employee: photo storage is not configured")
)
