package employee

import (
	"regexp"
	"strings"
)

var (
	emailPattern       = regexp.MustCompile(`^[^\s\p{Z}\x{FEFF}@]+@[^\s\p{Z}\x{FEFF}@]+\.[^\s\p{Z}\x{FEFF}@]+$`)
	phonePattern       = regexp.MustCompile(`^\d{10}$`)
	dashedPhonePattern = regexp.MustCompile(`^\d{3}-\d{3}-\d{4}$`)
)

// Validate は社員候補データを検証します。最初に見つかった問題のみを返します。
func Validate(in CreateEmployeeInput) error {
	if in.Name == "" {
		return ErrNameRequired
	}
	if in.Email == "" {
		return ErrEmailRequired
	}
	if in.Phone == "" {
		return ErrPhoneRequired
	}
	if !emailPattern.MatchString(in.Email) {
		return ErrInvalidEmail
	}
	if !phonePattern.MatchString(in.Phone) {
		return ErrInvalidPhone
	}
	if in.EmployeeTitle == "" {
		return ErrTitleRequired
	}
	if !IsAllowedTitle(in.EmployeeTitle) {
		return ErrInvalidTitle
	}
	return nil
}

// NormalizePhoneQuery は検索用の電話番号を保存形式 (10 桁) に揃えます。
// ddd-ddd-dddd 形式も受け付け、ハイフンを除去します。
func NormalizePhoneQuery(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	switch {
	case phonePattern.MatchString(trimmed):
		return trimmed, nil
	case dashedPhonePattern.MatchString(trimmed):
		return strings.ReplaceAll(trimmed, "-", ""), nil
	default:
		return "", ErrInvalidPhone
	}
}
