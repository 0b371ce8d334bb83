package employee

import (
	"strings"
	"time"
)

// Title は社員の職種を表します。
type Title string

const (
	TitleBackendDeveloper  Title = "backend developer"
	TitleFrontendDeveloper Title = "frontend developer"
	TitleAIDeveloper       Title = "ai developer"
)

var allowedTitles = []Title{TitleBackendDeveloper, TitleFrontendDeveloper, TitleAIDeveloper}

// IsAllowedTitle は大文字小文字を区別せずに職種が許可されているかを判定します。
func IsAllowedTitle(raw string) bool {
	lower := strings.ToLower(raw)
	for _, t := range allowedTitles {
		if string(t) == lower {
			return true
		}
	}
	return false
}

// Employee は社員エンティティです。
type Employee struct {
	ID              string
	Name            string
	Email           string
	EmployeeTitle   string
	Phone           string
	Status          bool
	ProfilePhotoURL *string
	CreatedAt       time.Time
}

// Profile は検索結果として公開される社員情報の射影です。
type Profile struct {
	Name          string
	Email         string
	EmployeeTitle string
	Phone         string
}

// ProfileOf は Employee から公開用の射影を作ります。
func ProfileOf(e *Employee) Profile {
	return Profile{
		Name:          e.Name,
		Email:         e.Email,
		EmployeeTitle: e.EmployeeTitle,
		Phone:         e.Phone,
	}
}
