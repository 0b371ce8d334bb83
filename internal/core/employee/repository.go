package employee

import (
	"context"
	"io"
)

// Repository は社員永続化の抽象です。
type Repository interface {
	Create(ctx context.Context, employee *Employee) (*Employee, error)
	FindByID(ctx context.Context, id string) (*Employee, error)
	FindByEmail(ctx context.Context, email string) (*Employee, error)
	FindActiveByEmail(ctx context.Context, email string) (*Employee, error)
	ListActiveByPhone(ctx context.Context, filter PhoneFilter) ([]*Employee, error)
}

// PhoneFilter は電話番号検索用のフィルタです。
type PhoneFilter struct {
	Phone  string
	Limit  int
	Offset int
}

// PhotoStore はプロフィール写真の保存先の抽象です。
type PhotoStore interface {
	// Save は content を name で保存し、公開パスを返します。
	Save(ctx context.Context, name string, content io.Reader) (string, error)
	Remove(ctx context.Context, name string) error
}
