package employee

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

const (
	defaultPage      = 1
	defaultPageLimit = 10
	maxPageLimit     = 200
)

// Service は社員に関するユースケースをまとめます。
type Service struct {
	repo   Repository
	photos PhotoStore
	clock  Clock
	tx     TransactionManager
	logger *zap.SugaredLogger
	newID  func() string
}

// UseCase は社員ユースケースの公開インターフェースです。
type UseCase interface {
	CreateEmployee(ctx context.Context, in CreateEmployeeInput) (*Employee, error)
	CreateEmployeeWithPhoto(ctx context.Context, in CreateEmployeeInput, photo *Photo) (*Employee, error)
	IngestBatch(ctx context.Context, rows Rows) (*BatchResult, error)
	GetEmployee(ctx context.Context, in GetEmployeeInput) (*Employee, error)
	FilterByPhone(ctx context.Context, in FilterByPhoneInput) ([]Profile, error)
	FilterByEmail(ctx context.Context, in FilterByEmailInput) (*Profile, error)
}

// NewService は Service を生成します。photos が nil の場合、写真付き作成は失敗します。
func NewService(repo Repository, photos PhotoStore, clock Clock, tx TransactionManager, logger *zap.SugaredLogger) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Service{
		repo:   repo,
		photos: photos,
		clock:  clock,
		tx:     tx,
		logger: logger,
		newID:  uuid.NewString,
	}
}

// CreateEmployeeInput は社員作成時の入力です。
type CreateEmployeeInput struct {
	Name          string
	Email         string
	Phone         string
	EmployeeTitle string
	Status        *bool
}

// Photo はアップロードされたプロフィール写真です。
type Photo struct {
	Filename string
	Content  io.Reader
}

// GetEmployeeInput は社員取得時の入力です。
type GetEmployeeInput struct {
	ID string
}

// FilterByPhoneInput は電話番号検索の入力です。Page と Limit は 0 のとき既定値になります。
type FilterByPhoneInput struct {
	PhoneNumber string
	Page        int
	Limit       int
}

// FilterByEmailInput はメールアドレス検索の入力です。
type FilterByEmailInput struct {
	Email string
}

// CreateEmployee は新しい社員を作成します。
func (s *Service) CreateEmployee(ctx context.Context, in CreateEmployeeInput) (*Employee, error) {
	return s.create(ctx, in, nil)
}

// CreateEmployeeWithPhoto は社員を作成し、写真があれば ID 由来の名前で保存して紐づけます。
func (s *Service) CreateEmployeeWithPhoto(ctx context.Context, in CreateEmployeeInput, photo *Photo) (*Employee, error) {
	if photo != nil && photo.Content == nil {
		photo = nil
	}
	if photo != nil && s.photos == nil {
		return nil, ErrPhotoStorageNotConfig
	}
	return s.create(ctx, in, photo)
}

func (s *Service) create(ctx context.Context, in CreateEmployeeInput, photo *Photo) (*Employee, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}

	status := true
	if in.Status != nil {
		status = *in.Status
	}

	var (
		created   *Employee
		photoName string
	)

	err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		if err := s.ensureEmailNotExists(txCtx, in.Email); err != nil {
			return err
		}

		emp := &Employee{
			ID:            s.newID(),
			Name:          in.Name,
			Email:         in.Email,
			EmployeeTitle: in.EmployeeTitle,
			Phone:         in.Phone,
			Status:        status,
			CreatedAt:     s.clock.Now(),
		}

		if photo != nil {
			name := emp.ID + filepath.Ext(filepath.Base(photo.Filename))
			url, err := s.photos.Save(txCtx, name, photo.Content)
			if err != nil {
				return fmt.Errorf("employee: save profile photo: %w", err)
			}
			photoName = name
			emp.ProfilePhotoURL = &url
		}

		result, err := s.repo.Create(txCtx, emp)
		if err != nil {
			return err
		}
		created = result
		return nil
	})
	if err != nil {
		if photoName != "" {
			if rmErr := s.photos.Remove(ctx, photoName); rmErr != nil {
				s.logger.Errorw("failed to remove orphaned profile photo", "photo", photoName, "err", rmErr)
			}
		}
		return nil, err
	}

	return created, nil
}

// GetEmployee は ID で社員を取得します。status に関わらず返却します。
func (s *Service) GetEmployee(ctx context.Context, in GetEmployeeInput) (*Employee, error) {
	id := strings.TrimSpace(in.ID)
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}

	var result *Employee
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		result = found
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}

// FilterByPhone は status が true の社員を電話番号の完全一致で検索します。
// 範囲外のページは空の結果になります。
func (s *Service) FilterByPhone(ctx context.Context, in FilterByPhoneInput) ([]Profile, error) {
	phone, err := NormalizePhoneQuery(in.PhoneNumber)
	if err != nil {
		return nil, err
	}

	page, limit, err := normalizePagination(in.Page, in.Limit)
	if err != nil {
		return nil, err
	}
	// offset が int に収まらないページは必ず範囲外
	if page-1 > math.MaxInt/limit {
		return []Profile{}, nil
	}

	var profiles []Profile
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.ListActiveByPhone(txCtx, PhoneFilter{
			Phone:  phone,
			Limit:  limit,
			Offset: (page - 1) * limit,
		})
		if err != nil {
			return err
		}
		profiles = make([]Profile, 0, len(found))
		for _, emp := range found {
			profiles = append(profiles, ProfileOf(emp))
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return profiles, nil
}

// FilterByEmail は status が true の社員をメールアドレスの完全一致で取得します。
func (s *Service) FilterByEmail(ctx context.Context, in FilterByEmailInput) (*Profile, error) {
	if in.Email == "" {
		return nil, ErrEmailParamRequired
	}

	var result *Profile
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.FindActiveByEmail(txCtx, in.Email)
		if err != nil {
			return err
		}
		profile := ProfileOf(found)
		result = &profile
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}

func (s *Service) ensureEmailNotExists(ctx context.Context, email string) error {
	emp, err := s.repo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrEmployeeNotFound) {
		return err
	}
	if emp != nil {
		return ErrEmailAlreadyExists
	}
	return nil
}

func normalizePagination(page, limit int) (int, int, error) {
	if page < 0 {
		return 0, 0, ErrInvalidPage
	}
	if page == 0 {
		page = defaultPage
	}
	switch {
	case limit < 0:
		return 0, 0, ErrInvalidPageSize
	case limit == 0:
		limit = defaultPageLimit
	case limit > maxPageLimit:
		limit = maxPageLimit
	}
	return page, limit, nil
}
