package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/employee-registry/internal/core/employee"
	pgdb "github.com/ogurasousui/employee-registry/internal/platform/db/postgres"
)

const (
	employeeUniqueViolationCode = "23505"
	employeeCheckViolationCode  = "23514"
	employeeInvalidTextCode     = "22P02"

	employeeEmailUniqueConstraint = "employees_email_key"
)

const employeeColumns = `id, name, email, employee_title, phone, status, profile_photo_url, created_at`

// EmployeeRepository は PostgreSQL を利用した社員永続化の実装です。
type EmployeeRepository struct {
	pool pgdb.Queryer
}

// NewEmployeeRepository は EmployeeRepository を生成します。
func NewEmployeeRepository(pool pgdb.Queryer) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

// Create は社員を新規作成します。メールアドレスの一意制約違反は ErrEmailAlreadyExists になります。
func (r *EmployeeRepository) Create(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO employees (id, name, email, employee_title, phone, status, profile_photo_url, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING `+employeeColumns,
		e.ID,
		e.Name,
		e.Email,
		e.EmployeeTitle,
		e.Phone,
		e.Status,
		nullableString(e.ProfilePhotoURL),
		e.CreatedAt,
	)

	created, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return created, nil
}

// FindByID は ID で社員を取得します。
func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+employeeColumns+`
          FROM employees
         WHERE id = $1
         LIMIT 1
    `, id)

	found, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return found, nil
}

// FindByEmail はメールアドレスで社員を取得します。status は問いません。
func (r *EmployeeRepository) FindByEmail(ctx context.Context, email string) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+employeeColumns+`
          FROM employees
         WHERE email = $1
         LIMIT 1
    `, email)

	found, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return found, nil
}

// FindActiveByEmail は status が true の社員をメールアドレスで取得します。
func (r *EmployeeRepository) FindActiveByEmail(ctx context.Context, email string) (*employee.Employee, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+employeeColumns+`
          FROM employees
         WHERE email = $1 AND status = TRUE
         LIMIT 1
    `, email)

	found, err := scanEmployee(row)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	return found, nil
}

// ListActiveByPhone は status が true の社員を電話番号の完全一致で取得します。
func (r *EmployeeRepository) ListActiveByPhone(ctx context.Context, filter employee.PhoneFilter) ([]*employee.Employee, error) {
	if filter.Limit <= 0 {
		return nil, employee.ErrInvalidPageSize
	}
	if filter.Offset < 0 {
		return nil, employee.ErrInvalidPage
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT `+employeeColumns+`
          FROM employees
         WHERE phone = $1 AND status = TRUE
         ORDER BY created_at ASC, id ASC
         LIMIT $2
        OFFSET $3
    `, filter.Phone, filter.Limit, filter.Offset)
	if err != nil {
		return nil, translateEmployeePgError(err)
	}
	defer rows.Close()

	employees := make([]*employee.Employee, 0, filter.Limit)
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, translateEmployeePgError(err)
		}
		employees = append(employees, emp)
	}

	if err := rows.Err(); err != nil {
		return nil, translateEmployeePgError(err)
	}

	return employees, nil
}

func scanEmployee(row pgx.Row) (*employee.Employee, error) {
	var (
		id        string
		name      string
		email     string
		title     string
		phone     string
		status    bool
		photoURL  sql.NullString
		createdAt time.Time
	)

	if err := row.Scan(
		&id,
		&name,
		&email,
		&title,
		&phone,
		&status,
		&photoURL,
		&createdAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, employee.ErrEmployeeNotFound
		}
		return nil, err
	}

	var photoPtr *string
	if photoURL.Valid {
		value := photoURL.String
		photoPtr = &value
	}

	return &employee.Employee{
		ID:              id,
		Name:            name,
		Email:           email,
		EmployeeTitle:   title,
		Phone:           phone,
		Status:          status,
		ProfilePhotoURL: photoPtr,
		CreatedAt:       createdAt.UTC(),
	}, nil
}

func translateEmployeePgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return employee.ErrEmployeeNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case employeeUniqueViolationCode:
			if pgErr.ConstraintName == "" || pgErr.ConstraintName == employeeEmailUniqueConstraint {
				return employee.ErrEmailAlreadyExists
			}
		case employeeCheckViolationCode:
			return employee.ErrInvalidTitle
		case employeeInvalidTextCode:
			return employee.ErrInvalidID
		}
	}

	return err
}

func nullableString(value *string) any {
	if value == nil {
		return nil
	}
	return *value
}
