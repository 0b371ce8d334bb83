// Package csvimport は社員 CSV を一括取り込み用の行シーケンスに変換します。
package csvimport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ogurasousui/employee-registry/internal/core/employee"
)

var requiredColumns = []string{"name", "email", "phone", "employeetitle"}

// Reader はヘッダー付き CSV を 1 行ずつ読み出します。
type Reader struct {
	r       *csv.Reader
	columns map[string]int
	line    int
}

// NewReader はヘッダー行を読み込み、必須列を確認します。
func NewReader(src io.Reader) (*Reader, error) {
	r := csv.NewReader(src)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("csvimport: missing header: %w", employee.ErrInvalidBatch)
		}
		return nil, fmt.Errorf("csvimport: read header: %w: %w", employee.ErrInvalidBatch, err)
	}

	columns := make(map[string]int, len(header))
	for i, h := range header {
		key := normalizeHeader(h)
		if _, dup := columns[key]; !dup {
			columns[key] = i
		}
	}
	for _, col := range requiredColumns {
		if _, ok := columns[col]; !ok {
			return nil, fmt.Errorf("csvimport: missing column %q: %w", col, employee.ErrInvalidBatch)
		}
	}

	return &Reader{r: r, columns: columns, line: 1}, nil
}

// Rows は残りの行を遅延的に返します。読み出しは一度きりです。
// 解析できない行は Err を設定して返し、入力の読み込みに失敗した時点で終了します。
func (r *Reader) Rows() employee.Rows {
	return func(yield func(employee.BatchRow) bool) {
		for {
			record, err := r.r.Read()
			if errors.Is(err, io.EOF) {
				return
			}

			var row employee.BatchRow
			var parseErr *csv.ParseError
			switch {
			case err == nil:
				r.line, _ = r.r.FieldPos(0)
				row = r.toRow(record)
			case errors.As(err, &parseErr):
				r.line = parseErr.StartLine
				row = employee.BatchRow{Line: r.line, Err: fmt.Errorf("csvimport: line %d: %w: %w", r.line, employee.ErrInvalidBatch, err)}
			default:
				yield(employee.BatchRow{Line: r.line + 1, Err: fmt.Errorf("csvimport: read: %w", err)})
				return
			}

			if !yield(row) {
				return
			}
		}
	}
}

func (r *Reader) toRow(record []string) employee.BatchRow {
	line := r.line
	row := employee.BatchRow{
		Line: line,
		Input: employee.CreateEmployeeInput{
			Name:          r.field(record, "name"),
			Email:         r.field(record, "email"),
			Phone:         r.field(record, "phone"),
			EmployeeTitle: r.field(record, "employeetitle"),
		},
	}

	if raw := r.field(record, "status"); raw != "" {
		status, err := strconv.ParseBool(raw)
		if err != nil {
			row.Err = fmt.Errorf("csvimport: line %d: invalid status %q: %w", line, raw, employee.ErrInvalidBatch)
			return row
		}
		row.Input.Status = &status
	}

	return row
}

func (r *Reader) field(record []string, name string) string {
	idx, ok := r.columns[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.NewReplacer("_", "", " ", "", "-", "").Replace(h)
}
