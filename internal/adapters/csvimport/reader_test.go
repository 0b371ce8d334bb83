package csvimport

import (
	"errors"
	"strings"
	"testing"

	"github.com/ogurasousui/employee-registry/internal/core/employee"
)

func collect(t *testing.T, r *Reader) []employee.BatchRow {
	t.Helper()

	var rows []employee.BatchRow
	for row := range r.Rows() {
		rows = append(rows, row)
	}
	return rows
}

func TestNewReader_ParsesRows(t *testing.T) {
	t.Parallel()

	input := "name,email,phone,employeeTitle\n" +
		"Ana Lee,ana@x.com,5551234567,Backend Developer\n" +
		" Bo Park , bo@x.com ,5559876543,ai developer\n"

	r, err := NewReader(strings.NewReader(input))
	if err != nil {
		t.Fatalf("NewReader returned error: %v", err)
	}

	rows := collect(t, r)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	first := rows[0]
	if first.Err != nil {
		t.Fatalf("unexpected row error: %v", first.Err)
	}
	if first.Line != 2 {
		t.Fatalf("expected line 2, got %d", first.Line)
	}
	if first.Input.Name != "Ana Lee" || first.Input.EmployeeTitle != "Backend Developer" {
		t.Fatalf("unexpected input: %+v", first.Input)
	}
	if first.Input.Status != nil {
		t.Fatalf("expected status to be unset")
	}

	second := rows[1]
	if second.Input.Name != "Bo Park" || second.Input.Email != "bo@x.com" {
		t.Fatalf("expected fields to be trimmed, got %+v", second.Input)
	}
	if second.Line != 3 {
		t.Fatalf("expected line 3, got %d", second.Line)
	}
}

func TestNewReader_HeaderIsCaseInsensitiveAndReordered(t *testing.T) {
	t.Parallel()

	input := "\ufeffEmail,EmployeeTitle,Name,Phone,Status\n" +
		"ana@x.com,frontend developer,Ana,5551234567,false\n"

	r, err := NewReader(strings.NewReader(input))
	if err != nil {
		t.Fatalf("NewReader returned error: %v", err)
	}

	rows := collect(t, r)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	in := rows[0].Input
	if in.Name != "Ana" || in.Email != "ana@x.com" || in.Phone != "5551234567" {
		t.Fatalf("unexpected input: %+v", in)
	}
	if in.Status == nil || *in.Status {
		t.Fatalf("expected status false, got %v", in.Status)
	}
}

func TestNewReader_InvalidHeader(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"empty":          "",
		"missing column": "name,email,phone\nAna,ana@x.com,5551234567\n",
	}

	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if _, err := NewReader(strings.NewReader(input)); !errors.Is(err, employee.ErrInvalidBatch) {
				t.Fatalf("expected ErrInvalidBatch, got %v", err)
			}
		})
	}
}

func TestReader_MalformedRowsAreReported(t *testing.T) {
	t.Parallel()

	input := "name,email,phone,employeeTitle,status\n" +
		"Ana,ana@x.com,5551234567,backend developer,maybe\n" +
		"Bo,bo@x.com,5559876543,backend developer,\n"

	r, err := NewReader(strings.NewReader(input))
	if err != nil {
		t.Fatalf("NewReader returned error: %v", err)
	}

	rows := collect(t, r)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if !errors.Is(rows[0].Err, employee.ErrInvalidBatch) {
		t.Fatalf("expected invalid status to be reported, got %v", rows[0].Err)
	}
	if rows[1].Err != nil || rows[1].Input.Status != nil {
		t.Fatalf("expected empty status to be accepted, got %+v", rows[1])
	}
}

func TestReader_BareQuoteIsSkippedAndReadingContinues(t *testing.T) {
	t.Parallel()

	input := "name,email,phone,employeeTitle\n" +
		"An\"a,ana@x.com,5551234567,backend developer\n" +
		"Bo,bo@x.com,5559876543,backend developer\n"

	r, err := NewReader(strings.NewReader(input))
	if err != nil {
		t.Fatalf("NewReader returned error: %v", err)
	}

	rows := collect(t, r)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if !errors.Is(rows[0].Err, employee.ErrInvalidBatch) || rows[0].Line != 2 {
		t.Fatalf("expected line 2 to be malformed, got %+v", rows[0])
	}
	if rows[1].Err != nil || rows[1].Input.Email != "bo@x.com" {
		t.Fatalf("expected following row to be read, got %+v", rows[1])
	}
}

func TestReader_StopsWhenConsumerBreaks(t *testing.T) {
	t.Parallel()

	input := "name,email,phone,employeeTitle\n" +
		"A,a@x.com,5551234567,backend developer\n" +
		"B,b@x.com,5551234567,backend developer\n"

	r, err := NewReader(strings.NewReader(input))
	if err != nil {
		t.Fatalf("NewReader returned error: %v", err)
	}

	count := 0
	for range r.Rows() {
		count++
		break
	}
	if count != 1 {
		t.Fatalf("expected iteration to stop after first row, got %d", count)
	}
}
