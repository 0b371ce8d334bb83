package employee

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"testing"
)

func rowsOf(rows ...BatchRow) Rows {
	return slices.Values(rows)
}

func TestService_IngestBatch_SkipsInvalidAndDuplicateRows(t *testing.T) {
	t.Parallel()

	repo := newFakeEmployeeRepo()
	svc := newTestService(repo, nil)

	if _, err := svc.CreateEmployee(context.Background(), validInput("existing@x.com")); err != nil {
		t.Fatalf("seed error: %v", err)
	}

	invalid := validInput("bad@x.com")
	invalid.EmployeeTitle = "manager"

	result, err := svc.IngestBatch(context.Background(), rowsOf(
		BatchRow{Line: 2, Input: validInput("one@x.com")},
		BatchRow{Line: 3, Input: invalid},
		BatchRow{Line: 4, Input: validInput("existing@x.com")},
		BatchRow{Line: 5, Err: fmt.Errorf("line 5: %w", ErrInvalidBatch)},
		BatchRow{Line: 6, Input: validInput("two@x.com")},
		BatchRow{Line: 7, Input: validInput("one@x.com")},
	))
	if err != nil {
		t.Fatalf("IngestBatch returned error: %v", err)
	}

	if result.Accepted != 2 || result.Skipped != 4 {
		t.Fatalf("expected 2 accepted and 4 skipped, got %d/%d", result.Accepted, result.Skipped)
	}
	if len(repo.employees) != 3 {
		t.Fatalf("expected 3 stored employees, got %d", len(repo.employees))
	}

	wantErrs := map[int]error{
		3: ErrInvalidTitle,
		4: ErrEmailAlreadyExists,
		5: ErrInvalidBatch,
		7: ErrEmailAlreadyExists,
	}
	for _, outcome := range result.Rows {
		want, skipped := wantErrs[outcome.Line]
		if outcome.Accepted == skipped {
			t.Fatalf("line %d: unexpected accepted=%t", outcome.Line, outcome.Accepted)
		}
		if skipped && !errors.Is(outcome.Err, want) {
			t.Fatalf("line %d: expected %v, got %v", outcome.Line, want, outcome.Err)
		}
	}
}

func TestService_IngestBatch_ContinuesAfterStoreFailure(t *testing.T) {
	t.Parallel()

	repo := newFakeEmployeeRepo()
	repo.createErr = errors.New("db down")
	svc := newTestService(repo, nil)

	result, err := svc.IngestBatch(context.Background(), rowsOf(
		BatchRow{Line: 2, Input: validInput("one@x.com")},
		BatchRow{Line: 3, Input: validInput("two@x.com")},
	))
	if err != nil {
		t.Fatalf("IngestBatch returned error: %v", err)
	}
	if result.Skipped != 2 || len(result.Rows) != 2 {
		t.Fatalf("expected every row to be attempted and skipped, got %+v", result)
	}
}

func TestService_IngestBatch_StopsOnCancelledContext(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakeEmployeeRepo(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.IngestBatch(ctx, rowsOf(BatchRow{Line: 2, Input: validInput("one@x.com")}))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestService_IngestBatch_NilRows(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakeEmployeeRepo(), nil)
	if _, err := svc.IngestBatch(context.Background(), nil); !errors.Is(err, ErrInvalidBatch) {
		t.Fatalf("expected ErrInvalidBatch, got %v", err)
	}
}
