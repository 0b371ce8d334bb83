package employee

import (
	"context"
	"errors"
	"iter"
)

// BatchRow は一括取り込みの 1 行です。Err が設定されている行は解析に失敗しています。
type BatchRow struct {
	Line  int
	Input CreateEmployeeInput
	Err   error
}

// Rows は一括取り込み行の遅延シーケンスです。一度しか走査できません。
type Rows = iter.Seq[BatchRow]

// RowOutcome は 1 行分の取り込み結果です。
type RowOutcome struct {
	Line     int
	Email    string
	Accepted bool
	Err      error
}

// BatchResult は一括取り込みの結果です。
type BatchResult struct {
	Accepted int
	Skipped  int
	Rows     []RowOutcome
}

// IngestBatch は行ごとに独立して社員を作成します。
// 不正な行や重複したメールアドレスの行はスキップし、残りの処理を続けます。
// 既に保存された行はロールバックしません。
func (s *Service) IngestBatch(ctx context.Context, rows Rows) (*BatchResult, error) {
	if rows == nil {
		return nil, ErrInvalidBatch
	}

	result := &BatchResult{}
	for row := range rows {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		outcome := RowOutcome{Line: row.Line, Email: row.Input.Email}
		if row.Err != nil {
			outcome.Err = row.Err
		} else if _, err := s.create(ctx, row.Input, nil); err != nil {
			outcome.Err = err
		} else {
			outcome.Accepted = true
		}

		s.record(result, outcome)
	}

	s.logger.Infow("batch ingestion finished", "accepted", result.Accepted, "skipped", result.Skipped)
	return result, nil
}

func (s *Service) record(result *BatchResult, outcome RowOutcome) {
	result.Rows = append(result.Rows, outcome)
	if outcome.Accepted {
		result.Accepted++
		return
	}

	result.Skipped++
	if isClientError(outcome.Err) {
		s.logger.Infow("skipping batch row", "line", outcome.Line, "email", outcome.Email, "reason", outcome.Err)
		return
	}
	s.logger.Errorw("failed to ingest batch row", "line", outcome.Line, "email", outcome.Email, "err", outcome.Err)
}

func isClientError(err error) bool {
	switch {
	case errors.Is(err, ErrNameRequired),
		errors.Is(err, ErrEmailRequired),
		errors.Is(err, ErrPhoneRequired),
		errors.Is(err, ErrInvalidEmail),
		errors.Is(err, ErrInvalidPhone),
		errors.Is(err, ErrTitleRequired),
		errors.Is(err, ErrInvalidTitle),
		errors.Is(err, ErrEmailAlreadyExists),
		errors.Is(err, ErrInvalidBatch):
		return true
	default:
		return false
	}
}
