package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"logistics-sim/internal/domain"
	"logistics-sim/internal/platform/db"
	"logistics-sim/internal/ports"
)

// SQL-backed implementation of the RunRepository port.
// The full report is stored as JSON next to a few queryable columns.
type SQLRunRepository struct {
	DB     *sql.DB
	Driver string
}

func NewSQLRunRepository(conn *sql.DB, driver string) *SQLRunRepository {
	return &SQLRunRepository{DB: conn, Driver: driver}
}

func (s *SQLRunRepository) SaveRun(ctx context.Context, report *domain.RunReport) error {
	if s.DB == nil {
		return errors.New("save run: DB is nil")
	}
	if report == nil || report.ID == "" {
		return errors.New("save run: report id must not be empty")
	}

	body, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("save run %s: encode report: %w", report.ID, err)
	}

	query := `
	INSERT INTO runs (
		id,
		created_at,
		outcome,
		termination,
		ticks,
		packages,
		delivered,
		report
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?);
	`
	_, err = s.DB.ExecContext(ctx, db.Rebind(s.Driver, query),
		report.ID,
		report.CreatedAt.UnixNano(),
		report.Outcome,
		report.Termination,
		report.Ticks,
		report.Packages,
		report.Delivered,
		string(body),
	)
	if err != nil {
		return fmt.Errorf("save run %s: insert: %w", report.ID, err)
	}

	return nil
}

// Return stored reports, newest first.
func (s *SQLRunRepository) ListRuns(ctx context.Context, limit int) ([]*domain.RunReport, error) {
	if s.DB == nil {
		return nil, errors.New("list runs: DB is nil")
	}
	if limit <= 0 {
		limit = 50
	}

	query := `
	SELECT report
	FROM runs
	ORDER BY created_at DESC, id
	LIMIT ?;
	`
	rows, err := s.DB.QueryContext(ctx, db.Rebind(s.Driver, query), limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: query runs table: %w", err)
	}
	defer rows.Close()

	reports := make([]*domain.RunReport, 0, limit)
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("list runs: scan row: %w", err)
		}
		r, err := decodeReport(body)
		if err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		reports = append(reports, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: row iteration: %w", err)
	}

	return reports, nil
}

func (s *SQLRunRepository) GetRun(ctx context.Context, id string) (*domain.RunReport, error) {
	if s.DB == nil {
		return nil, errors.New("get run: DB is nil")
	}

	var body string
	err := s.DB.QueryRowContext(ctx, db.Rebind(s.Driver, `SELECT report FROM runs WHERE id = ?;`), id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get run %s: %w", id, ports.ErrRunNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", id, err)
	}

	r, err := decodeReport(body)
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", id, err)
	}
	return r, nil
}

func decodeReport(body string) (*domain.RunReport, error) {
	var r domain.RunReport
	if err := json.Unmarshal([]byte(body), &r); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return &r, nil
}
