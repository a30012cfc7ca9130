package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// warnSlow logs lookups slower than 100ms.
func warnSlow(ctx context.Context, operation string, start time.Time, args ...any) {
	if d := time.Since(start); d > 100*time.Millisecond {
		slog.WarnContext(ctx, "slow database operation",
			append([]any{"operation", operation, "duration_ms", d.Milliseconds()}, args...)...)
	}
}

// GetCourseByAlias returns the course with the exact alias, or nil.
func (db *DB) GetCourseByAlias(ctx context.Context, alias string) (*EngineeringCourse, error) {
	query := `SELECT alias, name, description, focus, type, accreditation, nirf_rank
		FROM engineering_courses WHERE alias = ?`

	start := time.Now()
	var c EngineeringCourse
	var nirf string
	err := db.conn.QueryRowContext(ctx, query, alias).Scan(
		&c.Alias, &c.Name, &c.Description, &c.Focus, &c.Type, &c.Accreditation, &nirf)
	warnSlow(ctx, "GetCourseByAlias", start, "alias", alias)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to query course", "alias", alias, "error", err)
		return nil, fmt.Errorf("failed to get course by alias: %w", err)
	}
	c.NIRFRank = FlexString(nirf)
	return &c, nil
}

// GetHostelFees returns the fee schedule for gender, or nil when no
// schedule exists for it.
func (db *DB) GetHostelFees(ctx context.Context, gender string) (*HostelFeeSchedule, error) {
	start := time.Now()
	defer warnSlow(ctx, "GetHostelFees", start, "gender", gender)

	var key string
	err := db.conn.QueryRowContext(ctx, `SELECT gender FROM hostel_fees WHERE gender = ?`, gender).Scan(&key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to query hostel fees", "gender", gender, "error", err)
		return nil, fmt.Errorf("failed to get hostel fees: %w", err)
	}

	rows, err := db.conn.QueryContext(ctx, `
		SELECT alias, type, annual_fee, facilities_fee, note
		FROM hostel_fee_options WHERE gender = ? ORDER BY position`, key)
	if err != nil {
		return nil, fmt.Errorf("failed to get hostel fee options: %w", err)
	}
	defer func() { _ = rows.Close() }()

	schedule := &HostelFeeSchedule{Gender: key, Fees: []FeeOption{}}
	for rows.Next() {
		var opt FeeOption
		var annual, facilities string
		if err := rows.Scan(&opt.Alias, &opt.Type, &annual, &facilities, &opt.Note); err != nil {
			return nil, fmt.Errorf("failed to scan hostel fee option: %w", err)
		}
		opt.AnnualFee = FlexString(annual)
		opt.FacilitiesFee = FlexString(facilities)
		schedule.Fees = append(schedule.Fees, opt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate hostel fee options: %w", err)
	}
	return schedule, nil
}

// FindScholarshipPolicy returns the first policy (insertion order) whose exam
// contains exam, ignoring ASCII case. Returns nil when none matches.
func (db *DB) FindScholarshipPolicy(ctx context.Context, exam string) (*ScholarshipPolicy, error) {
	start := time.Now()
	defer warnSlow(ctx, "FindScholarshipPolicy", start, "exam", exam)

	var id int64
	policy := &ScholarshipPolicy{Ranks: []RankBracket{}}
	err := db.conn.QueryRowContext(ctx, `
		SELECT id, exam FROM scholarship_ranks
		WHERE exam LIKE '%' || ? || '%' ESCAPE '\'
		ORDER BY id LIMIT 1`, sanitizeSearchTerm(exam)).Scan(&id, &policy.Exam)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to query scholarship policy", "exam", exam, "error", err)
		return nil, fmt.Errorf("failed to find scholarship policy: %w", err)
	}

	rows, err := db.conn.QueryContext(ctx, `
		SELECT band, eapcet_band, jee_band, concession, value
		FROM scholarship_brackets WHERE policy_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get scholarship brackets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var b RankBracket
		var value string
		if err := rows.Scan(&b.Band, &b.EAPCETBand, &b.JEEBand, &b.Concession, &value); err != nil {
			return nil, fmt.Errorf("failed to scan scholarship bracket: %w", err)
		}
		b.Value = FlexString(value)
		policy.Ranks = append(policy.Ranks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate scholarship brackets: %w", err)
	}
	return policy, nil
}

// GetPlacementByYear returns the record whose year matches exactly, or nil.
func (db *DB) GetPlacementByYear(ctx context.Context, year string) (*PlacementRecord, error) {
	return db.queryPlacement(ctx, "GetPlacementByYear",
		`SELECT year, number, sort_order FROM placement_records WHERE year = ?`, year)
}

// GetLatestPlacement returns the record with the lowest sort order, or nil.
func (db *DB) GetLatestPlacement(ctx context.Context) (*PlacementRecord, error) {
	return db.queryPlacement(ctx, "GetLatestPlacement",
		`SELECT year, number, sort_order FROM placement_records ORDER BY sort_order ASC LIMIT 1`)
}

func (db *DB) queryPlacement(ctx context.Context, operation, query string, args ...any) (*PlacementRecord, error) {
	start := time.Now()
	var r PlacementRecord
	var number string
	err := db.conn.QueryRowContext(ctx, query, args...).Scan(&r.Year, &number, &r.SortOrder)
	warnSlow(ctx, operation, start)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to query placement record", "operation", operation, "error", err)
		return nil, fmt.Errorf("failed to query placement record: %w", err)
	}
	r.Number = FlexString(number)
	return &r, nil
}

// GetPartnerList returns the named partner list with names in stored order, or nil.
func (db *DB) GetPartnerList(ctx context.Context, listName string) (*PartnerList, error) {
	start := time.Now()
	defer warnSlow(ctx, "GetPartnerList", start, "list_name", listName)

	var name string
	err := db.conn.QueryRowContext(ctx, `SELECT list_name FROM iiic_partners WHERE list_name = ?`, listName).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to query partner list", "list_name", listName, "error", err)
		return nil, fmt.Errorf("failed to get partner list: %w", err)
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT name FROM iiic_partner_names WHERE list_name = ? ORDER BY position`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get partner names: %w", err)
	}
	defer func() { _ = rows.Close() }()

	list := &PartnerList{ListName: name, Partners: []string{}}
	for rows.Next() {
		var partner string
		if err := rows.Scan(&partner); err != nil {
			return nil, fmt.Errorf("failed to scan partner name: %w", err)
		}
		list.Partners = append(list.Partners, partner)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate partner names: %w", err)
	}
	return list, nil
}
