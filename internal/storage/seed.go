package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
)

// Fixture mirrors the five document collections so one JSON file can seed
// the SQLite store for local runs and tests.
type Fixture struct {
	Courses      []EngineeringCourse `json:"engineering_courses"`
	HostelFees   []HostelFeeSchedule `json:"hostel_fees"`
	Scholarships []ScholarshipPolicy `json:"scholarship_ranks"`
	Placements   []PlacementRecord   `json:"placement_records"`
	Partners     []PartnerList       `json:"iiic_partners"`
}

// LoadFixture reads a JSON fixture from path.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode fixture %s: %w", path, err)
	}
	return &f, nil
}

// Seed replaces the contents of every collection table with the fixture in
// one transaction.
func (db *DB) Seed(ctx context.Context, f *Fixture) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{
		"engineering_courses",
		"hostel_fee_options", "hostel_fees",
		"scholarship_brackets", "scholarship_ranks",
		"placement_records",
		"iiic_partner_names", "iiic_partners",
	} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	if err := seedCourses(ctx, tx, f.Courses); err != nil {
		return err
	}
	if err := seedHostelFees(ctx, tx, f.HostelFees); err != nil {
		return err
	}
	if err := seedScholarships(ctx, tx, f.Scholarships); err != nil {
		return err
	}
	if err := seedPlacements(ctx, tx, f.Placements); err != nil {
		return err
	}
	if err := seedPartners(ctx, tx, f.Partners); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}

	slog.InfoContext(ctx, "seeded fulfillment store",
		"courses", len(f.Courses),
		"hostel_schedules", len(f.HostelFees),
		"scholarship_policies", len(f.Scholarships),
		"placements", len(f.Placements),
		"partner_lists", len(f.Partners))
	return nil
}

func seedCourses(ctx context.Context, tx *sql.Tx, courses []EngineeringCourse) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO engineering_courses (alias, name, description, focus, type, accreditation, nirf_rank)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare courses: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, c := range courses {
		if _, err := stmt.ExecContext(ctx, c.Alias, c.Name, c.Description, c.Focus, c.Type, c.Accreditation, c.NIRFRank.String()); err != nil {
			return fmt.Errorf("insert course %s: %w", c.Alias, err)
		}
	}
	return nil
}

func seedHostelFees(ctx context.Context, tx *sql.Tx, schedules []HostelFeeSchedule) error {
	for _, s := range schedules {
		if _, err := tx.ExecContext(ctx, `INSERT INTO hostel_fees (gender) VALUES (?)`, s.Gender); err != nil {
			return fmt.Errorf("insert hostel schedule %s: %w", s.Gender, err)
		}
		for i, opt := range s.Fees {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO hostel_fee_options (gender, position, alias, type, annual_fee, facilities_fee, note)
				VALUES (?, ?, ?, ?, ?, ?, ?)`,
				s.Gender, i, opt.Alias, opt.Type, opt.AnnualFee.String(), opt.FacilitiesFee.String(), opt.Note); err != nil {
				return fmt.Errorf("insert hostel option %s/%s: %w", s.Gender, opt.Alias, err)
			}
		}
	}
	return nil
}

func seedScholarships(ctx context.Context, tx *sql.Tx, policies []ScholarshipPolicy) error {
	for _, p := range policies {
		res, err := tx.ExecContext(ctx, `INSERT INTO scholarship_ranks (exam) VALUES (?)`, p.Exam)
		if err != nil {
			return fmt.Errorf("insert scholarship policy %s: %w", p.Exam, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("scholarship policy id: %w", err)
		}
		for i, b := range p.Ranks {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO scholarship_brackets (policy_id, position, band, eapcet_band, jee_band, concession, value)
				VALUES (?, ?, ?, ?, ?, ?, ?)`,
				id, i, b.Band, b.EAPCETBand, b.JEEBand, b.Concession, b.Value.String()); err != nil {
				return fmt.Errorf("insert scholarship bracket %s/%d: %w", p.Exam, i, err)
			}
		}
	}
	return nil
}

func seedPlacements(ctx context.Context, tx *sql.Tx, records []PlacementRecord) error {
	for _, r := range records {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO placement_records (year, number, sort_order) VALUES (?, ?, ?)`,
			r.Year, r.Number.String(), r.SortOrder); err != nil {
			return fmt.Errorf("insert placement %s: %w", r.Year, err)
		}
	}
	return nil
}

func seedPartners(ctx context.Context, tx *sql.Tx, lists []PartnerList) error {
	for _, l := range lists {
		if _, err := tx.ExecContext(ctx, `INSERT INTO iiic_partners (list_name) VALUES (?)`, l.ListName); err != nil {
			return fmt.Errorf("insert partner list %s: %w", l.ListName, err)
		}
		for i, name := range l.Partners {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO iiic_partner_names (list_name, position, name) VALUES (?, ?, ?)`,
				l.ListName, i, name); err != nil {
				return fmt.Errorf("insert partner %s/%d: %w", l.ListName, i, err)
			}
		}
	}
	return nil
}
