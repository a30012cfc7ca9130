package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// InitSchema creates the tables mirroring the five document collections.
// Nested arrays (fees, ranks, partners) live in child tables ordered by position.
func InitSchema(ctx context.Context, db *sql.DB) error {
	steps := []struct {
		name  string
		query string
	}{
		{"engineering_courses", `
		CREATE TABLE IF NOT EXISTS engineering_courses (
			alias TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			focus TEXT NOT NULL DEFAULT '',
			type TEXT NOT NULL DEFAULT '',
			accreditation TEXT NOT NULL DEFAULT '',
			nirf_rank TEXT NOT NULL DEFAULT ''
		);`},
		{"hostel_fees", `
		CREATE TABLE IF NOT EXISTS hostel_fees (
			gender TEXT PRIMARY KEY
		);
		CREATE TABLE IF NOT EXISTS hostel_fee_options (
			gender TEXT NOT NULL REFERENCES hostel_fees(gender) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			alias TEXT NOT NULL,
			type TEXT NOT NULL,
			annual_fee TEXT NOT NULL,
			facilities_fee TEXT NOT NULL,
			note TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (gender, position)
		);`},
		{"scholarship_ranks", `
		CREATE TABLE IF NOT EXISTS scholarship_ranks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			exam TEXT NOT NULL UNIQUE
		);
		CREATE TABLE IF NOT EXISTS scholarship_brackets (
			policy_id INTEGER NOT NULL REFERENCES scholarship_ranks(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			band TEXT NOT NULL DEFAULT '',
			eapcet_band TEXT NOT NULL DEFAULT '',
			jee_band TEXT NOT NULL DEFAULT '',
			concession TEXT NOT NULL,
			value TEXT NOT NULL,
			PRIMARY KEY (policy_id, position)
		);`},
		{"placement_records", `
		CREATE TABLE IF NOT EXISTS placement_records (
			year TEXT PRIMARY KEY,
			number TEXT NOT NULL,
			sort_order INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_placement_sort_order ON placement_records(sort_order);`},
		{"iiic_partners", `
		CREATE TABLE IF NOT EXISTS iiic_partners (
			list_name TEXT PRIMARY KEY
		);
		CREATE TABLE IF NOT EXISTS iiic_partner_names (
			list_name TEXT NOT NULL REFERENCES iiic_partners(list_name) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			PRIMARY KEY (list_name, position)
		);`},
	}

	for _, s := range steps {
		if _, err := db.ExecContext(ctx, s.query); err != nil {
			return fmt.Errorf("failed to create %s tables: %w", s.name, err)
		}
	}
	return nil
}
