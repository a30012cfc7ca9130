package storage

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed sample_fixture.json
var sampleFixture []byte

// SampleFixture returns the bundled sample data set. It seeds empty local
// SQLite stores and backs handler tests.
func SampleFixture() (*Fixture, error) {
	var f Fixture
	if err := json.Unmarshal(sampleFixture, &f); err != nil {
		return nil, fmt.Errorf("decode sample fixture: %w", err)
	}
	return &f, nil
}

// NewSampleDB creates an in-memory database seeded with SampleFixture.
func NewSampleDB() (*DB, error) {
	db, err := NewTestDB()
	if err != nil {
		return nil, err
	}
	f, err := SampleFixture()
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := db.Seed(context.Background(), f); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
