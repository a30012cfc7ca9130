package storage

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestMongoStore_Integration runs against a real server when AU_TEST_MONGO_URI is set.
func TestMongoStore_Integration(t *testing.T) {
	uri := os.Getenv("AU_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("AU_TEST_MONGO_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := NewMongoStore(ctx, MongoOptions{URI: uri, Database: "university_db", Timeout: 5 * time.Second})
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	latest, err := store.GetLatestPlacement(ctx)
	require.NoError(t, err)
	if latest != nil {
		require.NotEmpty(t, latest.Year)
	}

	missing, err := store.GetCourseByAlias(ctx, "no-such-alias")
	require.NoError(t, err)
	require.Nil(t, missing)
}
