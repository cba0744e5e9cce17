package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/plantsage/internal/db"
	"github.com/vbonduro/plantsage/internal/domain"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, database.Close()) })
	return database
}

func testAnalysis(id string, kind string, at time.Time) *domain.Analysis {
	return &domain.Analysis{
		ID:        id,
		Kind:      kind,
		ImageKey:  "nutrient_123.jpg",
		Result:    json.RawMessage(`{"healthScore":45,"deficiencies":["Nitrogen"]}`),
		CreatedAt: at,
	}
}

func TestAnalysisStoreAppendAndGet(t *testing.T) {
	s := NewAnalysisStore(openTestDB(t))
	ctx := context.Background()

	want := testAnalysis("a1", "nutrient", time.Now().UTC().Truncate(time.Second))
	require.NoError(t, s.Append(ctx, want))

	got, err := s.GetByID(ctx, "a1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "a1", got.ID)
	assert.Equal(t, "nutrient", got.Kind)
	assert.Equal(t, "nutrient_123.jpg", got.ImageKey)
	assert.JSONEq(t, string(want.Result), string(got.Result))
}

func TestAnalysisStoreGetMissing(t *testing.T) {
	s := NewAnalysisStore(openTestDB(t))

	got, err := s.GetByID(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestAnalysisStoreListNewestFirst(t *testing.T) {
	s := NewAnalysisStore(openTestDB(t))
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, s.Append(ctx, testAnalysis("old", "soil", base.Add(-time.Hour))))
	require.NoError(t, s.Append(ctx, testAnalysis("new", "disease", base)))

	list, err := s.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].ID)
	assert.Equal(t, "old", list[1].ID)
}

func TestAnalysisStoreListLimit(t *testing.T) {
	s := NewAnalysisStore(openTestDB(t))
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.Append(ctx, testAnalysis(id, "seed", base.Add(time.Duration(i)*time.Minute))))
	}

	list, err := s.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestAnalysisStoreListEmpty(t *testing.T) {
	s := NewAnalysisStore(openTestDB(t))

	list, err := s.List(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestAnalysisStoreDelete(t *testing.T) {
	s := NewAnalysisStore(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, testAnalysis("a1", "weather", time.Now().UTC())))
	require.NoError(t, s.Delete(ctx, "a1"))

	got, err := s.GetByID(ctx, "a1")
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.Error(t, s.Delete(ctx, "a1"))
}
