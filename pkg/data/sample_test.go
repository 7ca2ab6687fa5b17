package data

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 {
	return &v
}

func testRows() []Features {
	return []Features{
		{"gene_expr_level": ptr(0.8), "temperature": ptr(37.0)},
		{"gene_expr_level": ptr(0.6), "temperature": nil},
	}
}

func TestSaveSamples(t *testing.T) {
	db := setupTestDB(t)

	saved, err := SaveSamples(db, uuid.NewString(), "rows.csv", testRows())
	require.NoError(t, err)
	assert.Equal(t, 2, saved)

	count, err := CountSamples(db)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestSaveSamples_NilDB(t *testing.T) {
	_, err := SaveSamples(nil, uuid.NewString(), "rows.csv", testRows())
	assert.Error(t, err)
}

func TestSaveSamples_EmptyBatchID(t *testing.T) {
	db := setupTestDB(t)
	_, err := SaveSamples(db, "", "rows.csv", testRows())
	assert.Error(t, err)
}

func TestGetSample(t *testing.T) {
	db := setupTestDB(t)
	batch := uuid.NewString()
	_, err := SaveSamples(db, batch, "rows.csv", testRows())
	require.NoError(t, err)

	s, err := GetSample(db, 1)
	require.NoError(t, err)
	assert.Equal(t, batch, s.BatchID)
	assert.Equal(t, "rows.csv", s.Source)
	require.Contains(t, s.Features, "gene_expr_level")
	assert.InDelta(t, 0.8, *s.Features["gene_expr_level"], 1e-9)

	// null cells round-trip as nil
	s2, err := GetSample(db, 2)
	require.NoError(t, err)
	require.Contains(t, s2.Features, "temperature")
	assert.Nil(t, s2.Features["temperature"])
}

func TestGetSample_NotFound(t *testing.T) {
	db := setupTestDB(t)
	_, err := GetSample(db, 42)
	require.ErrorIs(t, err, ErrSampleNotFound)
}

func TestGetFirstSample(t *testing.T) {
	db := setupTestDB(t)
	_, err := SaveSamples(db, uuid.NewString(), "rows.csv", testRows())
	require.NoError(t, err)

	s, err := GetFirstSample(db)
	require.NoError(t, err)
	assert.EqualValues(t, 1, s.ID)
}

func TestGetFirstSample_Empty(t *testing.T) {
	db := setupTestDB(t)
	_, err := GetFirstSample(db)
	require.ErrorIs(t, err, ErrSampleNotFound)
}

func TestListSamples(t *testing.T) {
	db := setupTestDB(t)
	_, err := SaveSamples(db, uuid.NewString(), "rows.csv", testRows())
	require.NoError(t, err)

	list, err := ListSamples(db, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.EqualValues(t, 1, list[0].ID)
	assert.EqualValues(t, 2, list[1].ID)

	list, err = ListSamples(db, 1)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCountSamples_Empty(t *testing.T) {
	db := setupTestDB(t)
	count, err := CountSamples(db)
	require.NoError(t, err)
	assert.Zero(t, count)
}
