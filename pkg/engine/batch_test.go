package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeBatch(t *testing.T) {
	e := newTestEngine(t, nil)

	records := make([]Record, 20)
	for i := range records {
		records[i] = testRecord()
	}

	results, err := e.AnalyzeBatch(context.Background(), records)
	require.NoError(t, err)
	require.Len(t, results, len(records))
	for i, res := range results {
		assert.Equal(t, i, res.Index)
		assert.Empty(t, res.Error)
		require.NotNil(t, res.Analysis)
		assert.InDelta(t, 0.9, res.Analysis.Predictions[TargetHealthIndex], 1e-9)
	}
}

func TestAnalyzeBatch_IsolatesRecordErrors(t *testing.T) {
	e := newTestEngine(t, nil)

	bad := testRecord()
	delete(bad, "temperature")
	records := []Record{testRecord(), bad, testRecord()}

	results, err := e.AnalyzeBatch(context.Background(), records)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.NotNil(t, results[0].Analysis)
	assert.Nil(t, results[1].Analysis)
	assert.Contains(t, results[1].Error, "temperature")
	assert.NotNil(t, results[2].Analysis)
}

func TestAnalyzeBatch_Empty(t *testing.T) {
	e := newTestEngine(t, nil)

	results, err := e.AnalyzeBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestAnalyzeBatch_CanceledContext(t *testing.T) {
	e := newTestEngine(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	records := make([]Record, 100)
	for i := range records {
		records[i] = testRecord()
	}

	_, err := e.AnalyzeBatch(ctx, records)
	require.ErrorIs(t, err, context.Canceled)
}
