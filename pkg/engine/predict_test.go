package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredict_Deterministic(t *testing.T) {
	e := newTestEngine(t, map[string]Scorer{
		TargetHealthIndex:     meanScorer(),
		TargetMutationRisk:    meanScorer(),
		TargetAdaptationScore: meanScorer(),
	})

	v, err := e.Validate(testRecord())
	require.NoError(t, err)

	p1, err := e.Predict(v)
	require.NoError(t, err)
	p2, err := e.Predict(v)
	require.NoError(t, err)
	assert.Equal(t, p1, p2)
}

func TestPredict_ConfidenceIsStaticR2(t *testing.T) {
	e := newTestEngine(t, map[string]Scorer{
		TargetHealthIndex:     meanScorer(),
		TargetMutationRisk:    meanScorer(),
		TargetAdaptationScore: meanScorer(),
	})

	v1, err := e.Validate(testRecord())
	require.NoError(t, err)

	rec := testRecord()
	big := 1000.0
	rec["temperature"] = &big
	v2, err := e.Validate(rec)
	require.NoError(t, err)

	p1, err := e.Predict(v1)
	require.NoError(t, err)
	p2, err := e.Predict(v2)
	require.NoError(t, err)

	// confidence is invariant across inputs: always the training R²
	assert.Equal(t, p1.Confidence, p2.Confidence)
	assert.InDelta(t, 0.87, p1.Confidence[TargetHealthIndex], 1e-9)
	assert.InDelta(t, 0.81, p1.Confidence[TargetMutationRisk], 1e-9)
	assert.InDelta(t, 0.79, p1.Confidence[TargetAdaptationScore], 1e-9)
}

func TestPredict_ConfidenceNotClamped(t *testing.T) {
	meta := testMetadata()
	m := meta[TargetAdaptationScore]
	m.R2Score = -0.12
	meta[TargetAdaptationScore] = m

	reg, err := NewRegistry(testFeatures, testScorers(), meta)
	require.NoError(t, err)
	e, err := New(reg)
	require.NoError(t, err)

	v, err := e.Validate(testRecord())
	require.NoError(t, err)
	p, err := e.Predict(v)
	require.NoError(t, err)
	assert.InDelta(t, -0.12, p.Confidence[TargetAdaptationScore], 1e-9)
}

func TestPredict_ScorerError(t *testing.T) {
	scorers := testScorers()
	scorers[TargetMutationRisk] = ScoreFunc(func([]float64) (float64, error) {
		return 0, errors.New("shape mismatch")
	})
	e := newTestEngine(t, scorers)

	v, err := e.Validate(testRecord())
	require.NoError(t, err)

	_, err = e.Predict(v)
	require.ErrorIs(t, err, ErrScoring)
	assert.Contains(t, err.Error(), TargetMutationRisk)
}

func TestPredict_ScorerPanicRecovered(t *testing.T) {
	scorers := testScorers()
	scorers[TargetHealthIndex] = ScoreFunc(func([]float64) (float64, error) {
		panic("index out of range")
	})
	e := newTestEngine(t, scorers)

	v, err := e.Validate(testRecord())
	require.NoError(t, err)

	_, err = e.Predict(v)
	require.ErrorIs(t, err, ErrScoring)
	assert.Contains(t, err.Error(), "index out of range")
}
