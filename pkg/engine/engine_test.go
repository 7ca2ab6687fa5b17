package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

var testFeatures = []string{
	"gene_expr_level",
	"cell_density",
	"protein_synth_rate",
	"temperature",
	"ph_level",
}

func testImportances(first string) []FeatureImportance {
	list := []FeatureImportance{
		{Name: first, Importance: 0.35},
		{Name: "cell_density", Importance: 0.25},
		{Name: "protein_synth_rate", Importance: 0.20},
		{Name: "temperature", Importance: 0.12},
		{Name: "ph_level", Importance: 0.08},
	}
	if first != "gene_expr_level" {
		// keep the list covering distinct features
		for i := 1; i < len(list); i++ {
			if list[i].Name == first {
				list[i].Name = "gene_expr_level"
			}
		}
	}
	return list
}

func testMetadata() map[string]ModelMetadata {
	return map[string]ModelMetadata{
		TargetHealthIndex: {
			Description: "Health Index (overall biological wellness)",
			R2Score:     0.87,
			MSE:         0.004,
			TopFeatures: testImportances("gene_expr_level"),
		},
		TargetMutationRisk: {
			Description: "Mutation Risk (genetic instability probability)",
			R2Score:     0.81,
			MSE:         0.006,
			TopFeatures: testImportances("temperature"),
		},
		TargetAdaptationScore: {
			Description: "Adaptation Score (environmental resilience)",
			R2Score:     0.79,
			MSE:         0.008,
			TopFeatures: testImportances("cell_density"),
		},
	}
}

func constScorer(v float64) Scorer {
	return ScoreFunc(func([]float64) (float64, error) { return v, nil })
}

func meanScorer() Scorer {
	return ScoreFunc(func(x []float64) (float64, error) {
		sum := 0.0
		for _, v := range x {
			sum += v
		}
		return sum / float64(len(x)), nil
	})
}

func testScorers() map[string]Scorer {
	return map[string]Scorer{
		TargetHealthIndex:     constScorer(0.9),
		TargetMutationRisk:    constScorer(0.1),
		TargetAdaptationScore: constScorer(0.85),
	}
}

func newTestEngine(t *testing.T, scorers map[string]Scorer) *Engine {
	t.Helper()
	if scorers == nil {
		scorers = testScorers()
	}
	reg, err := NewRegistry(testFeatures, scorers, testMetadata())
	require.NoError(t, err)
	e, err := New(reg)
	require.NoError(t, err)
	return e
}

func testRecord() Record {
	return RecordFromValues(map[string]float64{
		"gene_expr_level":    0.8,
		"cell_density":       0.6,
		"protein_synth_rate": 0.7,
		"temperature":        37.0,
		"ph_level":           7.2,
	})
}

func TestNew_NilRegistry(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)
}

func TestAnalyze(t *testing.T) {
	e := newTestEngine(t, nil)

	a, err := e.Analyze(testRecord())
	require.NoError(t, err)
	require.InDelta(t, 0.9, a.Predictions[TargetHealthIndex], 1e-9)
	require.InDelta(t, 0.87, a.Confidence[TargetHealthIndex], 1e-9)
	require.NotNil(t, a.Explanation)
	require.Len(t, a.InputFeatures, len(testFeatures))
	require.Equal(t, Disclaimer, a.Disclaimer)
}

func TestAnalyze_InvalidRecord(t *testing.T) {
	e := newTestEngine(t, nil)

	_, err := e.Analyze(Record{})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, MissingFeatures, verr.Kind)
}

func TestIsRecoverable(t *testing.T) {
	require.True(t, IsRecoverable(&ValidationError{Kind: NullValues}))
	require.True(t, IsRecoverable(ErrUnknownTarget))
	require.True(t, IsRecoverable(ErrMissingParameters))
	require.True(t, IsRecoverable(ErrBadStepCount))
	require.False(t, IsRecoverable(ErrScoring))
	require.False(t, IsRecoverable(errors.New("boom")))
}
