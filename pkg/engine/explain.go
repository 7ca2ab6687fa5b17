package engine

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const topFeatureCount = 3

// ImportanceEntry is one feature's contribution to a target, tiered by the
// training-time importance thresholds.
type ImportanceEntry struct {
	Feature    string  `json:"feature" yaml:"feature"`
	Value      float64 `json:"value" yaml:"value"`
	Importance float64 `json:"importance" yaml:"importance"`
	Impact     string  `json:"impact" yaml:"impact"`
}

// Explanation is the tiered explanation bundle for one prediction.
type Explanation struct {
	HealthIndex     []ImportanceEntry `json:"health_index" yaml:"health_index"`
	MutationRisk    []ImportanceEntry `json:"mutation_risk" yaml:"mutation_risk"`
	AdaptationScore []ImportanceEntry `json:"adaptation_score" yaml:"adaptation_score"`
	Summary         string            `json:"summary" yaml:"summary"`
}

// impactBands map importance shares to impact tiers. The tier is a pure
// function of this table, never recomputed from instance data.
var impactBands = []struct {
	min   float64
	label string
}{
	{min: 0.15, label: "high"},
	{min: 0.08, label: "moderate"},
}

const impactLow = "low"

func impactFor(importance float64) string {
	for _, b := range impactBands {
		if importance > b.min {
			return b.label
		}
	}
	return impactLow
}

// statusScale classifies a predicted value into a named status bucket.
// Bands are checked in order; the first match wins.
type statusScale struct {
	lessThan bool
	bands    []statusBand
	fallback string
}

type statusBand struct {
	bound float64
	label string
}

func (s statusScale) classify(v float64) string {
	for _, b := range s.bands {
		if s.lessThan {
			if v < b.bound {
				return b.label
			}
		} else if v > b.bound {
			return b.label
		}
	}
	return s.fallback
}

var statusScales = map[string]statusScale{
	TargetHealthIndex: {
		bands:    []statusBand{{0.85, "excellent"}, {0.70, "good"}, {0.55, "moderate"}},
		fallback: "concerning",
	},
	TargetMutationRisk: {
		lessThan: true,
		bands:    []statusBand{{0.15, "low"}, {0.30, "moderate"}, {0.45, "elevated"}},
		fallback: "high",
	},
	TargetAdaptationScore: {
		bands:    []statusBand{{0.80, "high"}, {0.60, "moderate"}},
		fallback: "low",
	},
}

// Explain converts a prediction and the instance's values into the tiered
// explanation bundle: the top features per target (by the static
// training-time ranking) and a natural-language summary.
func (e *Engine) Explain(v FeatureVector, p *Prediction) (*Explanation, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: no predictions", ErrUnknownTarget)
	}
	for _, target := range Targets() {
		if _, ok := p.Predictions[target]; !ok {
			return nil, fmt.Errorf("%w: predictions missing %s", ErrUnknownTarget, target)
		}
	}

	entries := make(map[string][]ImportanceEntry, len(Targets()))
	for _, target := range Targets() {
		top := e.reg.meta[target].TopFeatures
		if len(top) > topFeatureCount {
			top = top[:topFeatureCount]
		}
		list := make([]ImportanceEntry, 0, len(top))
		for _, f := range top {
			list = append(list, ImportanceEntry{
				Feature:    humanizeFeature(f.Name),
				Value:      v[f.Name],
				Importance: f.Importance,
				Impact:     impactFor(f.Importance),
			})
		}
		entries[target] = list
	}

	health := p.Predictions[TargetHealthIndex]
	risk := p.Predictions[TargetMutationRisk]
	adaptation := p.Predictions[TargetAdaptationScore]

	summary := fmt.Sprintf(
		"The biological system shows %s health (index: %.2f) with %s mutation risk (%.2f) and %s adaptation capability (%.2f). ",
		statusScales[TargetHealthIndex].classify(health), health,
		statusScales[TargetMutationRisk].classify(risk), risk,
		statusScales[TargetAdaptationScore].classify(adaptation), adaptation,
	)
	summary += fmt.Sprintf(
		"Primary health driver: %s. Main risk factor: %s.",
		entries[TargetHealthIndex][0].Feature,
		entries[TargetMutationRisk][0].Feature,
	)

	return &Explanation{
		HealthIndex:     entries[TargetHealthIndex],
		MutationRisk:    entries[TargetMutationRisk],
		AdaptationScore: entries[TargetAdaptationScore],
		Summary:         summary,
	}, nil
}

// humanizeFeature turns a token name like gene_expr_level into a readable
// phrase like "Gene Expr Level".
func humanizeFeature(name string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(name, "_", " "))
}

// ModelPerformance is the training-time fit of one model.
type ModelPerformance struct {
	R2Score float64 `json:"r2_score" yaml:"r2_score"`
	MSE     float64 `json:"mse" yaml:"mse"`
}

// ModelDescription is the model card for one target.
type ModelDescription struct {
	Target             string              `json:"target" yaml:"target"`
	Description        string              `json:"description" yaml:"description"`
	Performance        ModelPerformance    `json:"performance" yaml:"performance"`
	FeatureImportances []FeatureImportance `json:"feature_importances" yaml:"feature_importances"`
	Interpretation     string              `json:"interpretation" yaml:"interpretation"`
}

// Describe returns the model card for one target.
func (e *Engine) Describe(target string) (*ModelDescription, error) {
	m, err := e.reg.Metadata(target)
	if err != nil {
		return nil, err
	}
	return &ModelDescription{
		Target:             target,
		Description:        m.Description,
		Performance:        ModelPerformance{R2Score: m.R2Score, MSE: m.MSE},
		FeatureImportances: m.TopFeatures,
		Interpretation:     fmt.Sprintf("This model predicts %s with %.1f%% accuracy.", m.Description, m.R2Score*100),
	}, nil
}
