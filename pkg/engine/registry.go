package engine

import (
	"errors"
	"fmt"
)

const (
	TargetHealthIndex     = "health_index"
	TargetMutationRisk    = "mutation_risk"
	TargetAdaptationScore = "adaptation_score"
)

// Targets returns the three predicted quantities in canonical order.
func Targets() []string {
	return []string{TargetHealthIndex, TargetMutationRisk, TargetAdaptationScore}
}

// Scorer maps a schema-ordered feature vector to a single predicted value.
// Implementations must be safe for concurrent use.
type Scorer interface {
	Score(x []float64) (float64, error)
}

// ScoreFunc adapts a plain function to the Scorer interface.
type ScoreFunc func(x []float64) (float64, error)

func (f ScoreFunc) Score(x []float64) (float64, error) {
	return f(x)
}

// FeatureImportance is one entry of a model's training-time importance ranking.
type FeatureImportance struct {
	Name       string  `json:"name" yaml:"name"`
	Importance float64 `json:"importance" yaml:"importance"`
}

// ModelMetadata describes one trained model: what it predicts, how well it
// performed at training time, and which features drove it.
type ModelMetadata struct {
	Description string              `json:"description" yaml:"description"`
	R2Score     float64             `json:"r2_score" yaml:"r2_score"`
	MSE         float64             `json:"mse" yaml:"mse"`
	TopFeatures []FeatureImportance `json:"top_features" yaml:"top_features"`
}

// Registry is the process-wide holder of the feature schema, the per-target
// scoring functions, and the per-target training metadata. It is built once
// at startup and read-only after that, so it may be shared across goroutines
// without locking.
type Registry struct {
	features []string
	index    map[string]int
	scorers  map[string]Scorer
	meta     map[string]ModelMetadata
}

// NewRegistry validates and freezes the artifacts handed over by the
// training collaborator. Every target must have both a scorer and metadata,
// and each metadata's top_features must already be sorted by importance
// descending.
func NewRegistry(features []string, scorers map[string]Scorer, meta map[string]ModelMetadata) (*Registry, error) {
	if len(features) == 0 {
		return nil, errors.New("feature schema is empty")
	}

	index := make(map[string]int, len(features))
	for i, name := range features {
		if name == "" {
			return nil, fmt.Errorf("feature schema contains an empty name at position %d", i)
		}
		if _, ok := index[name]; ok {
			return nil, fmt.Errorf("feature schema contains duplicate name: %s", name)
		}
		index[name] = i
	}

	for _, target := range Targets() {
		if scorers[target] == nil {
			return nil, fmt.Errorf("no scorer for target: %s", target)
		}
		m, ok := meta[target]
		if !ok {
			return nil, fmt.Errorf("no metadata for target: %s", target)
		}
		if len(m.TopFeatures) == 0 {
			return nil, fmt.Errorf("metadata for %s has no feature importances", target)
		}
		for i, f := range m.TopFeatures {
			if i > 0 && f.Importance > m.TopFeatures[i-1].Importance {
				return nil, fmt.Errorf("feature importances for %s are not sorted descending", target)
			}
			if _, ok := index[f.Name]; !ok {
				return nil, fmt.Errorf("metadata for %s references unknown feature: %s", target, f.Name)
			}
		}
	}

	r := &Registry{
		features: append([]string(nil), features...),
		index:    index,
		scorers:  make(map[string]Scorer, len(Targets())),
		meta:     make(map[string]ModelMetadata, len(Targets())),
	}
	for _, target := range Targets() {
		r.scorers[target] = scorers[target]
		m := meta[target]
		m.TopFeatures = append([]FeatureImportance(nil), m.TopFeatures...)
		r.meta[target] = m
	}
	return r, nil
}

// Features returns a copy of the ordered feature schema.
func (r *Registry) Features() []string {
	return append([]string(nil), r.features...)
}

func (r *Registry) NumFeatures() int {
	return len(r.features)
}

// HasFeature reports whether name is part of the schema.
func (r *Registry) HasFeature(name string) bool {
	_, ok := r.index[name]
	return ok
}

// Metadata returns the training metadata for a target.
func (r *Registry) Metadata(target string) (ModelMetadata, error) {
	m, ok := r.meta[target]
	if !ok {
		return ModelMetadata{}, fmt.Errorf("%w: %s", ErrUnknownTarget, target)
	}
	m.TopFeatures = append([]FeatureImportance(nil), m.TopFeatures...)
	return m, nil
}
