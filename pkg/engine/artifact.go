package engine

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/biosentience/bioctl/pkg/forest"
)

// Artifact mirrors the JSON file written by the training pipeline: the
// feature schema, plus metadata and a serialized regression forest per
// target.
type Artifact struct {
	TrainingDate string                   `json:"training_date"`
	DatasetSize  int                      `json:"dataset_size"`
	Features     []string                 `json:"features"`
	Models       map[string]ArtifactModel `json:"models"`
}

// ArtifactModel is one trained model inside the artifact.
type ArtifactModel struct {
	Description string              `json:"description"`
	R2Score     float64             `json:"r2_score"`
	MSE         float64             `json:"mse"`
	TopFeatures []FeatureImportance `json:"top_features"`
	Forest      *forest.Forest      `json:"forest"`
}

// LoadRegistry reads a training artifact from disk and builds the immutable
// registry from it. This is the one unrecoverable-at-runtime step; it runs
// once at process start.
func LoadRegistry(path string) (*Registry, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model artifact %s: %w", path, err)
	}

	var a Artifact
	if err := json.Unmarshal(b, &a); err != nil {
		return nil, fmt.Errorf("parsing model artifact %s: %w", path, err)
	}

	return a.Registry()
}

// Registry builds the registry from an already-parsed artifact.
func (a *Artifact) Registry() (*Registry, error) {
	scorers := make(map[string]Scorer, len(a.Models))
	meta := make(map[string]ModelMetadata, len(a.Models))

	for _, target := range Targets() {
		m, ok := a.Models[target]
		if !ok {
			return nil, fmt.Errorf("artifact has no model for target: %s", target)
		}
		if m.Forest == nil {
			return nil, fmt.Errorf("artifact model %s has no forest", target)
		}
		if m.Forest.NumFeatures != 0 && m.Forest.NumFeatures != len(a.Features) {
			return nil, fmt.Errorf("artifact model %s expects %d features, schema has %d",
				target, m.Forest.NumFeatures, len(a.Features))
		}
		scorers[target] = m.Forest
		meta[target] = ModelMetadata{
			Description: m.Description,
			R2Score:     m.R2Score,
			MSE:         m.MSE,
			TopFeatures: m.TopFeatures,
		}
	}

	return NewRegistry(a.Features, scorers, meta)
}
