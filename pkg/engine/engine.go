// Package engine implements the inference and explanation core: record
// validation against the trained feature schema, prediction dispatch across
// the three regression targets, explanation synthesis from training-time
// feature importances, and what-if parameter sweeps.
//
// All operations are pure, synchronous functions of their inputs plus the
// immutable Registry, so an Engine is safe for concurrent use.
package engine

import "errors"

// Disclaimer accompanies every analysis result.
const Disclaimer = "These are model predictions for research purposes only. Not medical advice."

// Engine applies the registry's scoring functions and metadata to
// measurement records.
type Engine struct {
	reg *Registry
}

func New(reg *Registry) (*Engine, error) {
	if reg == nil {
		return nil, errors.New("registry is required")
	}
	return &Engine{reg: reg}, nil
}

func (e *Engine) Registry() *Registry {
	return e.reg
}

// Analysis is the full scoring result for one record.
type Analysis struct {
	Predictions   map[string]float64 `json:"predictions" yaml:"predictions"`
	Confidence    map[string]float64 `json:"confidence" yaml:"confidence"`
	Explanation   *Explanation       `json:"explanation" yaml:"explanation"`
	InputFeatures FeatureVector      `json:"input_features" yaml:"input_features"`
	Disclaimer    string             `json:"disclaimer" yaml:"disclaimer"`
}

// Analyze validates, predicts, and explains one raw record.
func (e *Engine) Analyze(rec Record) (*Analysis, error) {
	v, err := e.Validate(rec)
	if err != nil {
		return nil, err
	}

	p, err := e.Predict(v)
	if err != nil {
		return nil, err
	}

	x, err := e.Explain(v, p)
	if err != nil {
		return nil, err
	}

	return &Analysis{
		Predictions:   p.Predictions,
		Confidence:    p.Confidence,
		Explanation:   x,
		InputFeatures: v,
		Disclaimer:    Disclaimer,
	}, nil
}
