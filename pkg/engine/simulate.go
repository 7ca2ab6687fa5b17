package engine

import (
	"encoding/json"
	"fmt"
)

const (
	// SimulationStepsDefault is the step count used when a caller does not
	// specify one.
	SimulationStepsDefault = 10

	// VariationRangeDefault sweeps ±30% around the base value.
	VariationRangeDefault = 0.3
)

// SimulationStep is one point on a trajectory: the perturbed value of the
// varied feature and the resulting prediction per target.
type SimulationStep struct {
	Step        int
	Feature     string
	Value       float64
	Predictions map[string]float64
}

// stepWire flattens a step into its wire shape:
// {"step": i, "<feature>": value, "health_index": ..., ...}.
func (s SimulationStep) stepWire() map[string]any {
	m := make(map[string]any, len(s.Predictions)+2)
	m["step"] = s.Step
	m[s.Feature] = s.Value
	for target, v := range s.Predictions {
		m[target] = v
	}
	return m
}

func (s SimulationStep) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.stepWire())
}

func (s SimulationStep) MarshalYAML() (any, error) {
	return s.stepWire(), nil
}

// Simulation is the result of sweeping one feature across a range.
type Simulation struct {
	Trajectory     []SimulationStep `json:"trajectory" yaml:"trajectory"`
	VariedFeature  string           `json:"varied_feature" yaml:"varied_feature"`
	BaseValue      float64          `json:"base_value" yaml:"base_value"`
	VariationRange float64          `json:"variation_range" yaml:"variation_range"`
	Steps          int              `json:"steps" yaml:"steps"`
}

// Simulate sweeps one feature linearly across [1-range, 1+range] times its
// base value, re-validating and re-scoring the record at each step. With a
// single step the factor is 1.0 (unchanged value). A step whose perturbed
// value fails validation aborts the whole trajectory; the error names the
// step.
func (e *Engine) Simulate(rec Record, feature string, steps int, variationRange float64) (*Simulation, error) {
	if len(rec) == 0 || feature == "" {
		return nil, ErrMissingParameters
	}
	if !e.reg.HasFeature(feature) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFeature, feature)
	}
	if steps < 1 {
		return nil, fmt.Errorf("%w: %d", ErrBadStepCount, steps)
	}

	base, err := e.Validate(rec)
	if err != nil {
		return nil, err
	}
	baseValue := base[feature]

	trajectory := make([]SimulationStep, 0, steps)
	for i := 0; i < steps; i++ {
		factor := 1.0
		if steps > 1 {
			factor = 1 - variationRange + 2*variationRange*float64(i)/float64(steps-1)
		}
		value := baseValue * factor

		modified := make(FeatureVector, len(base))
		for name, v := range base {
			modified[name] = v
		}
		modified[feature] = value

		v, err := e.Validate(modified.Record())
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		p, err := e.Predict(v)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}

		trajectory = append(trajectory, SimulationStep{
			Step:        i,
			Feature:     feature,
			Value:       value,
			Predictions: p.Predictions,
		})
	}

	return &Simulation{
		Trajectory:     trajectory,
		VariedFeature:  feature,
		BaseValue:      baseValue,
		VariationRange: variationRange,
		Steps:          steps,
	}, nil
}
