package engine

import "fmt"

// Prediction holds one scored record: a scalar per target plus the static
// per-target confidence. Confidence is the target's historical R² from
// training, identical for every call: a global model quality indicator, not
// a per-instance uncertainty estimate.
type Prediction struct {
	Predictions map[string]float64 `json:"predictions" yaml:"predictions"`
	Confidence  map[string]float64 `json:"confidence" yaml:"confidence"`
}

// Predict scores a validated vector with all three models.
func (e *Engine) Predict(v FeatureVector) (*Prediction, error) {
	x := e.vectorize(v)

	p := &Prediction{
		Predictions: make(map[string]float64, len(e.reg.scorers)),
		Confidence:  make(map[string]float64, len(e.reg.scorers)),
	}
	for _, target := range Targets() {
		val, err := e.score(target, x)
		if err != nil {
			return nil, err
		}
		p.Predictions[target] = val
		p.Confidence[target] = e.reg.meta[target].R2Score
	}
	return p, nil
}

// score invokes one scoring function, converting panics and failures inside
// it into an ErrScoring so a misbehaving model never takes down the caller.
func (e *Engine) score(target string, x []float64) (val float64, err error) {
	s, ok := e.reg.scorers[target]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownTarget, target)
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: %v", ErrScoring, target, r)
		}
	}()

	val, err = s.Score(x)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrScoring, target, err)
	}
	return val, nil
}
