package engine

import "math"

// Record is a raw measurement row before validation. A nil value represents
// a null (JSON null or a blank cell in an imported file).
type Record map[string]*float64

// RecordFromValues builds a Record from plain values.
func RecordFromValues(values map[string]float64) Record {
	r := make(Record, len(values))
	for name := range values {
		v := values[name]
		r[name] = &v
	}
	return r
}

// FeatureVector is a validated record: exactly the schema's features, all
// values non-negative.
type FeatureVector map[string]float64

// Record converts a vector back into raw record form.
func (v FeatureVector) Record() Record {
	r := make(Record, len(v))
	for name := range v {
		val := v[name]
		r[name] = &val
	}
	return r
}

// Validate checks a raw record against the schema and the biological
// constraints, in order: every schema feature present, no null values, no
// negative values. Fields outside the schema are dropped. The returned
// vector holds exactly the schema's features.
func (e *Engine) Validate(rec Record) (FeatureVector, error) {
	var missing []string
	for _, name := range e.reg.features {
		if _, ok := rec[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Kind: MissingFeatures, Fields: missing}
	}

	var nulls []string
	for _, name := range e.reg.features {
		if v := rec[name]; v == nil || math.IsNaN(*v) {
			nulls = append(nulls, name)
		}
	}
	if len(nulls) > 0 {
		return nil, &ValidationError{Kind: NullValues, Fields: nulls}
	}

	var negative []string
	for _, name := range e.reg.features {
		if *rec[name] < 0 {
			negative = append(negative, name)
		}
	}
	if len(negative) > 0 {
		return nil, &ValidationError{Kind: NegativeValues, Fields: negative}
	}

	vec := make(FeatureVector, len(e.reg.features))
	for _, name := range e.reg.features {
		vec[name] = *rec[name]
	}
	return vec, nil
}

// vectorize projects a validated vector into schema order.
func (e *Engine) vectorize(v FeatureVector) []float64 {
	x := make([]float64, len(e.reg.features))
	for i, name := range e.reg.features {
		x[i] = v[name]
	}
	return x
}
