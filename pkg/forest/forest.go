// Package forest evaluates serialized regression-tree ensembles exported by
// the training pipeline. Evaluation only: trees are never grown or modified
// here, so a Forest is safe for concurrent use.
package forest

import (
	"errors"
	"fmt"
)

// Node is one flattened decision-tree node. Internal nodes route on
// x[Feature] <= Threshold; leaves have Left < 0 and carry the prediction in
// Value.
type Node struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Value     float64 `json:"value"`
}

// Tree is a flattened decision tree. Node 0 is the root.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// Predict walks the tree from the root to a leaf.
func (t *Tree) Predict(x []float64) (float64, error) {
	if len(t.Nodes) == 0 {
		return 0, errors.New("tree has no nodes")
	}

	i := 0
	for hops := 0; hops < len(t.Nodes); hops++ {
		n := t.Nodes[i]
		if n.Left < 0 {
			return n.Value, nil
		}
		if n.Feature < 0 || n.Feature >= len(x) {
			return 0, fmt.Errorf("node %d: feature index %d out of range for %d features", i, n.Feature, len(x))
		}
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
		if i < 0 || i >= len(t.Nodes) {
			return 0, fmt.Errorf("node index %d out of range", i)
		}
	}
	return 0, errors.New("tree walk did not reach a leaf")
}

// Forest is a regression ensemble; its prediction is the mean of its trees.
type Forest struct {
	NumFeatures int    `json:"num_features"`
	Trees       []Tree `json:"trees"`
}

// Score predicts one value for a schema-ordered feature vector.
func (f *Forest) Score(x []float64) (float64, error) {
	if len(f.Trees) == 0 {
		return 0, errors.New("forest has no trees")
	}
	if f.NumFeatures > 0 && len(x) != f.NumFeatures {
		return 0, fmt.Errorf("expected %d features, got %d", f.NumFeatures, len(x))
	}

	sum := 0.0
	for i := range f.Trees {
		v, err := f.Trees[i].Predict(x)
		if err != nil {
			return 0, fmt.Errorf("tree %d: %w", i, err)
		}
		sum += v
	}
	return sum / float64(len(f.Trees)), nil
}
