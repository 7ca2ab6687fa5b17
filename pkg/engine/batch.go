package engine

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// BatchResult pairs one input record with its outcome. A record that fails
// validation or scoring gets its error message here instead of failing the
// whole batch.
type BatchResult struct {
	Index    int       `json:"index" yaml:"index"`
	Analysis *Analysis `json:"analysis,omitempty" yaml:"analysis,omitempty"`
	Error    string    `json:"error,omitempty" yaml:"error,omitempty"`
}

// AnalyzeBatch scores many records concurrently. The registry is immutable
// and every engine operation is pure, so records are fanned out across a
// bounded worker group. Results preserve input order.
func (e *Engine) AnalyzeBatch(ctx context.Context, records []Record) ([]BatchResult, error) {
	results := make([]BatchResult, len(records))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, rec := range records {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res := BatchResult{Index: i}
			a, err := e.Analyze(rec)
			if err != nil {
				res.Error = err.Error()
			} else {
				res.Analysis = a
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
