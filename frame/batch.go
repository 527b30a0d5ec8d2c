package frame

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// FrameAll frames independent documents concurrently. Each document gets its
// own registry. Results keep the input order; the first error cancels the
// remaining work. workers <= 0 means one goroutine per document.
func FrameAll(ctx context.Context, docs []any, opts Options, workers int) ([]*Map, error) {
	out := make([]*Map, len(docs))
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, doc := range docs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			framed, err := Frame(doc, opts)
			if err != nil {
				return &BatchError{Index: i, Err: err}
			}
			out[i] = framed
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
