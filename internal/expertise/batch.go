// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package expertise

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/pdiddy/expertise-profiler/pkg/types"
)

// BatchSummary holds counts from an IngestBatch run.
type BatchSummary struct {
	Ingested int
	Failed   int
}

// Total returns the number of publications processed.
func (s BatchSummary) Total() int {
	return s.Ingested + s.Failed
}

type prepared struct {
	deltas []types.WeightedKeyword
	err    error
}

// IngestBatch updates profiles from many publications. Keyword extraction
// and weighting run concurrently on a worker pool; the results are applied
// to the store one publication at a time in input order, so the outcome
// matches calling UpdateProfiles for each publication in turn. A failing
// publication is reported on w and counted but does not stop the batch.
func (e *Engine) IngestBatch(ctx context.Context, pubs []types.Publication, w io.Writer) (BatchSummary, error) {
	pool, err := ants.NewPool(e.workers)
	if err != nil {
		return BatchSummary{}, fmt.Errorf("creating worker pool: %w", err)
	}
	defer pool.Release()

	results := make([]prepared, len(pubs))
	var wg sync.WaitGroup
	for i := range pubs {
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			results[i].deltas, results[i].err = e.prepare(pubs[i])
		})
		if err != nil {
			wg.Done()
			results[i].err = fmt.Errorf("submitting to worker pool: %w", err)
		}
	}
	wg.Wait()

	var summary BatchSummary
	for i, pub := range pubs {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		if results[i].err != nil {
			fmt.Fprintf(w, "failed   %q: %v\n", pub.Title, results[i].err)
			summary.Failed++
			continue
		}
		stored, err := e.apply(ctx, pub, results[i].deltas)
		if err != nil {
			fmt.Fprintf(w, "failed   %q: %v\n", pub.Title, err)
			summary.Failed++
			continue
		}
		fmt.Fprintf(w, "ingested %q (id %d, %d authors, %d keywords)\n",
			pub.Title, stored.ID, len(pub.Authors), len(results[i].deltas))
		summary.Ingested++
	}

	fmt.Fprintf(w, "\ningested: %d, failed: %d\n", summary.Ingested, summary.Failed)
	return summary, nil
}
