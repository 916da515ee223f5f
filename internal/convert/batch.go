/*
 * Copyright 2025 the safecsv authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *    https://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */
package convert

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ecomdata/safecsv/internal/logging"
)

// Summary aggregates a batch. These counters are the only state shared
// across files in a run.
type Summary struct {
	Total          int
	Succeeded      int
	Skipped        int
	Failed         int
	SanitizedCells int
}

// Summarize folds per-file results into the batch counters.
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		switch r.Status {
		case StatusSuccess:
			s.Succeeded++
		case StatusSkipped:
			s.Skipped++
		case StatusFailed:
			s.Failed++
		}
		s.SanitizedCells += r.Sanitized
	}
	return s
}

// ConvertBatch processes every path, one pipeline run per file, with at
// most opts.Concurrency files in flight (default 1, the sequential
// behavior). A failed file is reported in its Result and the batch
// continues; results come back in input order.
func (p *Pipeline) ConvertBatch(ctx context.Context, paths []string, opts Options) []Result {
	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	runID := uuid.NewString()
	results := make([]Result, len(paths))

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(concurrency)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			logger := logging.ForFile(p.logger, runID, path)
			sub := *p
			sub.logger = logger

			res := sub.ConvertFile(ctx, path, opts)
			results[i] = res

			if res.Err != nil {
				logger.Error("file conversion failed", zap.Error(res.Err))
			}
			if opts.Progress != nil {
				mu.Lock()
				opts.Progress(res)
				mu.Unlock()
			}
			return nil
		})
	}

	// Workers never return errors; failures live in the Results.
	_ = g.Wait()
	return results
}
