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

// Package convert runs the per-file pipeline: detect encoding and
// delimiter, classify columns from a bounded sample, load the full
// table, neutralize formula injection, write the xlsx. Each file is an
// independent unit of work returning a tagged Result; nothing
// propagates past the file boundary in a batch.
package convert

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ecomdata/safecsv/internal/classify"
	"github.com/ecomdata/safecsv/internal/config"
	"github.com/ecomdata/safecsv/internal/detect"
	"github.com/ecomdata/safecsv/internal/sanitize"
	"github.com/ecomdata/safecsv/internal/table"
)

// Status tags the outcome of one file's pipeline.
type Status int

const (
	StatusSuccess Status = iota
	StatusSkipped
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result reports one file's outcome to the batch driver.
type Result struct {
	Path      string
	Output    string
	Status    Status
	Sanitized int
	ForceText int
	Message   string
	Err       error
}

// Options are the per-run settings supplied by the command surface.
type Options struct {
	OutDir      string
	OnConflict  ConflictPolicy
	Concurrency int
	// Progress, when set, receives each Result as its file completes.
	Progress func(Result)
}

// Pipeline converts delimited text files into sanitized xlsx files. It
// is safe for concurrent use; all per-file state lives on the stack.
type Pipeline struct {
	cfg       config.Config
	logger    *zap.Logger
	detector  *detect.Detector
	sanitizer *sanitize.Sanitizer
	alloc     *NameAllocator
}

func New(cfg config.Config, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		logger:    logger,
		detector:  detect.NewDetector(cfg, logger),
		sanitizer: sanitize.New(cfg),
		alloc:     NewNameAllocator(),
	}
}

// ConvertFile runs the full pipeline for one file. Detection and
// classification failures degrade to documented fallbacks; load and
// write failures fail this file only.
func (p *Pipeline) ConvertFile(ctx context.Context, path string, opts Options) Result {
	logger := p.logger.With(zap.String("file", path))

	res, err := p.detector.Detect(path)
	if err != nil {
		var empty *detect.ErrEmptySource
		if errors.As(err, &empty) {
			logger.Info("skipping empty file")
			return Result{Path: path, Status: StatusSkipped, Message: "file is empty"}
		}
		return failure(path, err, "detection could not read the file")
	}
	logger.Info("detected source format",
		zap.String("encoding", res.Encoding),
		zap.Float64("confidence", res.Confidence),
		zap.String("delimiter", string(res.Delimiter)))

	if err := ctx.Err(); err != nil {
		return failure(path, err, "cancelled")
	}

	// Classification works on a bounded sample. A broken sample is not
	// fatal: the file is loaded without directives, like the degraded
	// path of detection.
	var directives classify.Directives
	headers, rows, err := table.Sample(path, res, p.cfg.SampleRows)
	if err != nil {
		logger.Warn("pre-scan failed, loading without type directives", zap.Error(err))
	} else {
		directives = classify.Classify(headers, rows, p.cfg.SampleRows, p.cfg.PrecisionThreshold)
		for name := range directives {
			logger.Info("column forced to text", zap.String("column", name))
		}
	}

	tbl, err := table.Load(path, res, directives)
	if err != nil {
		return failure(path, &ErrLoadFailure{Path: path, Err: err}, "load failed")
	}

	if err := ctx.Err(); err != nil {
		return failure(path, err, "cancelled")
	}

	rec := p.sanitizer.Sanitize(tbl)
	if rec.Cells > 0 {
		logger.Warn("neutralized formula injection cells", zap.Int("cells", rec.Cells))
	}

	out, ok := p.alloc.Allocate(outputPath(p.cfg.OutputPrefix, path, opts.OutDir), opts.OnConflict)
	if !ok {
		logger.Info("output exists, skipping per conflict policy")
		return Result{Path: path, Status: StatusSkipped, Message: "output file already exists"}
	}

	if err := WriteXLSX(tbl, out); err != nil {
		return failure(path, err, "write failed")
	}

	logger.Info("wrote output file",
		zap.String("output", out),
		zap.Int("rows", len(tbl.Rows)),
		zap.Int("sanitized_cells", rec.Cells))

	return Result{
		Path:      path,
		Output:    out,
		Status:    StatusSuccess,
		Sanitized: rec.Cells,
		ForceText: len(directives),
		Message:   fmt.Sprintf("%d rows", len(tbl.Rows)),
	}
}

func failure(path string, err error, msg string) Result {
	return Result{Path: path, Status: StatusFailed, Message: msg, Err: err}
}
