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

// Package table holds the in-memory model of one decoded delimited file
// and the loader that builds it.
package table

import (
	"fmt"

	"github.com/ecomdata/safecsv/internal/classify"
)

// Cell is one value of one row. Cells are owned by their row; nothing
// is shared across rows or columns.
type Cell struct {
	Text string
	// Missing marks a position the source row did not supply (the row
	// was shorter than the header).
	Missing bool
}

// Table is an ordered sequence of named columns. Column order and
// header text are preserved verbatim apart from whitespace and stray
// quote trimming. Rows may be longer than Headers when the source row
// carried extra fields; those cells ride along positionally.
type Table struct {
	Headers    []string
	Rows       [][]Cell
	Directives classify.Directives
}

// ErrUndecodableSource signals that the chosen encoding cannot decode
// the full file. Per-character replacement is tolerated during
// detection only, never here.
type ErrUndecodableSource struct {
	Path     string
	Encoding string
	Err      error
}

func (e *ErrUndecodableSource) Error() string {
	return fmt.Sprintf("file %s cannot be decoded as %s: %v", e.Path, e.Encoding, e.Err)
}

func (e *ErrUndecodableSource) Unwrap() error {
	return e.Err
}
