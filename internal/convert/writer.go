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
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ecomdata/safecsv/internal/table"
)

const sheetName = "Sheet1"

// WriteXLSX persists the table. Force-text columns are written as
// string cells for every row; natural columns coerce each cell
// independently and fall back to the literal text when the value is not
// numeric. Cells past the named columns (from over-long source rows)
// are written as text.
func WriteXLSX(t *table.Table, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return &ErrWriteFailure{Path: path, Err: err}
	}

	for col, header := range t.Headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return &ErrWriteFailure{Path: path, Err: err}
		}
		if err := f.SetCellStr(sheetName, cell, header); err != nil {
			return &ErrWriteFailure{Path: path, Err: err}
		}
		if err := f.SetCellStyle(sheetName, cell, cell, bold); err != nil {
			return &ErrWriteFailure{Path: path, Err: err}
		}
	}

	for r, row := range t.Rows {
		for c, cellValue := range row {
			if cellValue.Missing {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return &ErrWriteFailure{Path: path, Err: err}
			}
			if err := setCell(f, t, cell, c, cellValue.Text); err != nil {
				return &ErrWriteFailure{Path: path, Err: err}
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return &ErrWriteFailure{Path: path, Err: err}
	}
	return nil
}

func setCell(f *excelize.File, t *table.Table, cell string, col int, text string) error {
	if col < len(t.Headers) && t.Directives.IsForceText(t.Headers[col]) {
		return f.SetCellStr(sheetName, cell, text)
	}
	if n, ok := coerceNumber(text); ok {
		return f.SetCellValue(sheetName, cell, n)
	}
	return f.SetCellStr(sheetName, cell, text)
}

// coerceNumber is the natural-column parse. It must tolerate any
// non-numeric token: failure yields the original text, never an error
// that aborts the column.
func coerceNumber(text string) (float64, bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}
