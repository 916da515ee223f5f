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

// Package classify decides, per column, whether values must stay opaque
// text when the table is written to a spreadsheet. It is a pure function
// over a bounded sample of rows; the resulting directive applies to the
// whole column, including rows outside the sample.
package classify

import (
	"regexp"
	"strings"
)

// Directive is the per-column decision.
type Directive int

const (
	// Natural leaves the column to ordinary value parsing.
	Natural Directive = iota
	// ForceText loads every cell of the column as opaque text.
	ForceText
)

// Directives maps a header name to its directive. Columns absent from
// the map are Natural.
type Directives map[string]Directive

// IsForceText reports whether the named column must stay text.
func (d Directives) IsForceText(column string) bool {
	return d[column] == ForceText
}

var (
	// Values like "007": reinterpreting them numerically drops the
	// leading zero.
	leadingZeroPattern = regexp.MustCompile(`^0[0-9]+$`)
	// Values like "10-12": size or model codes a spreadsheet would
	// auto-format as a date.
	shortDashPattern = regexp.MustCompile(`^\d{1,2}-\d{1,2}$`)
	allDigitsPattern = regexp.MustCompile(`^[0-9]+$`)
)

// Classify scans at most sampleRows of the given raw-text rows and
// returns the directive map. A column is forced to text when any sample
// value has a leading zero, looks like a short numeric-dash code, or is
// an all-digit string of at least precisionThreshold digits.
func Classify(headers []string, rows [][]string, sampleRows, precisionThreshold int) Directives {
	if len(rows) > sampleRows {
		rows = rows[:sampleRows]
	}

	directives := make(Directives)
	for col, name := range headers {
		if classifyColumn(columnValues(rows, col), precisionThreshold) == ForceText {
			directives[name] = ForceText
		}
	}
	return directives
}

func classifyColumn(values []string, precisionThreshold int) Directive {
	maxDigits := 0
	for _, v := range values {
		if leadingZeroPattern.MatchString(v) {
			return ForceText
		}
		if shortDashPattern.MatchString(v) {
			return ForceText
		}
		if allDigitsPattern.MatchString(v) && len(v) > maxDigits {
			maxDigits = len(v)
		}
	}
	if maxDigits >= precisionThreshold {
		return ForceText
	}
	return Natural
}

// columnValues collects the non-empty, whitespace-trimmed values of one
// column. Rows too short to contain the column are skipped.
func columnValues(rows [][]string, col int) []string {
	var values []string
	for _, row := range rows {
		if col >= len(row) {
			continue
		}
		v := strings.TrimSpace(row[col])
		if v != "" {
			values = append(values, v)
		}
	}
	return values
}
