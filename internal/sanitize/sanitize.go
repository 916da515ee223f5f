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

// Package sanitize neutralizes spreadsheet formula-injection payloads.
// A flagged cell gets one leading apostrophe, which makes spreadsheet
// software display the content as plain text. The original value is
// recovered by stripping that single character.
package sanitize

import (
	"regexp"
	"strings"

	"github.com/ecomdata/safecsv/internal/config"
	"github.com/ecomdata/safecsv/internal/table"
)

// Marker is the literal-text prefix added to flagged cells.
const Marker = "'"

// CellRef locates one sanitized cell (zero-based row and column within
// the table body).
type CellRef struct {
	Row, Col int
}

// Record reports what one sanitization pass changed. Reporting only;
// never persisted.
type Record struct {
	Cells     int
	Locations []CellRef
}

// Sanitizer scans text cells against one precompiled pattern. Compile
// once per configuration: regexps are safe for concurrent use and
// per-cell recompilation would dominate the scan cost.
type Sanitizer struct {
	pattern *regexp.Regexp
}

// New builds the injection pattern from the configured trigger
// characters and risk keywords. A cell matches when, after leading
// whitespace, it starts with a trigger character and the remainder
// contains a DDE-style sequence (pipe then later an exclamation mark)
// or any risk keyword, case-insensitively.
func New(cfg config.Config) *Sanitizer {
	keywords := make([]string, len(cfg.RiskyKeywords))
	for i, kw := range cfg.RiskyKeywords {
		keywords[i] = regexp.QuoteMeta(kw)
	}
	expr := `(?i)^\s*[` + charClass(cfg.TriggerChars) + `].*(?:\|.*!|` + strings.Join(keywords, "|") + `)`
	return &Sanitizer{pattern: regexp.MustCompile(expr)}
}

// Flagged reports whether a single cell value would be neutralized.
// Values already carrying the marker are never re-flagged, which makes
// Sanitize idempotent.
func (s *Sanitizer) Flagged(text string) bool {
	if strings.HasPrefix(text, Marker) {
		return false
	}
	return s.pattern.MatchString(text)
}

// Sanitize neutralizes every flagged cell of the table in place and
// returns the record of what changed. Missing cells carry no text and
// are skipped.
func (s *Sanitizer) Sanitize(t *table.Table) Record {
	var rec Record
	for r, row := range t.Rows {
		for c := range row {
			cell := &t.Rows[r][c]
			if cell.Missing || !s.Flagged(cell.Text) {
				continue
			}
			cell.Text = Marker + cell.Text
			rec.Cells++
			rec.Locations = append(rec.Locations, CellRef{Row: r, Col: c})
		}
	}
	return rec
}

// charClass escapes the trigger characters for use inside a regexp
// character class.
func charClass(chars string) string {
	var b strings.Builder
	for _, r := range chars {
		switch r {
		case '\\', ']', '^', '-':
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
