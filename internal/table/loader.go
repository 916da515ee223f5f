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
package table

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/ecomdata/safecsv/internal/classify"
	"github.com/ecomdata/safecsv/internal/detect"
)

// Sample reads up to maxRows data rows as raw text for classification.
// Decoding is lossy here; the strict pass happens in Load. An error
// from Sample is advisory: the caller may proceed with no directives.
func Sample(path string, res detect.Result, maxRows int) ([]string, [][]string, error) {
	decoded, err := decodeFile(path, res, false)
	if err != nil {
		return nil, nil, err
	}

	r := newCSVReader(decoded, res.Delimiter)
	headers, err := readHeaders(r)
	if err != nil {
		return nil, nil, err
	}

	var rows [][]string
	for len(rows) < maxRows {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return headers, rows, fmt.Errorf("sample read stopped at row %d: %w", len(rows)+1, err)
		}
		rows = append(rows, record)
	}
	return headers, rows, nil
}

// Load decodes the entire source and builds the Table, applying the
// per-column directives. Rows with a field count different from the
// header are kept: short rows get Missing cells, long rows keep their
// extra fields positionally. Decoding failures are file-level errors;
// skipping rows would silently corrupt identifier data.
func Load(path string, res detect.Result, directives classify.Directives) (*Table, error) {
	decoded, err := decodeFile(path, res, true)
	if err != nil {
		return nil, err
	}

	r := newCSVReader(decoded, res.Delimiter)
	headers, err := readHeaders(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}

	t := &Table{Headers: headers, Directives: directives}
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse row %d: %w", len(t.Rows)+2, err)
		}

		row := make([]Cell, 0, len(headers))
		for _, field := range record {
			row = append(row, Cell{Text: trimValue(field)})
		}
		for len(row) < len(headers) {
			row = append(row, Cell{Missing: true})
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func newCSVReader(decoded string, delimiter rune) *csv.Reader {
	r := csv.NewReader(strings.NewReader(decoded))
	r.Comma = delimiter
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	return r
}

func readHeaders(r *csv.Reader) ([]string, error) {
	record, err := r.Read()
	if err != nil {
		return nil, err
	}
	headers := make([]string, len(record))
	for i, h := range record {
		headers[i] = trimValue(h)
	}
	return headers, nil
}

// trimValue strips surrounding whitespace and stray quoting characters.
// Properly quoted fields were already unwrapped by the csv reader; what
// remains here is exporter debris.
func trimValue(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"`)
	return strings.TrimSpace(s)
}

// decodeFile reads the whole file and converts it to UTF-8. In strict
// mode a replacement rune produced by the decoder (as opposed to one
// present in the source) makes the file undecodable.
func decodeFile(path string, res detect.Result, strict bool) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	enc, err := detect.DecoderFor(res.Encoding)
	if err != nil {
		return "", &ErrUndecodableSource{Path: path, Encoding: res.Encoding, Err: err}
	}

	decoded, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", &ErrUndecodableSource{Path: path, Encoding: res.Encoding, Err: err}
	}

	text := string(decoded)
	replacement := string(utf8.RuneError)
	if strict && strings.Contains(text, replacement) && !bytes.Contains(raw, []byte(replacement)) {
		return "", &ErrUndecodableSource{
			Path:     path,
			Encoding: res.Encoding,
			Err:      errors.New("decoder produced replacement characters"),
		}
	}

	return strings.TrimPrefix(text, "\ufeff"), nil
}
