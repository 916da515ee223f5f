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
package salesstat

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"github.com/yamitzky/xlrd-go/xlrd"
	"go.uber.org/zap"

	"github.com/ecomdata/safecsv/internal/config"
	"github.com/ecomdata/safecsv/internal/detect"
	"github.com/ecomdata/safecsv/internal/table"
)

// Frame is a fully loaded export: one header row plus string-valued
// data rows, independent of the container format it came from.
type Frame struct {
	Path    string
	Headers []string
	Rows    [][]string
}

// Col returns the index of the named column, or -1.
func (f *Frame) Col(name string) int {
	for i, h := range f.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// Value returns the trimmed value of the named column in the given row,
// or "" when the column or the field is absent.
func (f *Frame) Value(row []string, name string) string {
	i := f.Col(name)
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// ReadFrame loads a marketplace export. Delimited text goes through the
// same detection and strict decoding as the converter; .xlsx is read
// with excelize and legacy .xls with the BIFF reader.
func ReadFrame(path string, cfg config.Config, logger *zap.Logger) (*Frame, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return readXLSXFrame(path)
	case ".xls":
		return readXLSFrame(path)
	default:
		return readDelimitedFrame(path, cfg, logger)
	}
}

func readDelimitedFrame(path string, cfg config.Config, logger *zap.Logger) (*Frame, error) {
	res, err := detect.NewDetector(cfg, logger).Detect(path)
	if err != nil {
		return nil, err
	}
	t, err := table.Load(path, res, nil)
	if err != nil {
		return nil, err
	}

	frame := &Frame{Path: path, Headers: t.Headers}
	for _, row := range t.Rows {
		fields := make([]string, len(row))
		for i, cell := range row {
			fields[i] = cell.Text
		}
		frame.Rows = append(frame.Rows, fields)
	}
	return frame, nil
}

func readXLSXFrame(path string) (*Frame, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx file has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return frameFromRows(path, rows)
}

func readXLSFrame(path string) (*Frame, error) {
	book, err := xlrd.OpenWorkbook(path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open xls file: %w", err)
	}
	defer book.ReleaseResources()

	sheet, err := book.SheetByIndex(0)
	if err != nil {
		return nil, fmt.Errorf("failed to read first xls sheet: %w", err)
	}

	rows := make([][]string, 0, sheet.NRows)
	for r := 0; r < sheet.NRows; r++ {
		fields := make([]string, sheet.NCols)
		for c := 0; c < sheet.NCols; c++ {
			fields[c] = formatXLSValue(sheet.CellValue(r, c))
		}
		rows = append(rows, fields)
	}
	return frameFromRows(path, rows)
}

func frameFromRows(path string, rows [][]string) (*Frame, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("file has no header row")
	}
	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}
	return &Frame{Path: path, Headers: headers, Rows: rows[1:]}, nil
}

func formatXLSValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// WriteXLSX persists the frame as a single-sheet workbook with every
// cell written as text. Used by the anonymizer output path.
func (f *Frame) WriteXLSX(path string) error {
	out := excelize.NewFile()
	defer out.Close()

	const sheet = "Sheet1"
	for c, h := range f.Headers {
		cell, err := excelize.CoordinatesToCellName(c+1, 1)
		if err != nil {
			return err
		}
		if err := out.SetCellStr(sheet, cell, h); err != nil {
			return err
		}
	}
	for r, row := range f.Rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := out.SetCellStr(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return out.SaveAs(path)
}
