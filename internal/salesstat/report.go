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

	"github.com/xuri/excelize/v2"
)

const (
	summarySheetName = "销售总结"
	detailSheetName  = "订单明细"
)

// WriteReport persists the aggregation as a two-sheet workbook: the
// summary sheet with a sales block, a returns block and totals, and a
// detail sheet with the source rows that entered the aggregation.
// Styling stays at bold headers.
func WriteReport(rep *Report, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", summarySheetName)
	if err := writeSummarySheet(f, rep); err != nil {
		return fmt.Errorf("failed to build summary sheet: %w", err)
	}
	if err := writeDetailSheet(f, rep); err != nil {
		return fmt.Errorf("failed to build detail sheet: %w", err)
	}
	return f.SaveAs(path)
}

func writeSummarySheet(f *excelize.File, rep *Report) error {
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	row := 1
	writeRow := func(style int, values ...interface{}) error {
		for c, v := range values {
			cell, err := excelize.CoordinatesToCellName(c+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(summarySheetName, cell, v); err != nil {
				return err
			}
			if style != 0 {
				if err := f.SetCellStyle(summarySheetName, cell, cell, style); err != nil {
					return err
				}
			}
		}
		row++
		return nil
	}

	if err := writeRow(bold, "商品编号", "商品名称", "销售数量", "销售额"); err != nil {
		return err
	}
	for _, r := range rep.Rows {
		if r.SalesAmount == 0 {
			continue
		}
		if err := writeRow(0, r.ProductID, r.ProductName, r.SalesQty, r.SalesAmount); err != nil {
			return err
		}
	}

	row++ // blank separator
	if err := writeRow(bold, "商品编号", "商品名称", "退款数量", "退款金额"); err != nil {
		return err
	}
	for _, r := range rep.Rows {
		if r.ReturnAmount == 0 {
			continue
		}
		if err := writeRow(0, r.ProductID, r.ProductName, r.ReturnQty, r.ReturnAmount); err != nil {
			return err
		}
	}

	row++
	totalSales := rep.TotalSales()
	totalReturns := rep.TotalReturns()
	if err := writeRow(bold, "总销售额", "", "", totalSales); err != nil {
		return err
	}
	if err := writeRow(bold, "总退款", "", "", totalReturns); err != nil {
		return err
	}
	return writeRow(bold, "净额", "", "", totalSales+totalReturns)
}

func writeDetailSheet(f *excelize.File, rep *Report) error {
	if _, err := f.NewSheet(detailSheetName); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	for c, h := range rep.DetailHeaders {
		cell, err := excelize.CoordinatesToCellName(c+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStr(detailSheetName, cell, h); err != nil {
			return err
		}
		if err := f.SetCellStyle(detailSheetName, cell, cell, bold); err != nil {
			return err
		}
	}
	for r, row := range rep.DetailRows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellStr(detailSheetName, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}
