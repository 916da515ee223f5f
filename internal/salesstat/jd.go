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

// Jingdong settlement export columns.
const (
	jdColOrderStatus  = "订单状态"
	jdColProductID    = "商品编号"
	jdColProductName  = "商品名称"
	jdColQuantity     = "商品数量"
	jdColAmountDue    = "应结金额"
	jdColFeeName      = "费用名称"
	jdColDirection    = "收支方向"
	jdColAfterSalesID = "售后服务单号"

	jdStatusCompleted  = "已完成"
	jdFeeGoods         = "货款"
	jdDirectionIncome  = "收入"
	jdDirectionExpense = "支出"
)

// processJD aggregates the Jingdong settlement format. Only completed
// orders count; only the goods fee is summed (other fee rows are
// settlement noise). A goods-fee expense row counts as a return only
// when it carries an after-sales service id.
func processJD(f *Frame) (*Report, error) {
	g := newGroups()
	var details [][]string

	for _, row := range f.Rows {
		if f.Value(row, jdColOrderStatus) != jdStatusCompleted {
			continue
		}
		details = append(details, row)

		name := f.Value(row, jdColProductName)
		grp := g.get(name, f.Value(row, jdColProductID), name)

		if f.Value(row, jdColFeeName) != jdFeeGoods {
			continue
		}
		qty := parseAmount(f.Value(row, jdColQuantity))
		amount := parseAmount(f.Value(row, jdColAmountDue))

		switch f.Value(row, jdColDirection) {
		case jdDirectionIncome:
			grp.SalesQty += qty
			grp.SalesAmount += amount
		case jdDirectionExpense:
			if f.Value(row, jdColAfterSalesID) != "" {
				grp.ReturnQty += qty
				grp.ReturnAmount += amount // already negative in the export
			}
		}
	}

	return &Report{
		Platform:      PlatformJD,
		SourceFile:    f.Path,
		Rows:          g.rows(),
		DetailHeaders: f.Headers,
		DetailRows:    details,
	}, nil
}
