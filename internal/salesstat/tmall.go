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

// Tmall/Taobao export columns. The recent and historic formats differ
// in the product title column.
const (
	tmColProductID     = "商品ID"
	tmColTitleRecent   = "商品标题"
	tmColTitleHistory  = "标题"
	tmColQuantity      = "购买数量"
	tmColOrderStatus   = "订单状态"
	tmColActualPayment = "买家实付金额"
	tmColRefundAmount  = "退款金额"

	tmStatusTradeSuccess = "交易成功"
)

// processTmall aggregates by product id. Successful trades count as
// sales of the buyer's actual payment; every other order contributes
// its refund amount (negated) to the return side.
func processTmall(f *Frame, platform Platform) (*Report, error) {
	titleCol := tmColTitleRecent
	if platform == PlatformTmallHistory {
		titleCol = tmColTitleHistory
	}

	g := newGroups()
	var details [][]string

	for _, row := range f.Rows {
		id := f.Value(row, tmColProductID)
		if id == "" {
			continue
		}
		details = append(details, row)

		grp := g.get(id, id, f.Value(row, titleCol))
		qty := parseAmount(f.Value(row, tmColQuantity))

		if f.Value(row, tmColOrderStatus) == tmStatusTradeSuccess {
			grp.SalesQty += qty
			grp.SalesAmount += parseAmount(f.Value(row, tmColActualPayment))
		} else if refund := parseAmount(f.Value(row, tmColRefundAmount)); refund != 0 {
			grp.ReturnQty += qty
			grp.ReturnAmount -= refund
		}
	}

	return &Report{
		Platform:      platform,
		SourceFile:    f.Path,
		Rows:          g.rows(),
		DetailHeaders: f.Headers,
		DetailRows:    details,
	}, nil
}
