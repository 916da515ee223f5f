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

import "strings"

// Pinduoduo export columns.
const (
	pddColProductName     = "商品"
	pddColOrderStatus     = "订单状态"
	pddColUserPayment     = "用户实付金额(元)"
	pddColMerchantReceipt = "商家实收金额(元)"
	pddColQuantity        = "商品数量(件)"
	pddColProductID       = "商品id"
	pddColStyleID         = "样式ID"
	pddColAfterSales      = "售后状态"

	pddStatusCancelled     = "取消"
	pddAfterSalesRefunded  = "退款成功"
	pddUnknownStyleGroupID = "未知样式"
)

// processPDD aggregates by style id, so every sellable variant gets its
// own summary line. Cancelled orders are dropped up front; a row whose
// after-sales state reached "退款成功" contributes the user's payment to
// the return side.
func processPDD(f *Frame) (*Report, error) {
	g := newGroups()
	var details [][]string

	for _, row := range f.Rows {
		if strings.Contains(f.Value(row, pddColOrderStatus), pddStatusCancelled) {
			continue
		}
		details = append(details, row)

		style := f.Value(row, pddColStyleID)
		if style == "" {
			style = pddUnknownStyleGroupID
		}
		grp := g.get(style, f.Value(row, pddColProductID), f.Value(row, pddColProductName))

		qty := parseAmount(f.Value(row, pddColQuantity))
		grp.SalesQty += qty
		grp.SalesAmount += parseAmount(f.Value(row, pddColMerchantReceipt))

		if strings.Contains(f.Value(row, pddColAfterSales), pddAfterSalesRefunded) {
			grp.ReturnQty += qty
			grp.ReturnAmount -= parseAmount(f.Value(row, pddColUserPayment))
		}
	}

	return &Report{
		Platform:      PlatformPDD,
		SourceFile:    f.Path,
		Rows:          g.rows(),
		DetailHeaders: f.Headers,
		DetailRows:    details,
	}, nil
}
