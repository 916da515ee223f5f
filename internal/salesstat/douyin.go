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

// Douyin shop export columns. The export carries a unit price, so the
// payable amount per row is price times quantity.
const (
	dyColProductName = "选购商品"
	dyColProductID   = "商品ID"
	dyColQuantity    = "商品数量"
	dyColUnitPrice   = "商品金额"
	dyColOrderStatus = "订单状态"

	dyStatusCompleted = "已完成"
)

// processDouyin aggregates by product title. Completed orders are
// sales; any other state counts the computed payable as a return.
func processDouyin(f *Frame) (*Report, error) {
	g := newGroups()
	var details [][]string

	for _, row := range f.Rows {
		name := f.Value(row, dyColProductName)
		if name == "" {
			name = unknownProductName
		}
		details = append(details, row)

		grp := g.get(name, f.Value(row, dyColProductID), name)

		qty := parseAmount(f.Value(row, dyColQuantity))
		payable := parseAmount(f.Value(row, dyColUnitPrice)) * qty

		if f.Value(row, dyColOrderStatus) == dyStatusCompleted {
			grp.SalesQty += qty
			grp.SalesAmount += payable
		} else {
			grp.ReturnQty += qty
			grp.ReturnAmount -= payable
		}
	}

	return &Report{
		Platform:      PlatformDouyin,
		SourceFile:    f.Path,
		Rows:          g.rows(),
		DetailHeaders: f.Headers,
		DetailRows:    details,
	}, nil
}
