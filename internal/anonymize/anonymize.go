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

// Package anonymize substitutes sensitive values with stable synthetic
// identifiers so real exports can be shared for demos and bug reports.
// The same original value always maps to the same synthetic id within a
// run, across all files, which keeps joins between files intact.
package anonymize

import (
	"strconv"
	"strings"
)

// DefaultColumns maps sensitive column names to the prefix of their
// synthetic replacement. Columns from different marketplaces that mean
// the same thing share a prefix.
func DefaultColumns() map[string]string {
	return map[string]string{
		// Tmall/Taobao
		"子订单编号": "子订单编号",
		"主订单编号": "主订单编号",
		"标题":    "商品标题",
		"商品标题":  "商品标题",
		"支付单号":  "支付单号",
		"商品ID":  "商品ID",
		"物流单号":  "物流单号",
		// Jingdong
		"订单编号":   "订单编号",
		"父单号":    "父单号",
		"售后服务单号": "售后服务单号",
		"商品编号":   "商品编号",
		"商品名称":   "商品名称",
		"商户订单号":  "商户订单号",
		// Pinduoduo
		"商品":   "商品",
		"订单号":  "订单号",
		"商品id": "商品ID",
		"样式ID": "样式ID",
		"快递单号": "快递单号",
		// Douyin
		"选购商品": "选购商品",
	}
}

// placeholders are kept verbatim: they carry no information worth
// masking and rewriting them would look like data.
var placeholders = map[string]bool{
	"": true, "-": true, "--": true, "nan": true, "None": true,
}

// Masker allocates synthetic identifiers. Not safe for concurrent use;
// the anonymize command runs files sequentially so the mapping stays
// deterministic.
type Masker struct {
	columns  map[string]string
	mappings map[string]map[string]string
}

// New builds a Masker for the given column→prefix map; nil means
// DefaultColumns.
func New(columns map[string]string) *Masker {
	if columns == nil {
		columns = DefaultColumns()
	}
	return &Masker{
		columns:  columns,
		mappings: make(map[string]map[string]string),
	}
}

// MaskValue returns the synthetic identifier for a value of the named
// column. Identifiers are allocated in first-seen order per prefix, so
// output like "订单编号1", "订单编号2" stays readable.
func (m *Masker) MaskValue(column, value string) string {
	prefix, sensitive := m.columns[column]
	if !sensitive {
		return value
	}
	trimmed := strings.TrimSpace(value)
	if placeholders[trimmed] {
		return value
	}

	mapping, ok := m.mappings[prefix]
	if !ok {
		mapping = make(map[string]string)
		m.mappings[prefix] = mapping
	}
	if masked, ok := mapping[trimmed]; ok {
		return masked
	}
	masked := prefix + strconv.Itoa(len(mapping)+1)
	mapping[trimmed] = masked
	return masked
}

// Mask rewrites every sensitive column of the rows in place.
func (m *Masker) Mask(headers []string, rows [][]string) int {
	var masked int
	for col, name := range headers {
		if _, sensitive := m.columns[name]; !sensitive {
			continue
		}
		for _, row := range rows {
			if col >= len(row) {
				continue
			}
			if out := m.MaskValue(name, row[col]); out != row[col] {
				row[col] = out
				masked++
			}
		}
	}
	return masked
}
