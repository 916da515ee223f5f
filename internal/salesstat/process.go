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
	"sort"
	"strconv"
	"strings"
)

const (
	unknownProductName = "未知商品标题"
	unknownProductID   = "未知编号"
)

// SummaryRow is one product's aggregated sales and returns.
type SummaryRow struct {
	ProductID    string
	ProductName  string
	SalesQty     float64
	SalesAmount  float64
	ReturnQty    float64
	ReturnAmount float64 // negative or zero
}

// Report is the aggregation result for one export file.
type Report struct {
	Platform      Platform
	SourceFile    string
	Rows          []SummaryRow
	DetailHeaders []string
	DetailRows    [][]string
}

// TotalSales sums the positive side of the report.
func (r *Report) TotalSales() float64 {
	var total float64
	for _, row := range r.Rows {
		total += row.SalesAmount
	}
	return total
}

// TotalReturns sums the (negative) return side of the report.
func (r *Report) TotalReturns() float64 {
	var total float64
	for _, row := range r.Rows {
		total += row.ReturnAmount
	}
	return total
}

// Process identifies the frame's platform and runs the matching
// aggregation.
func Process(f *Frame) (*Report, error) {
	platform, err := Identify(f.Headers)
	if err != nil {
		return nil, err
	}
	return ProcessAs(f, platform)
}

// ProcessAs aggregates the frame with the processor for an already
// known platform.
func ProcessAs(f *Frame, platform Platform) (*Report, error) {
	switch platform {
	case PlatformTmallRecent, PlatformTmallHistory:
		return processTmall(f, platform)
	case PlatformJD:
		return processJD(f)
	case PlatformPDD:
		return processPDD(f)
	case PlatformDouyin:
		return processDouyin(f)
	default:
		return nil, fmt.Errorf("no processor for platform %q", platform)
	}
}

// parseAmount is the tolerant numeric coercion of the reporting path: a
// value that does not parse counts as zero instead of failing the row.
func parseAmount(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return n
}

// group accumulates one product's rows during aggregation.
type group struct {
	id   string
	name string
	SummaryRow
}

// groups keys accumulation by an arbitrary product key and renders the
// sorted summary at the end.
type groups struct {
	byKey map[string]*group
}

func newGroups() *groups {
	return &groups{byKey: make(map[string]*group)}
}

func (g *groups) get(key, id, name string) *group {
	grp, ok := g.byKey[key]
	if !ok {
		grp = &group{id: id, name: name}
		g.byKey[key] = grp
	}
	if grp.id == "" || grp.id == unknownProductID {
		if id != "" {
			grp.id = id
		}
	}
	if grp.name == "" || grp.name == unknownProductName {
		if name != "" {
			grp.name = name
		}
	}
	return grp
}

// rows renders the summary sorted by product name for stable output.
func (g *groups) rows() []SummaryRow {
	out := make([]SummaryRow, 0, len(g.byKey))
	for _, grp := range g.byKey {
		row := grp.SummaryRow
		row.ProductID = grp.id
		row.ProductName = grp.name
		if row.ProductID == "" {
			row.ProductID = unknownProductID
		}
		if row.ProductName == "" {
			row.ProductName = unknownProductName
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ProductName != out[j].ProductName {
			return out[i].ProductName < out[j].ProductName
		}
		return out[i].ProductID < out[j].ProductID
	})
	return out
}
