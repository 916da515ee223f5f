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

// Package salesstat turns marketplace order exports into per-product
// sales summaries. Each supported marketplace is recognized by a
// fingerprint: a set of column names that is stable and unique to its
// export format.
package salesstat

import "fmt"

// Platform identifies the marketplace an export file came from.
type Platform string

const (
	PlatformTmallRecent  Platform = "TM_RECENT"  // Tmall/Taobao, last three months (.xlsx)
	PlatformTmallHistory Platform = "TM_HISTORY" // Tmall/Taobao, historic exports (.csv)
	PlatformJD           Platform = "JD"         // Jingdong settlement exports
	PlatformPDD          Platform = "PDD"        // Pinduoduo order exports
	PlatformDouyin       Platform = "DY"         // Douyin shop exports
)

// identifyOrder fixes the check order so overlapping fingerprints
// resolve deterministically.
var identifyOrder = []Platform{
	PlatformTmallRecent, PlatformTmallHistory, PlatformJD, PlatformPDD, PlatformDouyin,
}

var fingerprints = map[Platform][]string{
	PlatformTmallRecent: {
		"子订单编号", "主订单编号", "商品标题", "买家实付金额", "退款金额", "商品ID",
	},
	PlatformTmallHistory: {
		"主订单编号", "子订单编号", "标题", "商家编码", "退款金额", "订单状态",
	},
	PlatformJD: {
		"订单编号", "订单下单时间", "费用名称", "应结金额", "收支方向", "结算状态",
	},
	PlatformPDD: {
		"商品", "订单号", "商品总价(元)", "商家实收金额(元)", "商品id", "售后状态",
	},
	PlatformDouyin: {
		"主订单编号", "选购商品", "商品金额", "订单提交时间", "订单完成时间", "售后状态",
	},
}

// Identify matches the header row against the platform fingerprints. A
// platform matches when every fingerprint column is present; extra
// columns are ignored.
func Identify(headers []string) (Platform, error) {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[h] = true
	}

	for _, platform := range identifyOrder {
		matched := true
		for _, col := range fingerprints[platform] {
			if !present[col] {
				matched = false
				break
			}
		}
		if matched {
			return platform, nil
		}
	}
	return "", fmt.Errorf("headers match no known marketplace export format")
}
