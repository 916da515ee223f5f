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
package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ecomdata/safecsv/internal/convert"
	"github.com/ecomdata/safecsv/internal/salesstat"
)

var salesReportCmd = &cobra.Command{
	Use:     "sales-report FILE...",
	Short:   "Generate per-product sales reports from marketplace exports",
	Long:    `Identifies the marketplace each export file came from by its column fingerprint (Tmall, Jingdong, Pinduoduo, Douyin) and writes a per-product sales/returns report workbook next to it. Supports csv, xlsx and legacy xls inputs.`,
	Example: `  safecsv sales-report 订单导出.csv 结算单.xls`,
	Args:    cobra.MinimumNArgs(1),
	RunE:    runSalesReport,
}

func runSalesReport(cmd *cobra.Command, args []string) error {
	policy, err := convert.ParseConflictPolicy(onConflict)
	if err != nil {
		return err
	}
	alloc := convert.NewNameAllocator()

	var failed int
	for _, path := range args {
		fmt.Printf("processing %s\n", filepath.Base(path))
		if err := reportOne(alloc, policy, path); err != nil {
			failed++
			fmt.Printf("%s: FAILED, %v\n", filepath.Base(path), err)
			logger.Error("sales report failed", zap.String("file", path), zap.Error(err))
			continue
		}
	}
	if failed == len(args) {
		return fmt.Errorf("all %d files failed", failed)
	}
	return nil
}

func reportOne(alloc *convert.NameAllocator, policy convert.ConflictPolicy, path string) error {
	frame, err := salesstat.ReadFrame(path, cfg, logger)
	if err != nil {
		return err
	}

	rep, err := salesstat.Process(frame)
	if err != nil {
		return err
	}

	out, ok := alloc.Allocate(reportOutputPath(path), policy)
	if !ok {
		fmt.Printf("%s: skipped, output file already exists\n", filepath.Base(path))
		return nil
	}
	if err := salesstat.WriteReport(rep, out); err != nil {
		return err
	}
	fmt.Printf("%s: %s report with %d products, saved to %s\n",
		filepath.Base(path), rep.Platform, len(rep.Rows), out)
	return nil
}

func reportOutputPath(inputPath string) string {
	base := filepath.Base(inputPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	dir := filepath.Dir(inputPath)
	if outDir != "" {
		dir = outDir
	}
	return filepath.Join(dir, "report_"+base+".xlsx")
}
