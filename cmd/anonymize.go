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

	"github.com/ecomdata/safecsv/internal/anonymize"
	"github.com/ecomdata/safecsv/internal/convert"
	"github.com/ecomdata/safecsv/internal/salesstat"
)

var anonymizeColumns []string

var anonymizeCmd = &cobra.Command{
	Use:     "anonymize FILE...",
	Short:   "Replace sensitive values with stable synthetic identifiers",
	Long:    `Rewrites sensitive columns (order numbers, product titles, tracking numbers) with synthetic identifiers. The same original value maps to the same identifier across all files in one run, so relations between files survive.`,
	Example: `  safecsv anonymize orders.csv shipments.xlsx --columns 订单编号,物流单号`,
	Args:    cobra.MinimumNArgs(1),
	RunE:    runAnonymize,
}

func runAnonymize(cmd *cobra.Command, args []string) error {
	policy, err := convert.ParseConflictPolicy(onConflict)
	if err != nil {
		return err
	}
	alloc := convert.NewNameAllocator()

	columns := anonymize.DefaultColumns()
	if len(anonymizeColumns) > 0 {
		columns = make(map[string]string, len(anonymizeColumns))
		for _, c := range anonymizeColumns {
			columns[c] = c
		}
	}

	// One masker for the whole run keeps identifiers stable across files.
	masker := anonymize.New(columns)

	var failed int
	for _, path := range args {
		if err := anonymizeOne(masker, alloc, policy, path); err != nil {
			failed++
			fmt.Printf("%s: FAILED, %v\n", filepath.Base(path), err)
			logger.Error("anonymization failed", zap.String("file", path), zap.Error(err))
		}
	}
	if failed == len(args) {
		return fmt.Errorf("all %d files failed", failed)
	}
	return nil
}

func anonymizeOne(masker *anonymize.Masker, alloc *convert.NameAllocator, policy convert.ConflictPolicy, path string) error {
	frame, err := salesstat.ReadFrame(path, cfg, logger)
	if err != nil {
		return err
	}

	masked := masker.Mask(frame.Headers, frame.Rows)

	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	dir := filepath.Dir(path)
	if outDir != "" {
		dir = outDir
	}
	out, ok := alloc.Allocate(filepath.Join(dir, "anonym_"+base+".xlsx"), policy)
	if !ok {
		fmt.Printf("%s: skipped, output file already exists\n", filepath.Base(path))
		return nil
	}

	if err := frame.WriteXLSX(out); err != nil {
		return err
	}
	fmt.Printf("%s: masked %d cells, saved to %s\n", filepath.Base(path), masked, out)
	return nil
}

func init() {
	anonymizeCmd.Flags().StringSliceVar(&anonymizeColumns, "columns", nil, "Columns to anonymize (defaults to the built-in marketplace column set)")
}
