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
	"os"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/ecomdata/safecsv/internal/convert"
)

var concurrency int

var convertCmd = &cobra.Command{
	Use:     "convert FILE...",
	Short:   "Convert delimited text files to sanitized xlsx files",
	Long:    `Converts one or more delimited text files to xlsx, preserving every original value exactly and neutralizing formula-injection payloads. A failing file is reported and the batch continues.`,
	Example: `  safecsv convert orders.csv refunds.csv --out-dir ./converted --on-conflict rename`,
	Args:    cobra.MinimumNArgs(1),
	RunE:    runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	policy, err := convert.ParseConflictPolicy(onConflict)
	if err != nil {
		return err
	}

	pipeline := convert.New(cfg, logger)
	results := pipeline.ConvertBatch(cmd.Context(), args, convert.Options{
		OutDir:      outDir,
		OnConflict:  policy,
		Concurrency: concurrency,
		Progress:    printProgress,
	})

	summary := convert.Summarize(results)
	printSummary(results, summary)

	if summary.Succeeded == 0 && summary.Failed > 0 {
		return fmt.Errorf("all %d files failed", summary.Failed)
	}
	return nil
}

func printProgress(res convert.Result) {
	switch res.Status {
	case convert.StatusSuccess:
		fmt.Printf("%s: done, saved to %s (%s)\n", filepath.Base(res.Path), res.Output, res.Message)
	case convert.StatusSkipped:
		fmt.Printf("%s: skipped, %s\n", filepath.Base(res.Path), res.Message)
	default:
		fmt.Printf("%s: FAILED, %v\n", filepath.Base(res.Path), res.Err)
	}
}

func printSummary(results []convert.Result, summary convert.Summary) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"File", "Status", "Output", "Sanitized cells"})
	for _, r := range results {
		out := r.Output
		if out == "" {
			out = "-"
		}
		t.AppendRow(table.Row{filepath.Base(r.Path), r.Status.String(), out, r.Sanitized})
	}
	t.AppendFooter(table.Row{
		fmt.Sprintf("%d files", summary.Total),
		fmt.Sprintf("%d ok / %d skipped / %d failed", summary.Succeeded, summary.Skipped, summary.Failed),
		"",
		summary.SanitizedCells,
	})
	t.Render()
}

func init() {
	convertCmd.Flags().IntVar(&concurrency, "concurrency", 1, "How many files to process at once")
}
