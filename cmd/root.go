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
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ecomdata/safecsv/internal/config"
	"github.com/ecomdata/safecsv/internal/logging"
)

var (
	configFile string
	logLevel   string
	outDir     string
	onConflict string

	cfg    config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "safecsv",
	Short: "Safely convert messy delimited exports to spreadsheets",
	Long: `safecsv converts delimited text exports of unknown encoding into
xlsx files without corrupting identifiers (long numbers, leading zeros,
date-like codes) and with spreadsheet formula injection neutralized.
It also generates marketplace sales reports and anonymized copies of
exports.`,
	PersistentPreRunE: initConfigAndLogger,
}

// initConfigAndLogger loads configuration and builds the logger before
// any subcommand runs.
func initConfigAndLogger(cmd *cobra.Command, args []string) error {
	var err error
	if cfg, err = config.Load(configFile); err != nil {
		return err
	}
	if logger, err = logging.New(logLevel); err != nil {
		return err
	}
	return nil
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	defer func() {
		if logger != nil {
			_ = logger.Sync()
		}
	}()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to an optional YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&outDir, "out-dir", "o", "", "Output directory (defaults to each input file's directory)")
	rootCmd.PersistentFlags().StringVar(&onConflict, "on-conflict", "rename", "What to do when the output file exists (skip, overwrite, rename)")

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(salesReportCmd)
	rootCmd.AddCommand(anonymizeCmd)
}
