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
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds all static configuration for the conversion pipeline.
// A Config is passed by value into constructors and never mutated after
// Load returns, so concurrent pipelines can share one safely.
type Config struct {
	// SampleRows bounds how many decoded rows the column classifier may
	// inspect. Classification cost is independent of total file size.
	SampleRows int

	// PrecisionThreshold is the digit length at which a purely numeric
	// string forces its whole column to text. Deliberately below Excel's
	// 15-digit precision limit: shorter all-digit values already get
	// rendered in scientific notation.
	PrecisionThreshold int

	// RiskyKeywords are matched case-insensitively in cells that start
	// with a formula trigger character. They cover shell invocations,
	// executable references and remote-content formula functions.
	RiskyKeywords []string

	// TriggerChars are the characters that make a spreadsheet evaluate
	// a cell as a formula.
	TriggerChars string

	// OutputPrefix is prepended to the input base name when deriving the
	// output file name.
	OutputPrefix string

	// DetectBytes / SniffBytes bound how much of the file head is read
	// for charset detection and delimiter sniffing respectively.
	DetectBytes int
	SniffBytes  int

	// FallbackEncoding is used when charset detection fails outright.
	FallbackEncoding string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		SampleRows:         1000,
		PrecisionThreshold: 12,
		RiskyKeywords: []string{
			"cmd", "powershell", "exec", ".exe", "call", "register.id",
			"urlmon", "webservice", "filterxml", "hyperlink",
		},
		TriggerChars:     "=+-@",
		OutputPrefix:     "xlsx_",
		DetectBytes:      10000,
		SniffBytes:       2048,
		FallbackEncoding: "GB18030",
	}
}

// Load returns the default configuration, overridden by an optional YAML
// config file and SAFECSV_* environment variables.
func Load(path string) (Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetDefault("sample_rows", cfg.SampleRows)
	v.SetDefault("precision_threshold", cfg.PrecisionThreshold)
	v.SetDefault("risky_keywords", cfg.RiskyKeywords)
	v.SetDefault("trigger_chars", cfg.TriggerChars)
	v.SetDefault("output_prefix", cfg.OutputPrefix)
	v.SetDefault("detect_bytes", cfg.DetectBytes)
	v.SetDefault("sniff_bytes", cfg.SniffBytes)
	v.SetDefault("fallback_encoding", cfg.FallbackEncoding)

	v.SetEnvPrefix("SAFECSV")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return cfg, fmt.Errorf("failed to read config file %q: %w", path, err)
		}
	}

	cfg.SampleRows = v.GetInt("sample_rows")
	cfg.PrecisionThreshold = v.GetInt("precision_threshold")
	cfg.RiskyKeywords = v.GetStringSlice("risky_keywords")
	cfg.TriggerChars = v.GetString("trigger_chars")
	cfg.OutputPrefix = v.GetString("output_prefix")
	cfg.DetectBytes = v.GetInt("detect_bytes")
	cfg.SniffBytes = v.GetInt("sniff_bytes")
	cfg.FallbackEncoding = v.GetString("fallback_encoding")

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.SampleRows <= 0 {
		return fmt.Errorf("sample_rows must be positive, got %d", c.SampleRows)
	}
	if c.PrecisionThreshold <= 0 {
		return fmt.Errorf("precision_threshold must be positive, got %d", c.PrecisionThreshold)
	}
	if c.TriggerChars == "" {
		return fmt.Errorf("trigger_chars must not be empty")
	}
	if len(c.RiskyKeywords) == 0 {
		return fmt.Errorf("risky_keywords must not be empty")
	}
	return nil
}
