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

// Package detect decides how to read a delimited text file of unknown
// origin: which character encoding its bytes use and which single
// character separates its fields.
package detect

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/saintfish/chardet"
	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"

	"github.com/ecomdata/safecsv/internal/config"
)

// Result is the outcome of one detection pass over a source file.
type Result struct {
	// Encoding is an IANA charset name accepted by DecoderFor.
	Encoding string
	// Confidence is the charset detector's score in [0, 1].
	Confidence float64
	// Delimiter is the sniffed field separator.
	Delimiter rune
}

// ErrEmptySource signals a zero-length input file. The caller must skip
// the file instead of loading it.
type ErrEmptySource struct {
	Path string
}

func (e *ErrEmptySource) Error() string {
	return fmt.Sprintf("empty source file: %s", e.Path)
}

// delimiterCandidates is the separator set the sniffer considers, in
// preference order for ties.
var delimiterCandidates = []rune{',', ';', '\t', '|'}

// Detector inspects a bounded head of a file. It holds no per-file
// state and is safe for concurrent use.
type Detector struct {
	cfg    config.Config
	logger *zap.Logger
}

func NewDetector(cfg config.Config, logger *zap.Logger) *Detector {
	return &Detector{cfg: cfg, logger: logger}
}

// Detect reads a bounded prefix of the file and returns the chosen
// encoding, its confidence and the sniffed delimiter. Detection never
// fails on odd content: anything short of an empty or unreadable file
// degrades to the configured fallback encoding and a comma.
func (d *Detector) Detect(path string) (Result, error) {
	prefix, err := readPrefix(path, d.cfg.DetectBytes)
	if err != nil {
		return Result{}, err
	}
	if len(prefix) == 0 {
		return Result{}, &ErrEmptySource{Path: path}
	}

	res := Result{
		Encoding:  d.cfg.FallbackEncoding,
		Delimiter: ',',
	}

	best, err := chardet.NewTextDetector().DetectBest(prefix)
	if err != nil || best == nil || best.Charset == "" {
		d.logger.Warn("charset detection failed, using fallback encoding",
			zap.String("fallback", res.Encoding), zap.Error(err))
	} else {
		res.Encoding = normalizeEncoding(best.Charset)
		res.Confidence = float64(best.Confidence) / 100
		d.logger.Debug("charset detected",
			zap.String("charset", best.Charset),
			zap.String("normalized", res.Encoding),
			zap.Float64("confidence", res.Confidence))
	}

	// The delimiter sniff works on decoded text, never raw bytes.
	// Replacement runes from a slightly-off encoding guess are tolerated
	// here; only the full load is strict about decodability.
	if n := d.cfg.SniffBytes; n < len(prefix) {
		prefix = prefix[:n]
	}
	res.Delimiter = sniffDelimiter(decodeLossy(res.Encoding, prefix))
	d.logger.Debug("delimiter sniffed", zap.String("delimiter", string(res.Delimiter)))

	return res, nil
}

// normalizeEncoding maps every member of the GB family of double-byte
// Chinese encodings (GB2312, GBK, GB18030) to GB18030. GB18030 is the
// superset: it decodes any text the subsets produce, while the subsets
// cannot decode GB18030-only characters.
func normalizeEncoding(charset string) string {
	if strings.Contains(strings.ToLower(charset), "gb") {
		return "GB18030"
	}
	return charset
}

// DecoderFor resolves a charset name from detection to a decoder.
func DecoderFor(name string) (encoding.Encoding, error) {
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("encoding %q has no decoder", name)
	}
	return enc, nil
}

// decodeLossy converts prefix bytes to UTF-8, accepting replacement
// characters for anything the encoding cannot represent.
func decodeLossy(name string, prefix []byte) string {
	enc, err := DecoderFor(name)
	if err != nil {
		return string(prefix)
	}
	decoded, err := enc.NewDecoder().Bytes(prefix)
	if err != nil {
		return string(prefix)
	}
	return string(decoded)
}

// sniffDelimiter picks the candidate that appears on every inspected
// line with a consistent, non-zero count. The last line is dropped when
// more than one is available since the prefix may have cut it short.
// Ties go to the earlier candidate; no consistent candidate means comma.
func sniffDelimiter(text string) rune {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	var sample []string
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			sample = append(sample, line)
		}
		if len(sample) == 10 {
			break
		}
	}
	if len(sample) > 1 {
		sample = sample[:len(sample)-1]
	}
	if len(sample) == 0 {
		return ','
	}

	bestDelim := ','
	bestCount := 0
	for _, cand := range delimiterCandidates {
		count := strings.Count(sample[0], string(cand))
		if count == 0 {
			continue
		}
		consistent := true
		for _, line := range sample[1:] {
			if strings.Count(line, string(cand)) != count {
				consistent = false
				break
			}
		}
		if consistent && count > bestCount {
			bestDelim = cand
			bestCount = count
		}
	}
	return bestDelim
}

func readPrefix(path string, n int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file for detection: %w", err)
	}
	defer f.Close()

	buf := make([]byte, n)
	read, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("failed to read detection prefix: %w", err)
	}
	return buf[:read], nil
}
