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
package convert

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ConflictPolicy says what to do when the derived output name already
// exists on disk.
type ConflictPolicy string

const (
	ConflictSkip      ConflictPolicy = "skip"
	ConflictOverwrite ConflictPolicy = "overwrite"
	ConflictRename    ConflictPolicy = "rename"
)

// ParseConflictPolicy validates a policy flag value.
func ParseConflictPolicy(s string) (ConflictPolicy, error) {
	switch p := ConflictPolicy(strings.ToLower(s)); p {
	case ConflictSkip, ConflictOverwrite, ConflictRename:
		return p, nil
	default:
		return "", fmt.Errorf("unsupported conflict policy: %q (use skip, overwrite or rename)", s)
	}
}

// outputPath derives the output name from the input name: the fixed
// prefix plus the original base name with an .xlsx extension, next to
// the input unless an output directory was supplied.
func outputPath(prefix, inputPath, outDir string) string {
	base := filepath.Base(inputPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	dir := filepath.Dir(inputPath)
	if outDir != "" {
		dir = outDir
	}
	return filepath.Join(dir, prefix+base+".xlsx")
}

// NameAllocator is the single authority for output names in a batch.
// Two files processed concurrently must not resolve the same collision
// name, so the existence check and the reservation happen under one
// lock.
type NameAllocator struct {
	mu    sync.Mutex
	taken map[string]struct{}
}

func NewNameAllocator() *NameAllocator {
	return &NameAllocator{taken: make(map[string]struct{})}
}

// Allocate resolves the final path for the wanted output name under the
// given policy. ok is false when the policy says to skip the file.
func (a *NameAllocator) Allocate(want string, policy ConflictPolicy) (path string, ok bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch policy {
	case ConflictOverwrite:
		a.taken[want] = struct{}{}
		return want, true
	case ConflictSkip:
		if a.claimed(want) {
			return "", false
		}
		a.taken[want] = struct{}{}
		return want, true
	default: // ConflictRename
		if !a.claimed(want) {
			a.taken[want] = struct{}{}
			return want, true
		}
		ext := filepath.Ext(want)
		stem := strings.TrimSuffix(want, ext)
		for n := 1; ; n++ {
			candidate := fmt.Sprintf("%s (%d)%s", stem, n, ext)
			if !a.claimed(candidate) {
				a.taken[candidate] = struct{}{}
				return candidate, true
			}
		}
	}
}

// claimed reports whether the name exists on disk or was reserved
// earlier in this batch. Callers hold the lock.
func (a *NameAllocator) claimed(path string) bool {
	if _, reserved := a.taken[path]; reserved {
		return true
	}
	_, err := os.Stat(path)
	return err == nil
}
