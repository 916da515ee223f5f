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
	"errors"
	"fmt"
)

// ErrWriteFailure represents a destination that could not be written,
// typically because the file is locked by a spreadsheet application or
// the directory is not writable. It fails one file, never the batch.
type ErrWriteFailure struct {
	Path string
	Err  error
}

func (e *ErrWriteFailure) Error() string {
	return fmt.Sprintf("failed to write output file %s: %v", e.Path, e.Err)
}

func (e *ErrWriteFailure) Unwrap() error {
	return errors.Unwrap(e.Err)
}

// ErrLoadFailure represents a full-file load that could not complete.
type ErrLoadFailure struct {
	Path string
	Err  error
}

func (e *ErrLoadFailure) Error() string {
	return fmt.Sprintf("failed to load file %s: %v", e.Path, e.Err)
}

func (e *ErrLoadFailure) Unwrap() error {
	return errors.Unwrap(e.Err)
}
