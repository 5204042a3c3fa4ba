// Copyright 2022 Stock Parfait

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package quandl

import (
	"fmt"
)

// ParseError is returned when a response body cannot be decoded into the
// expected result. The result is never partially decoded.
type ParseError struct {
	Reason string
}

var _ error = &ParseError{}

func parseErrorf(format string, args ...interface{}) *ParseError {
	return &ParseError{Reason: fmt.Sprintf(format, args...)}
}

func (e *ParseError) Error() string {
	return "parsing failed: " + e.Reason
}

// TransportError is returned when the request could not be completed: a
// network failure, or a response with a non-2xx status. When the API explains
// the failure, Code and Message carry its "quandl_error" fields.
type TransportError struct {
	Status  int    // HTTP status, 0 if no response was received
	Code    string // Quandl error code, e.g. "QECx02"
	Message string // Quandl error message
	Err     error  // the underlying error, if any
}

var _ error = &TransportError{}

func (e *TransportError) Error() string {
	msg := "transport failed"
	if e.Status != 0 {
		msg += fmt.Sprintf(": HTTP status %d", e.Status)
	}
	if e.Code != "" || e.Message != "" {
		msg += fmt.Sprintf(": %s %s", e.Code, e.Message)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *TransportError) Unwrap() error {
	return e.Err
}
