// Copyright 2026 Harald Albrecht.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package isolatedspa

import (
	"errors"
	"io/fs"
	"net/http"
)

// NormalizedHttpError writes an HTTP error status and message derived from the
// specified error, without leaking any internal server details from it.
func NormalizedHttpError(w http.ResponseWriter, err error) {
	code := normalizedStatus(err)
	http.Error(w, http.StatusText(code), code)
}

// normalizedStatus maps fs errors onto HTTP status codes; everything not
// related to missing or forbidden files is a server error.
func normalizedStatus(err error) int {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return http.StatusNotFound
	case errors.Is(err, fs.ErrPermission):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
