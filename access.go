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
	"net/http"

	"github.com/felixge/httpsnoop"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// RequestIDHeader carries the ID of a request, either as passed in by the
// client or a proxy, or freshly assigned.
const RequestIDHeader = "X-Request-Id"

// maxRequestIDLen limits the length of client-supplied request IDs.
const maxRequestIDLen = 128

// AccessLog returns middleware that makes sure each request has an ID, echoes
// it in the response, and logs each request at debug level. Client-supplied
// request IDs that are overly long or contain anything other than printable
// ASCII get replaced by fresh ones.
func AccessLog(logger log.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(RequestIDHeader)
			if !validRequestID(requestID) {
				requestID = uuid.NewString()
				r.Header.Set(RequestIDHeader, requestID)
			}
			w.Header().Set(RequestIDHeader, requestID)
			// Handlers further down might sanitize the path in place.
			path := r.URL.Path
			m := httpsnoop.CaptureMetrics(next, w, r)
			logger.WithFields(log.Fields{
				"request_id":  requestID,
				"method":      r.Method,
				"path":        path,
				"status":      m.Code,
				"bytes":       m.Written,
				"duration_ms": m.Duration.Milliseconds(),
				"remote_addr": r.RemoteAddr,
			}).Debug("request")
		})
	}
}

// validRequestID reports whether id is a non-empty request ID of at most
// maxRequestIDLen printable ASCII characters, excluding spaces.
func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] <= ' ' || id[i] > '~' {
			return false
		}
	}
	return true
}
