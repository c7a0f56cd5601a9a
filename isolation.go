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

import "net/http"

// Cross-origin isolation headers and the values we set them to.
const (
	OpenerPolicyHeader   = "Cross-Origin-Opener-Policy"
	EmbedderPolicyHeader = "Cross-Origin-Embedder-Policy"

	OpenerPolicySameOrigin    = "same-origin"
	EmbedderPolicyRequireCorp = "require-corp"
)

// CrossOriginIsolation returns a handler setting the COOP and COEP headers on
// every response, regardless of route and status, before passing the request
// on to next. Browsers then allow the served documents access to
// SharedArrayBuffer and high-resolution timers.
//
// The headers are set before next runs, as headers cannot be changed anymore
// after next has written the status. This way even error responses and CORS
// preflight answers carry them.
func CrossOriginIsolation(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set(OpenerPolicyHeader, OpenerPolicySameOrigin)
		h.Set(EmbedderPolicyHeader, EmbedderPolicyRequireCorp)
		next.ServeHTTP(w, r)
	})
}
