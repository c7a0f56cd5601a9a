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

	"github.com/gorilla/mux"
)

// NewRouter returns a router serving the Hello API endpoint and handing all
// other requests to the static handler. The router doesn't clean paths or
// redirect; the static handler takes care of sanitizing paths itself.
func NewRouter(static http.Handler) *mux.Router {
	r := mux.NewRouter().SkipClean(true)
	r.HandleFunc(HelloRoute, Hello).Methods(http.MethodGet, http.MethodHead)
	r.NotFoundHandler = static
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)
	return r
}

// methodNotAllowed answers requests to the Hello route using the wrong method.
func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Allow", servedMethods)
	http.Error(w, "405 method not allowed", http.StatusMethodNotAllowed)
}
