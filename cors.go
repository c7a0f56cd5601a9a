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
	"slices"
	"sync"
	"sync/atomic"

	"github.com/rs/cors"
)

// standardMethods lists the HTTP methods the base CORS policy allows; rs/cors
// doesn't know a method wildcard.
var standardMethods = []string{
	http.MethodGet,
	http.MethodHead,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodConnect,
	http.MethodOptions,
	http.MethodTrace,
}

// maxExtraPolicies limits the number of cached CORS policies for non-standard
// methods, as clients are free to make up method names.
const maxExtraPolicies = 64

// permissiveCORS applies the base CORS policy to requests with standard
// methods, and policies additionally allowing exactly the one non-standard
// method to all other requests, such as WebDAV's PROPFIND.
type permissiveCORS struct {
	next     http.Handler
	standard *cors.Cors
	extra    sync.Map // method name -> *cors.Cors
	extras   atomic.Int32
}

// PermissiveCORS returns a handler applying a CORS policy that permits
// requests from any origin, with any method and any request headers, and that
// exposes all response headers. Preflight requests are answered directly and
// never reach next.
func PermissiveCORS(next http.Handler) http.Handler {
	return &permissiveCORS{
		next:     next,
		standard: newPermissiveCors(standardMethods),
	}
}

func newPermissiveCors(methods []string) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: methods,
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"*"},
	})
}

func (p *permissiveCORS) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	method := r.Method
	if r.Method == http.MethodOptions {
		if preflightMethod := r.Header.Get("Access-Control-Request-Method"); preflightMethod != "" {
			method = preflightMethod
		}
	}
	p.policy(method).ServeHTTP(w, r, p.next.ServeHTTP)
}

// policy returns the CORS policy allowing the specified method. As rs/cors
// matches methods case-sensitively, so does policy.
func (p *permissiveCORS) policy(method string) *cors.Cors {
	if slices.Contains(standardMethods, method) {
		return p.standard
	}
	if c, ok := p.extra.Load(method); ok {
		return c.(*cors.Cors)
	}
	c := newPermissiveCors(append(slices.Clone(standardMethods), method))
	if p.extras.Load() >= maxExtraPolicies {
		return c
	}
	actual, loaded := p.extra.LoadOrStore(method, c)
	if !loaded {
		p.extras.Add(1)
	}
	return actual.(*cors.Cors)
}
