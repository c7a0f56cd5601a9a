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
	"net/http/httptest"

	spatest "github.com/thediveo/isolatedspa/test/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("cross-origin isolation", func() {

	DescribeTable("sets COOP and COEP before any response gets written",
		func(next http.HandlerFunc) {
			w := spatest.NewRecorder()
			CrossOriginIsolation(next).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
			sent := w.SentHeader()
			Expect(sent).NotTo(BeNil())
			Expect(sent.Get(OpenerPolicyHeader)).To(Equal("same-origin"))
			Expect(sent.Get(EmbedderPolicyHeader)).To(Equal("require-corp"))
		},
		Entry("explicit OK", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
		Entry("implicit OK", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("foo"))
		}),
		Entry("not found", http.NotFound),
		Entry("server error", func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "kaputt", http.StatusInternalServerError)
		}),
		Entry("no content", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}),
	)

	It("overrides policies set by clients of the handler chain", func() {
		w := spatest.NewRecorder()
		w.Header().Set(OpenerPolicyHeader, "unsafe-none")
		CrossOriginIsolation(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		})).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		Expect(w.SentHeader().Values(OpenerPolicyHeader)).To(ConsistOf("same-origin"))
	})

})
