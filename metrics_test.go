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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	spatest "github.com/thediveo/isolatedspa/test/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("metrics", func() {

	DescribeTable("bounds route labels",
		func(path, expected string) {
			Expect(routeLabel(path)).To(Equal(expected))
		},
		Entry(nil, "/api/v1/hello", "/api/v1/hello"),
		Entry(nil, "/api/v1/hello/", "static"),
		Entry(nil, "/", "static"),
		Entry(nil, "/some/client/route", "static"),
	)

	It("counts and times requests", func() {
		registry := prometheus.NewRegistry()
		m := NewMetrics(registry)
		h := m.Middleware(NewRouter(NewSPAHandler(embStaticFs, "index.html")))

		for i := 0; i < 2; i++ {
			h.ServeHTTP(spatest.NewRecorder(), httptest.NewRequest(http.MethodGet, HelloRoute, nil))
		}
		h.ServeHTTP(spatest.NewRecorder(), httptest.NewRequest(http.MethodPost, HelloRoute, nil))
		h.ServeHTTP(spatest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/some/route", nil))

		Expect(testutil.ToFloat64(m.RequestsTotal.WithLabelValues(HelloRoute, http.MethodGet, "200"))).
			To(Equal(2.0))
		Expect(testutil.ToFloat64(m.RequestsTotal.WithLabelValues(HelloRoute, http.MethodPost, "405"))).
			To(Equal(1.0))
		Expect(testutil.ToFloat64(m.RequestsTotal.WithLabelValues("static", http.MethodGet, "200"))).
			To(Equal(1.0))
		Expect(testutil.ToFloat64(m.ResponseBytes.WithLabelValues(HelloRoute))).
			To(BeNumerically(">=", 2*len(`"hello!"`)))
		Expect(testutil.CollectAndCount(m.RequestDurationSec)).To(Equal(3))
	})

})
