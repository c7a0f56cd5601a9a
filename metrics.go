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
	"strconv"

	"github.com/felixge/httpsnoop"
	"github.com/prometheus/client_golang/prometheus"
)

// staticRoute labels all requests handled by the static asset responder.
const staticRoute = "static"

// Metrics bundles the prometheus collectors of the server.
type Metrics struct {
	RequestsTotal      *prometheus.CounterVec
	RequestDurationSec *prometheus.HistogramVec
	ResponseBytes      *prometheus.CounterVec
}

// NewMetrics returns a new set of collectors, registered with registry.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "isolatedspa_http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"route", "method", "code"}),
		RequestDurationSec: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "isolatedspa_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		ResponseBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "isolatedspa_http_response_bytes_total",
			Help: "Total number of HTTP response body bytes written.",
		}, []string{"route"}),
	}
	registry.MustRegister(
		m.RequestsTotal,
		m.RequestDurationSec,
		m.ResponseBytes,
	)
	return m
}

// Middleware returns a handler counting and timing the requests passed on to
// next.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := routeLabel(r.URL.Path)
		snoop := httpsnoop.CaptureMetrics(next, w, r)
		m.RequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(snoop.Code)).Inc()
		m.RequestDurationSec.WithLabelValues(route, r.Method).Observe(snoop.Duration.Seconds())
		m.ResponseBytes.WithLabelValues(route).Add(float64(snoop.Written))
	})
}

// routeLabel keeps the label cardinality bounded, as the static responder
// answers any path.
func routeLabel(path string) string {
	if path == HelloRoute {
		return HelloRoute
	}
	return staticRoute
}
