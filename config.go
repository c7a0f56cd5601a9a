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

import "time"

// Defaults of the server configuration.
const (
	DefaultAddr            = "0.0.0.0:10001"
	DefaultDir             = "dist"
	DefaultIndex           = "index.html"
	DefaultLogLevel        = "info"
	DefaultShutdownTimeout = 10 * time.Second
)

// Config describes where the server listens, what it serves, and how it
// reports.
type Config struct {
	Addr            string        // TCP address to listen on.
	Dir             string        // directory with the static assets.
	Index           string        // index document relative to Dir, the SPA fallback.
	RewriteBase     bool          // rewrite the index' base element from proxy headers.
	MetricsAddr     string        // separate TCP address for /metrics; empty disables.
	LogLevel        string        // logrus level name.
	ShutdownTimeout time.Duration // grace period for in-flight requests when stopping.
}

// DefaultConfig returns the configuration serving "dist/index.html" on port
// 10001 of all interfaces, without metrics.
func DefaultConfig() Config {
	return Config{
		Addr:            DefaultAddr,
		Dir:             DefaultDir,
		Index:           DefaultIndex,
		LogLevel:        DefaultLogLevel,
		ShutdownTimeout: DefaultShutdownTimeout,
	}
}
