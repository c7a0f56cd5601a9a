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

// isolatedspa serves a pre-built single page application from a directory,
// in a cross-origin isolated context and with permissive CORS, together with a
// tiny JSON API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/thediveo/isolatedspa"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		log.WithError(err).Fatal("isolatedspa failed")
	}
}

func newRootCmd() *cobra.Command {
	cfg := isolatedspa.DefaultConfig()
	cmd := &cobra.Command{
		Use:           "isolatedspa",
		Short:         "serves a cross-origin isolated SPA and its API",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(cfg.LogLevel)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return isolatedspa.NewServer(cfg, isolatedspa.WithLogger(logger)).
				ListenAndServe(ctx)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&cfg.Addr, "addr", cfg.Addr, "TCP address to listen on")
	flags.StringVar(&cfg.Dir, "dir", cfg.Dir, "directory with the SPA's static assets")
	flags.StringVar(&cfg.Index, "index", cfg.Index, "SPA index document inside the asset directory")
	flags.BoolVar(&cfg.RewriteBase, "rewrite-base", cfg.RewriteBase,
		"rewrite the index' <base href> from X-Forwarded-Prefix/X-Forwarded-Uri")
	flags.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr,
		"TCP address to serve prometheus /metrics on; disabled if empty")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (trace, debug, info, warn, error)")
	flags.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", cfg.ShutdownTimeout,
		"grace period for in-flight requests when stopping")
	return cmd
}

// newLogger returns a logger writing to stderr at the specified level.
func newLogger(level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	logger := log.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(lvl)
	return logger, nil
}
