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

package main

import (
	"context"
	"io"
	"net"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/thediveo/isolatedspa"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/thediveo/success"
)

var _ = Describe("isolatedspa command", func() {

	DescribeTable("defaults to serving dist/index.html on port 10001",
		func(flag, expected string) {
			cmd := newRootCmd()
			Expect(cmd.Flags().Lookup(flag)).NotTo(BeNil())
			Expect(cmd.Flags().Lookup(flag).DefValue).To(Equal(expected))
		},
		Entry(nil, "addr", "0.0.0.0:10001"),
		Entry(nil, "dir", "dist"),
		Entry(nil, "index", "index.html"),
		Entry(nil, "rewrite-base", "false"),
		Entry(nil, "metrics-addr", ""),
		Entry(nil, "log-level", "info"),
		Entry(nil, "shutdown-timeout", isolatedspa.DefaultShutdownTimeout.String()),
	)

	It("rejects positional arguments", func() {
		cmd := newRootCmd()
		cmd.SetArgs([]string{"foobar"})
		cmd.SetOut(io.Discard)
		cmd.SetErr(io.Discard)
		Expect(cmd.Execute()).To(HaveOccurred())
	})

	It("rejects unknown log levels", func() {
		cmd := newRootCmd()
		cmd.SetArgs([]string{"--log-level", "chatty"})
		Expect(cmd.Execute()).To(MatchError(ContainSubstring("chatty")))
	})

	DescribeTable("creates loggers",
		func(level string, expected log.Level) {
			logger := Successful(newLogger(level))
			Expect(logger.GetLevel()).To(Equal(expected))
		},
		Entry(nil, "debug", log.DebugLevel),
		Entry(nil, "info", log.InfoLevel),
		Entry(nil, "warn", log.WarnLevel),
	)

	It("fails fast when the port is taken", func(ctx context.Context) {
		ln := Successful(net.Listen("tcp", "127.0.0.1:0"))
		defer ln.Close()
		cmd := newRootCmd()
		cmd.SetArgs([]string{"--addr", ln.Addr().String(), "--log-level", "error"})
		done := make(chan error, 1)
		go func() { done <- cmd.ExecuteContext(ctx) }()
		Eventually(done).Within(2 * time.Second).Should(Receive(
			MatchError(ContainSubstring("cannot listen on"))))
	})

})
