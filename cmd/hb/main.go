// Copyright 2019 The hb Authors. All rights reserved.
// Use of this source code is governed by the Apache License,
// Version 2.0, that can be found in the LICENSE file.

// Command hb is an HTTP benchmarking engine: it drives a set of HTTP
// requests at a configurable concurrency and reports per-request
// results plus aggregate summaries and time-series buckets.
package main

import (
	"fmt"
	"os"

	"github.com/bpowers/hb/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "hb:", err)
		os.Exit(1)
	}
}
