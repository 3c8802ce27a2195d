// Copyright 2019 The hb Authors. All rights reserved.
// Use of this source code is governed by the Apache License,
// Version 2.0, that can be found in the LICENSE file.

package cli

import (
	"context"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/bpowers/hb/internal/request"
	"github.com/bpowers/hb/internal/runner"
)

const userAgent = "hb/1.0"

// driveRequests wires the common run pipeline: resolve flags/config,
// build a logger, honor the --threads GOMAXPROCS mapping (Open
// Question 3), and hand requests to the runner.
func driveRequests(cmd *cobra.Command, o *commonOpts, requests []request.Request) ([]request.RequestResult, error) {
	logger, err := o.resolve(cmd)
	if err != nil {
		return nil, err
	}

	runtime.GOMAXPROCS(o.threads)

	return runner.Run(context.Background(), requests, runner.Config{
		Concurrency:        o.concurrency,
		ConnectionPoolSize: o.connectionPoolSize,
		UserAgent:          userAgent,
		Logger:             logger,
	})
}

func newRunCommand() *cobra.Command {
	o := newCommonOpts()
	cmd := &cobra.Command{
		Use:   "run",
		Short: "drive the requests read from --input and write results to --output",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := openInput(o.input)
			if err != nil {
				return err
			}
			defer in.Close()

			requests, err := readRequests(in)
			if err != nil {
				return err
			}

			results, err := driveRequests(cmd, o, requests)
			if err != nil {
				return err
			}

			out, err := openOutput(o.output)
			if err != nil {
				return err
			}
			defer out.Close()
			return writeJSON(out, results)
		},
	}
	addCommonFlags(cmd, o)
	return cmd
}
