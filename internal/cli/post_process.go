// Copyright 2019 The hb Authors. All rights reserved.
// Use of this source code is governed by the Apache License,
// Version 2.0, that can be found in the LICENSE file.

package cli

import (
	"github.com/spf13/cobra"

	"github.com/bpowers/hb/internal/stats"
)

func newSummaryCommand() *cobra.Command {
	o := newCommonOpts()
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "compute aggregate counts, status breakdown and latency statistics from a result list read from --input",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := openInput(o.input)
			if err != nil {
				return err
			}
			defer in.Close()

			results, err := readResults(in)
			if err != nil {
				return err
			}

			out, err := openOutput(o.output)
			if err != nil {
				return err
			}
			defer out.Close()
			return writeJSON(out, stats.NewSummary(results))
		},
	}
	addCommonFlags(cmd, o)
	return cmd
}

func newTimeSeriesCommand() *cobra.Command {
	o := newCommonOpts()
	cmd := &cobra.Command{
		Use:   "time-series",
		Short: "bucket a result list read from --input into one-second time-series samples",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := openInput(o.input)
			if err != nil {
				return err
			}
			defer in.Close()

			results, err := readResults(in)
			if err != nil {
				return err
			}

			out, err := openOutput(o.output)
			if err != nil {
				return err
			}
			defer out.Close()
			return writeJSON(out, stats.NewTimeSeries(results))
		},
	}
	addCommonFlags(cmd, o)
	return cmd
}
