// Copyright 2019 The hb Authors. All rights reserved.
// Use of this source code is governed by the Apache License,
// Version 2.0, that can be found in the LICENSE file.

package cli

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// commonOpts holds the flags shared across every subcommand (spec.md
// §6's "Common options"), plus --config.
type commonOpts struct {
	input              string
	output             string
	concurrency        int
	connectionPoolSize int
	threads            int
	logLevel           string
	configPath         string
}

func newCommonOpts() *commonOpts {
	return &commonOpts{
		input:              "-",
		output:             "-",
		concurrency:        32,
		connectionPoolSize: 4096,
		threads:            2,
		logLevel:           "warning",
	}
}

func addCommonFlags(cmd *cobra.Command, o *commonOpts) {
	cmd.Flags().StringVarP(&o.input, "input", "i", o.input, "input file, or - for stdin")
	cmd.Flags().StringVarP(&o.output, "output", "o", o.output, "output file, or - for stdout")
	cmd.Flags().IntVarP(&o.concurrency, "concurrency", "c", o.concurrency, "number of concurrent workers")
	cmd.Flags().IntVar(&o.connectionPoolSize, "connection-pool-size", o.connectionPoolSize, "max idle connections across all endpoints")
	cmd.Flags().IntVarP(&o.threads, "threads", "t", o.threads, "OS thread parallelism (GOMAXPROCS)")
	cmd.Flags().StringVarP(&o.logLevel, "loglevel", "l", o.logLevel, "panic|fatal|error|warning|info|debug|trace")
	cmd.Flags().StringVar(&o.configPath, "config", "", "optional YAML file of flag defaults")
}

// resolve applies any --config file defaults for flags the user didn't
// pass explicitly, then returns a ready-to-use logger built from the
// resulting loglevel.
func (o *commonOpts) resolve(cmd *cobra.Command) (*logrus.Logger, error) {
	defaults, err := loadFileDefaults(o.configPath)
	if err != nil {
		return nil, err
	}
	defaults.apply(o, cmd.Flags().Changed)

	level, err := logrus.ParseLevel(o.logLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid loglevel %q: %w", o.logLevel, err)
	}
	logger := logrus.New()
	logger.SetLevel(level)
	return logger, nil
}

// NewRootCommand builds the hb command tree: run, the five URL-taking
// subcommands (get/head/post/put/delete), and the two post-processing
// subcommands (summary, time-series).
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "hb",
		Short:         "hb drives HTTP requests at a configurable concurrency and reports results",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newRunCommand())
	for _, m := range urlMethods {
		root.AddCommand(newURLCommand(m))
	}
	root.AddCommand(newSummaryCommand())
	root.AddCommand(newTimeSeriesCommand())

	return root
}
