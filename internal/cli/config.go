// Copyright 2019 The hb Authors. All rights reserved.
// Use of this source code is governed by the Apache License,
// Version 2.0, that can be found in the LICENSE file.

// Package cli assembles the hb binary's Cobra command tree: flag
// parsing, the optional YAML config file, JSON I/O against stdin/
// stdout/files, and wiring into the runner/stats packages.
package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// fileDefaults is the shape of an optional --config YAML file. Only
// flags explicitly passed on the command line override these; zero
// values here mean "no override".
type fileDefaults struct {
	Concurrency        int    `yaml:"concurrency"`
	ConnectionPoolSize int    `yaml:"connection_pool_size"`
	Threads            int    `yaml:"threads"`
	LogLevel           string `yaml:"loglevel"`
}

// loadFileDefaults reads and parses path, returning a zero fileDefaults
// if path is empty.
func loadFileDefaults(path string) (fileDefaults, error) {
	var d fileDefaults
	if path == "" {
		return d, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return d, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &d); err != nil {
		return d, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return d, nil
}

// apply overwrites any flag in opts that the user left at
// its built-in default with the value from the config file, provided
// the file sets a non-zero value for it.
func (d fileDefaults) apply(o *commonOpts, changed func(name string) bool) {
	if !changed("concurrency") && d.Concurrency > 0 {
		o.concurrency = d.Concurrency
	}
	if !changed("connection-pool-size") && d.ConnectionPoolSize > 0 {
		o.connectionPoolSize = d.ConnectionPoolSize
	}
	if !changed("threads") && d.Threads > 0 {
		o.threads = d.Threads
	}
	if !changed("loglevel") && d.LogLevel != "" {
		o.logLevel = d.LogLevel
	}
}
