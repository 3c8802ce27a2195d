// Copyright 2019 The hb Authors. All rights reserved.
// Use of this source code is governed by the Apache License,
// Version 2.0, that can be found in the LICENSE file.

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/bpowers/hb/internal/request"
)

// openInput opens path for reading, treating "-" as stdin.
func openInput(path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening input %s: %w", path, err)
	}
	return f, nil
}

// openOutput opens path for writing, treating "-" as stdout.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopWriteCloser{os.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating output %s: %w", path, err)
	}
	return f, nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// readRequests decodes a JSON array of Request from r and validates
// each element.
func readRequests(r io.Reader) ([]request.Request, error) {
	var reqs []request.Request
	if err := json.NewDecoder(r).Decode(&reqs); err != nil {
		return nil, fmt.Errorf("decoding request list: %w", err)
	}
	for i := range reqs {
		if err := reqs[i].Validate(); err != nil {
			return nil, fmt.Errorf("request %d: %w", i, err)
		}
	}
	return reqs, nil
}

// readResults decodes a JSON array of RequestResult from r, the format
// produced by writeResults — used by the summary and time-series
// subcommands to consume a prior run's output.
func readResults(r io.Reader) ([]request.RequestResult, error) {
	var results []request.RequestResult
	if err := json.NewDecoder(r).Decode(&results); err != nil {
		return nil, fmt.Errorf("decoding result list: %w", err)
	}
	return results, nil
}

// writeJSON encodes v to w as indented JSON followed by a newline.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	return nil
}
