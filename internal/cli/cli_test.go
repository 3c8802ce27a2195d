// Copyright 2019 The hb Authors. All rights reserved.
// Use of this source code is governed by the Apache License,
// Version 2.0, that can be found in the LICENSE file.

package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bpowers/hb/internal/request"
)

func TestBuildRequestsCyclesURLs(t *testing.T) {
	o := &urlOpts{common: newCommonOpts(), requestCount: 5}
	reqs, err := buildRequests(request.GET, []string{"http://a/", "http://b/"}, o)
	if err != nil {
		t.Fatalf("buildRequests: %s", err)
	}
	if len(reqs) != 5 {
		t.Fatalf("len(reqs) = %d, want 5", len(reqs))
	}
	want := []string{"http://a/", "http://b/", "http://a/", "http://b/", "http://a/"}
	for i, r := range reqs {
		if r.URL != want[i] {
			t.Fatalf("reqs[%d].URL = %s, want %s", i, r.URL, want[i])
		}
		if r.Method != request.GET {
			t.Fatalf("reqs[%d].Method = %s, want GET", i, r.Method)
		}
	}
}

func TestBuildRequestsRejectsNoURLs(t *testing.T) {
	o := &urlOpts{common: newCommonOpts(), requestCount: 1}
	if _, err := buildRequests(request.GET, nil, o); err == nil {
		t.Fatal("expected an error for zero URLs")
	}
}

func TestBuildRequestsAttachesContentForPostPut(t *testing.T) {
	o := &urlOpts{common: newCommonOpts(), requestCount: 1, content: "payload"}
	reqs, err := buildRequests(request.POST, []string{"http://a/"}, o)
	if err != nil {
		t.Fatalf("buildRequests: %s", err)
	}
	if reqs[0].Content == nil || reqs[0].Content.Text == nil || *reqs[0].Content.Text != "payload" {
		t.Fatalf("Content = %+v, want text %q", reqs[0].Content, "payload")
	}
}

func TestBuildRequestsIgnoresContentForGet(t *testing.T) {
	o := &urlOpts{common: newCommonOpts(), requestCount: 1, content: "payload"}
	reqs, err := buildRequests(request.GET, []string{"http://a/"}, o)
	if err != nil {
		t.Fatalf("buildRequests: %s", err)
	}
	if reqs[0].Content != nil {
		t.Fatalf("Content = %+v, want nil for GET", reqs[0].Content)
	}
}

func TestFileDefaultsAppliedOnlyWhenUnset(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hb.yaml")
	yamlBody := "concurrency: 99\nloglevel: debug\n"
	if err := os.WriteFile(path, []byte(yamlBody), 0o644); err != nil {
		t.Fatalf("WriteFile: %s", err)
	}

	d, err := loadFileDefaults(path)
	if err != nil {
		t.Fatalf("loadFileDefaults: %s", err)
	}

	o := newCommonOpts()
	o.concurrency = 32 // as if left at its flag default
	d.apply(o, func(string) bool { return false })
	if o.concurrency != 99 {
		t.Fatalf("concurrency = %d, want 99 (from file)", o.concurrency)
	}
	if o.logLevel != "debug" {
		t.Fatalf("logLevel = %s, want debug", o.logLevel)
	}

	o2 := newCommonOpts()
	o2.concurrency = 32
	d.apply(o2, func(name string) bool { return name == "concurrency" })
	if o2.concurrency != 32 {
		t.Fatalf("concurrency = %d, want 32 (explicit flag wins over file)", o2.concurrency)
	}
}

func TestLoadFileDefaultsEmptyPath(t *testing.T) {
	d, err := loadFileDefaults("")
	if err != nil {
		t.Fatalf("loadFileDefaults(\"\"): %s", err)
	}
	if d.Concurrency != 0 || d.LogLevel != "" {
		t.Fatalf("expected zero-value defaults, got %+v", d)
	}
}

func TestNewRootCommandRegistersAllSubcommands(t *testing.T) {
	root := NewRootCommand()
	want := []string{"run", "get", "head", "delete", "put", "post", "summary", "time-series"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Fatalf("subcommand %q not found: %v", name, err)
		}
	}
}
