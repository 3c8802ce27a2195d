// Copyright 2019 The hb Authors. All rights reserved.
// Use of this source code is governed by the Apache License,
// Version 2.0, that can be found in the LICENSE file.

// Package stats computes the Summary and TimeSeries post-processing
// statistics over a finished RequestResult list.
package stats

import (
	"math"
	"sort"

	"github.com/bpowers/hb/internal/clock"
	"github.com/bpowers/hb/internal/request"
)

// Count breaks down results by outcome.
type Count struct {
	Total int `json:"total"`
	Ok    int `json:"ok"`
	Error int `json:"error"`
}

// Latency summarizes a set of elapsed times.
type Latency struct {
	Min    clock.Seconds `json:"min"`
	Median clock.Seconds `json:"median"`
	Mean   clock.Seconds `json:"mean"`
	Max    clock.Seconds `json:"max"`
	Var    float64       `json:"var"`
	SD     float64       `json:"sd"`
}

// Summary is the aggregate report over a completed run.
type Summary struct {
	Count    Count            `json:"count"`
	Status   map[uint16]int   `json:"status"`
	Duration clock.Seconds    `json:"duration"`
	RPS      float64          `json:"rps"`
	Latency  Latency          `json:"latency"`
}

// NewSummary computes a Summary from results. Results may be in any
// order; they are not mutated.
func NewSummary(results []request.RequestResult) Summary {
	count := Count{Total: len(results)}
	status := make(map[uint16]int)
	var duration clock.Seconds
	elapsed := make([]float64, len(results))

	for i, r := range results {
		if r.IsOk() {
			count.Ok++
			status[r.Response.Status]++
		} else {
			count.Error++
		}
		if r.EndTime > duration {
			duration = r.EndTime
		}
		elapsed[i] = float64(r.Elapsed)
	}

	var rps float64
	if duration > 0 {
		rps = float64(count.Total) / float64(duration)
	}

	return Summary{
		Count:    count,
		Status:   status,
		Duration: duration,
		RPS:      rps,
		Latency:  newLatency(elapsed),
	}
}

func newLatency(samples []float64) Latency {
	if len(samples) == 0 {
		return Latency{}
	}
	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)

	n := len(sorted)
	var sum float64
	for _, v := range sorted {
		sum += v
	}
	mean := sum / float64(n)

	return Latency{
		Min:    clock.Seconds(sorted[0]),
		Median: clock.Seconds(sorted[n/2]),
		Mean:   clock.Seconds(mean),
		Max:    clock.Seconds(sorted[n-1]),
		Var:    unbiasedVariance(sorted, mean),
		SD:     math.Sqrt(unbiasedVariance(sorted, mean)),
	}
}

// unbiasedVariance computes the sample variance with Bessel's
// correction (divide by n-1). Both the empty and single-sample cases
// are defined to be 0, matching the spec's variance-formula invariant.
func unbiasedVariance(samples []float64, mean float64) float64 {
	n := len(samples)
	if n < 2 {
		return 0
	}
	var sumSq float64
	for _, v := range samples {
		d := v - mean
		sumSq += d * d
	}
	return sumSq / float64(n-1)
}
