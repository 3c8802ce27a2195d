// Copyright 2019 The hb Authors. All rights reserved.
// Use of this source code is governed by the Apache License,
// Version 2.0, that can be found in the LICENSE file.

package stats

import (
	"math"
	"sort"

	"github.com/bpowers/hb/internal/clock"
	"github.com/bpowers/hb/internal/request"
)

// TimeSeriesLatency is the narrower latency shape time-series buckets
// carry: no variance/standard-deviation, unlike Summary.Latency.
type TimeSeriesLatency struct {
	Min    clock.Seconds `json:"min"`
	Median clock.Seconds `json:"median"`
	Mean   clock.Seconds `json:"mean"`
	Max    clock.Seconds `json:"max"`
}

// TimeSeriesItem is one whole-second bucket of request activity.
type TimeSeriesItem struct {
	Time     int64              `json:"time"`
	Requests int                `json:"requests"`
	Latency  TimeSeriesLatency  `json:"latency"`
}

// NewTimeSeries buckets results by floor(start_time) and computes
// per-bucket latency statistics. Seconds with no requests are omitted
// rather than zero-filled; buckets are returned sorted by time.
func NewTimeSeries(results []request.RequestResult) []TimeSeriesItem {
	buckets := make(map[int64][]float64)
	for _, r := range results {
		t := int64(math.Floor(float64(r.StartTime())))
		buckets[t] = append(buckets[t], float64(r.Elapsed))
	}

	times := make([]int64, 0, len(buckets))
	for t := range buckets {
		times = append(times, t)
	}
	sort.Slice(times, func(i, j int) bool { return times[i] < times[j] })

	items := make([]TimeSeriesItem, 0, len(times))
	for _, t := range times {
		samples := buckets[t]
		sort.Float64s(samples)
		n := len(samples)
		var sum float64
		for _, v := range samples {
			sum += v
		}
		items = append(items, TimeSeriesItem{
			Time:     t,
			Requests: n,
			Latency: TimeSeriesLatency{
				Min:    clock.Seconds(samples[0]),
				Median: clock.Seconds(samples[n/2]),
				Mean:   clock.Seconds(sum / float64(n)),
				Max:    clock.Seconds(samples[n-1]),
			},
		})
	}
	return items
}
