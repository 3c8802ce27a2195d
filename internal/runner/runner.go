// Copyright 2019 The hb Authors. All rights reserved.
// Use of this source code is governed by the Apache License,
// Version 2.0, that can be found in the LICENSE file.

// Package runner orchestrates a benchmark run: it spawns the configured
// number of worker goroutines sharing a RequestQueue and a ConnectionPool,
// drains their results, and returns them sorted by seq_no.
package runner

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/paulbellamy/ratecounter"
	"github.com/sirupsen/logrus"

	"github.com/bpowers/hb/internal/clock"
	"github.com/bpowers/hb/internal/pool"
	"github.com/bpowers/hb/internal/queue"
	"github.com/bpowers/hb/internal/request"
	"github.com/bpowers/hb/internal/worker"
)

const (
	DefaultConcurrency       = 128
	DefaultConnectionPoolSize = 4096
)

// Config is the Runner's builder configuration.
type Config struct {
	Concurrency        int
	ConnectionPoolSize int
	UserAgent          string
	Logger             *logrus.Logger
	Clock              clock.Clock // nil means clock.System{}
}

func (c Config) withDefaults() Config {
	if c.Concurrency <= 0 {
		c.Concurrency = DefaultConcurrency
	}
	if c.ConnectionPoolSize <= 0 {
		c.ConnectionPoolSize = DefaultConnectionPoolSize
	}
	if c.UserAgent == "" {
		c.UserAgent = "hb/1.0"
	}
	if c.Logger == nil {
		c.Logger = logrus.New()
	}
	if c.Clock == nil {
		c.Clock = clock.System{}
	}
	return c
}

// Run drives requests to completion and returns results sorted by
// seq_no. It blocks until every request has produced exactly one
// result, or returns an error if the worker pool collapses before that
// happens (a bug or panic, per the spec — ordinary per-request HTTP
// errors are never fatal here).
func Run(ctx context.Context, requests []request.Request, cfg Config) ([]request.RequestResult, error) {
	cfg = cfg.withDefaults()
	capacity := len(requests)

	if capacity == 0 {
		return []request.RequestResult{}, nil
	}

	bench := clock.NewBench(cfg.Clock)
	q := queue.New(requests)
	connPool := pool.New(cfg.ConnectionPoolSize)
	resultsCh := make(chan request.RequestResult, capacity)
	rate := ratecounter.NewRateCounter(2 * time.Second)

	cfg.Logger.WithFields(logrus.Fields{
		"requests":    capacity,
		"concurrency": cfg.Concurrency,
	}).Info("run starting")

	stopLogging := make(chan struct{})
	var loggingWg sync.WaitGroup
	loggingWg.Add(1)
	go logThroughput(cfg.Logger, rate, stopLogging, &loggingWg)

	var wg sync.WaitGroup
	wg.Add(cfg.Concurrency)
	for i := 0; i < cfg.Concurrency; i++ {
		workerCfg := worker.Config{
			Queue:       q,
			Pool:        connPool,
			Clock:       cfg.Clock,
			Bench:       bench,
			Results:     resultsCh,
			UserAgent:   cfg.UserAgent,
			RateCounter: rate,
			Logger:      cfg.Logger.WithField("worker_id", i),
		}
		go func() {
			defer wg.Done()
			worker.Run(ctx, workerCfg)
		}()
	}

	go func() {
		wg.Wait()
		close(resultsCh)
	}()

	results := make([]request.RequestResult, 0, capacity)
	for r := range resultsCh {
		results = append(results, r)
		if len(results) == capacity {
			break
		}
	}

	close(stopLogging)
	loggingWg.Wait()

	if len(results) < capacity {
		return nil, fmt.Errorf("all workers down: got %d/%d results", len(results), capacity)
	}

	sort.Slice(results, func(i, j int) bool { return results[i].SeqNo < results[j].SeqNo })

	total := bench.Elapsed()
	cfg.Logger.WithFields(logrus.Fields{
		"requests": capacity,
		"duration": total.String(),
	}).Info("run finished")

	return results, nil
}

// logThroughput logs a rolling requests/sec gauge every two seconds
// until stopCh is closed. This is purely observational: it never
// influences scheduling, matching the spec's "no rate limiting
// independent of scheduled start times" non-goal.
func logThroughput(logger *logrus.Logger, rate *ratecounter.RateCounter, stopCh <-chan struct{}, wg *sync.WaitGroup) {
	defer wg.Done()
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			rps := float64(rate.Rate()) / 2
			logger.WithField("rps", rps).Debug("throughput")
		}
	}
}
