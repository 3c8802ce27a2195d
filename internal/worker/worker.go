// Copyright 2019 The hb Authors. All rights reserved.
// Use of this source code is governed by the Apache License,
// Version 2.0, that can be found in the LICENSE file.

// Package worker implements the per-goroutine request-dispatch loop: pop
// from the shared queue, wait if the item isn't due yet, execute over a
// pooled connection, emit a result, and loop. The state machine
// (Idle/Waiting/InFlight) is written as a plain loop with explicit
// branches rather than continuation-passing, per the design note that a
// plain loop is clearer and equally efficient.
package worker

import (
	"context"
	"fmt"
	"net/url"

	"github.com/paulbellamy/ratecounter"
	"github.com/sirupsen/logrus"

	"github.com/bpowers/hb/internal/client"
	"github.com/bpowers/hb/internal/clock"
	"github.com/bpowers/hb/internal/hberr"
	"github.com/bpowers/hb/internal/pool"
	"github.com/bpowers/hb/internal/queue"
	"github.com/bpowers/hb/internal/request"
)

// Config bundles everything a Worker needs, shared (by reference) across
// every worker a Runner spawns.
type Config struct {
	Queue       *queue.Queue
	Pool        *pool.Pool
	Clock       clock.Clock
	Bench       *clock.Bench
	Results     chan<- request.RequestResult
	UserAgent   string
	RateCounter *ratecounter.RateCounter // observational only; never gates scheduling
	Logger      *logrus.Entry
}

// Run executes the worker's Idle/Waiting/InFlight loop until the queue
// is observed empty. A send on Results that should be impossible (the
// channel is sized by the Runner to the exact result count) is treated
// as a programming error and panics, matching the spec's framing that a
// broken result channel is Runner-fatal.
func Run(ctx context.Context, cfg Config) {
	for {
		item, ok := cfg.Queue.Pop()
		if !ok {
			return
		}

		if item.Request.StartTime != nil {
			due := cfg.Bench.Deadline(*item.Request.StartTime)
			if cfg.Clock.Now().Before(due) {
				cfg.Queue.Push(item.SeqNo, item.Request)
				cfg.Clock.SleepUntil(due)
				continue
			}
		}

		result := execute(ctx, cfg, item)
		cfg.RateCounter.Incr(1)
		cfg.Results <- result
	}
}

func execute(ctx context.Context, cfg Config, item request.QueueItem) request.RequestResult {
	requestStart := cfg.Clock.Now()

	finish := func(err *hberr.Error, resp *request.Response) request.RequestResult {
		elapsed := clock.FromDuration(cfg.Clock.Now().Sub(requestStart))
		endTime := cfg.Bench.Elapsed()
		if err != nil {
			cfg.Logger.WithFields(logrus.Fields{
				"seq_no": item.SeqNo,
				"kind":   err.Kind,
			}).Debug("request failed")
			return request.Error(item.SeqNo, endTime, elapsed, err)
		}
		return request.Ok(item.SeqNo, endTime, elapsed, resp)
	}

	u, parseErr := url.Parse(item.Request.URL)
	if parseErr != nil {
		return finish(hberr.New(hberr.Other, fmt.Errorf("parsing url: %w", parseErr)), nil)
	}

	endpoint, err := pool.EndpointFor(u)
	if err != nil {
		return finish(hberr.New(hberr.Other, err), nil)
	}

	conn, err := cfg.Pool.Acquire(ctx, endpoint, u.Scheme == "https")
	if err != nil {
		return finish(hberr.New(hberr.Other, fmt.Errorf("acquiring connection: %w", err)), nil)
	}

	result, err := client.Execute(conn, item.Request, cfg.UserAgent)
	if err != nil {
		cfg.Pool.Discard(conn)
		return finish(hberr.Wrap(err), nil)
	}

	if result.Reusable {
		cfg.Pool.Release(conn)
	} else {
		cfg.Pool.Discard(conn)
	}

	resp := result.Response
	return finish(nil, &resp)
}
