// Copyright 2019 The hb Authors. All rights reserved.
// Use of this source code is governed by the Apache License,
// Version 2.0, that can be found in the LICENSE file.

// Package queue implements the shared, priority-ordered request queue
// that workers pop from and occasionally re-push to. It is a
// container/heap-managed slice protected by a mutex, in the same style
// as the pack's own due-time scheduler (a min-heap of scheduled items
// guarded by a sync.Mutex, popped by a polling/worker loop).
package queue

import (
	"container/heap"
	"sync"

	"github.com/bpowers/hb/internal/clock"
	"github.com/bpowers/hb/internal/request"
)

// item is one heap slot: a QueueItem plus a null-handling sort key.
type item struct {
	seqNo     uint64
	req       request.Request
	hasStart  bool
	startTime clock.Seconds
}

// less implements the (start_time, seq_no) ordering with None < Some(t).
func (a *item) less(b *item) bool {
	if a.hasStart != b.hasStart {
		// a missing start_time (None) sorts before any Some(t).
		return !a.hasStart
	}
	if a.hasStart {
		if a.startTime != b.startTime {
			return a.startTime.Less(b.startTime)
		}
	}
	return a.seqNo < b.seqNo
}

type itemHeap []*item

func (h itemHeap) Len() int            { return len(h) }
func (h itemHeap) Less(i, j int) bool  { return h[i].less(h[j]) }
func (h itemHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *itemHeap) Push(x any)         { *h = append(*h, x.(*item)) }
func (h *itemHeap) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return it
}

// Queue is the shared, mutex-protected priority heap of pending
// requests. It is safe for concurrent use by multiple workers and the
// Runner.
type Queue struct {
	mu sync.Mutex
	h  itemHeap
}

func toItem(qi request.QueueItem) *item {
	it := &item{seqNo: qi.SeqNo, req: qi.Request}
	if qi.Request.StartTime != nil {
		it.hasStart = true
		it.startTime = *qi.Request.StartTime
	}
	return it
}

// New bulk-loads requests, assigning seq_no = input index, and returns a
// ready-to-use Queue.
func New(requests []request.Request) *Queue {
	h := make(itemHeap, len(requests))
	for i, r := range requests {
		h[i] = toItem(request.QueueItem{SeqNo: uint64(i), Request: r})
	}
	heap.Init(&h)
	return &Queue{h: h}
}

// Len reports the number of requests currently queued.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.h)
}

// Push re-inserts an item, e.g. when a worker finds it isn't due yet.
// O(log n); never fails under normal conditions.
func (q *Queue) Push(seqNo uint64, req request.Request) {
	q.mu.Lock()
	defer q.mu.Unlock()
	heap.Push(&q.h, toItem(request.QueueItem{SeqNo: seqNo, Request: req}))
}

// Pop removes and returns the item with the smallest (start_time,
// seq_no) key, or false if the queue is empty. O(log n).
func (q *Queue) Pop() (request.QueueItem, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.h) == 0 {
		return request.QueueItem{}, false
	}
	it := heap.Pop(&q.h).(*item)
	return request.QueueItem{SeqNo: it.seqNo, Request: it.req}, true
}
