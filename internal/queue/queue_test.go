// Copyright 2019 The hb Authors. All rights reserved.
// Use of this source code is governed by the Apache License,
// Version 2.0, that can be found in the LICENSE file.

package queue

import (
	"testing"

	"github.com/bpowers/hb/internal/clock"
	"github.com/bpowers/hb/internal/request"
)

func seconds(f float64) *clock.Seconds {
	s := clock.Seconds(f)
	return &s
}

func TestPopOrdersByStartTimeThenSeqNo(t *testing.T) {
	reqs := []request.Request{
		{Method: request.GET, URL: "http://a/", StartTime: seconds(1.0)},
		{Method: request.GET, URL: "http://b/", StartTime: nil},
		{Method: request.GET, URL: "http://c/", StartTime: seconds(0.5)},
		{Method: request.GET, URL: "http://d/", StartTime: nil},
	}
	q := New(reqs)

	wantOrder := []uint64{1, 3, 2, 0} // None(seq1), None(seq3), 0.5(seq2), 1.0(seq0)
	for _, want := range wantOrder {
		got, ok := q.Pop()
		if !ok {
			t.Fatalf("expected an item, queue empty early")
		}
		if got.SeqNo != want {
			t.Fatalf("got seq_no %d, want %d", got.SeqNo, want)
		}
	}
	if _, ok := q.Pop(); ok {
		t.Fatalf("expected queue to be empty")
	}
}

func TestPushReinsertsInPriorityOrder(t *testing.T) {
	q := New(nil)
	q.Push(5, request.Request{Method: request.GET, URL: "http://a/", StartTime: seconds(2.0)})
	q.Push(6, request.Request{Method: request.GET, URL: "http://b/", StartTime: seconds(1.0)})

	got, ok := q.Pop()
	if !ok || got.SeqNo != 6 {
		t.Fatalf("expected seq_no 6 first, got %+v ok=%v", got, ok)
	}
}

func TestEmptyQueuePopReturnsFalse(t *testing.T) {
	q := New(nil)
	if _, ok := q.Pop(); ok {
		t.Fatalf("expected empty queue to report no item")
	}
}

func TestLenTracksPushAndPop(t *testing.T) {
	q := New([]request.Request{
		{Method: request.GET, URL: "http://a/"},
		{Method: request.GET, URL: "http://b/"},
	})
	if q.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", q.Len())
	}
	if _, ok := q.Pop(); !ok {
		t.Fatalf("expected an item")
	}
	if q.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", q.Len())
	}
}
