// Copyright 2019 The hb Authors. All rights reserved.
// Use of this source code is governed by the Apache License,
// Version 2.0, that can be found in the LICENSE file.

package request

import (
	"encoding/json"
	"fmt"

	"github.com/bpowers/hb/internal/clock"
	"github.com/bpowers/hb/internal/hberr"
)

// RequestResult is a tagged variant: either Ok (a Response was
// received) or Error (the request failed or timed out).
type RequestResult struct {
	SeqNo    uint64
	EndTime  clock.Seconds
	Elapsed  clock.Seconds
	Response *Response // set iff Err == nil
	Err      *hberr.Error
}

// IsOk reports whether the result is the Ok variant.
func (r *RequestResult) IsOk() bool { return r.Err == nil }

// StartTime derives the request's start time as end_time - elapsed.
func (r *RequestResult) StartTime() clock.Seconds {
	return clock.Seconds(float64(r.EndTime) - float64(r.Elapsed))
}

type resultWire struct {
	Result  string         `json:"result"`
	SeqNo   uint64         `json:"seq_no"`
	EndTime clock.Seconds  `json:"end_time"`
	Elapsed clock.Seconds  `json:"elapsed"`
	Response *Response     `json:"response,omitempty"`
	Error    *errorWire    `json:"error,omitempty"`
}

type errorWire struct {
	Kind hberr.Kind `json:"kind"`
}

func (r RequestResult) MarshalJSON() ([]byte, error) {
	w := resultWire{
		SeqNo:   r.SeqNo,
		EndTime: r.EndTime,
		Elapsed: r.Elapsed,
	}
	if r.IsOk() {
		w.Result = "ok"
		w.Response = r.Response
	} else {
		w.Result = "error"
		w.Error = &errorWire{Kind: r.Err.Kind}
	}
	return json.Marshal(w)
}

func (r *RequestResult) UnmarshalJSON(data []byte) error {
	var w resultWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	r.SeqNo = w.SeqNo
	r.EndTime = w.EndTime
	r.Elapsed = w.Elapsed
	switch w.Result {
	case "ok":
		r.Response = w.Response
		r.Err = nil
	case "error":
		if w.Error == nil {
			return fmt.Errorf("error result missing error field")
		}
		r.Err = hberr.New(w.Error.Kind, nil)
		r.Response = nil
	default:
		return fmt.Errorf("unknown result tag %q", w.Result)
	}
	return nil
}

// Ok constructs a successful RequestResult.
func Ok(seqNo uint64, endTime, elapsed clock.Seconds, resp *Response) RequestResult {
	return RequestResult{SeqNo: seqNo, EndTime: endTime, Elapsed: elapsed, Response: resp}
}

// Error constructs a failed RequestResult.
func Error(seqNo uint64, endTime, elapsed clock.Seconds, err *hberr.Error) RequestResult {
	return RequestResult{SeqNo: seqNo, EndTime: endTime, Elapsed: elapsed, Err: err}
}
