// Copyright 2019 The hb Authors. All rights reserved.
// Use of this source code is governed by the Apache License,
// Version 2.0, that can be found in the LICENSE file.

package request

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/bpowers/hb/internal/clock"
	"github.com/bpowers/hb/internal/hberr"
)

func TestRequestResultOkJSONRoundTrip(t *testing.T) {
	content := "nope"
	original := Ok(7, clock.Seconds(1.5), clock.Seconds(0.25), &Response{
		Status:        404,
		ContentLength: 4,
		Content:       &content,
	})

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %s", err)
	}

	var back RequestResult
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %s", err)
	}

	if !back.IsOk() {
		t.Fatalf("expected Ok result after round-trip")
	}
	if back.SeqNo != original.SeqNo || back.EndTime != original.EndTime || back.Elapsed != original.Elapsed {
		t.Fatalf("scalar fields mismatch: got %+v, want %+v", back, original)
	}
	if back.Response == nil || !reflect.DeepEqual(back.Response, original.Response) {
		t.Fatalf("Response mismatch: got %+v, want %+v", back.Response, original.Response)
	}
}

func TestRequestResultOkOmitsContentWhenNil(t *testing.T) {
	original := Ok(0, clock.Seconds(1), clock.Seconds(1), &Response{Status: 200, ContentLength: 2})

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %s", err)
	}

	var generic map[string]any
	if err := json.Unmarshal(data, &generic); err != nil {
		t.Fatalf("Unmarshal into map: %s", err)
	}
	resp, ok := generic["response"].(map[string]any)
	if !ok {
		t.Fatalf("response field missing or wrong shape: %v", generic["response"])
	}
	if _, present := resp["content"]; present {
		t.Fatalf("expected content to be omitted, got %v", resp["content"])
	}
}

func TestRequestResultErrorJSONRoundTrip(t *testing.T) {
	original := Error(3, clock.Seconds(2.0), clock.Seconds(0.1), hberr.New(hberr.Timeout, nil))

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %s", err)
	}

	var back RequestResult
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %s", err)
	}

	if back.IsOk() {
		t.Fatalf("expected an Error result after round-trip")
	}
	if back.SeqNo != original.SeqNo || back.EndTime != original.EndTime || back.Elapsed != original.Elapsed {
		t.Fatalf("scalar fields mismatch: got %+v, want %+v", back, original)
	}
	if back.Err == nil || back.Err.Kind != hberr.Timeout {
		t.Fatalf("Err.Kind = %v, want timeout", back.Err)
	}
}

func TestRequestResultListJSONRoundTrip(t *testing.T) {
	list := []RequestResult{
		Ok(0, clock.Seconds(0.1), clock.Seconds(0.1), &Response{Status: 200, ContentLength: 0}),
		Error(1, clock.Seconds(0.2), clock.Seconds(0.05), hberr.New(hberr.Other, nil)),
	}

	data, err := json.Marshal(list)
	if err != nil {
		t.Fatalf("Marshal: %s", err)
	}

	var back []RequestResult
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %s", err)
	}

	if len(back) != len(list) {
		t.Fatalf("len(back) = %d, want %d", len(back), len(list))
	}
	if !back[0].IsOk() || back[1].IsOk() {
		t.Fatalf("tag mismatch after round-trip: %+v", back)
	}
}

func TestRequestResultUnmarshalRejectsUnknownTag(t *testing.T) {
	var r RequestResult
	err := json.Unmarshal([]byte(`{"result":"maybe","seq_no":0,"end_time":0,"elapsed":0}`), &r)
	if err == nil {
		t.Fatalf("expected an error for an unrecognized result tag")
	}
}

func TestRequestResultUnmarshalRejectsErrorWithoutErrorField(t *testing.T) {
	var r RequestResult
	err := json.Unmarshal([]byte(`{"result":"error","seq_no":0,"end_time":0,"elapsed":0}`), &r)
	if err == nil {
		t.Fatalf("expected an error when the error result is missing its error field")
	}
}
