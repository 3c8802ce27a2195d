// Copyright 2019 The hb Authors. All rights reserved.
// Use of this source code is governed by the Apache License,
// Version 2.0, that can be found in the LICENSE file.

// Package client builds and executes a single HTTP request over an
// already-acquired pool.Conn, applying the request's timeout (if any) as
// a read/write deadline on that connection for the transmit+receive
// sequence. Acquiring the connection (including any dial) happens before
// Execute and is not covered by the request's timeout.
package client

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"
	"unicode/utf8"

	"github.com/bpowers/hb/internal/hberr"
	"github.com/bpowers/hb/internal/pool"
	"github.com/bpowers/hb/internal/request"
)

// Result is the outcome of one Execute call: the decoded Response plus
// whether the connection that served it is still reusable.
type Result struct {
	Response  request.Response
	Reusable  bool
}

// Execute composes req onto conn, writes it, reads the full response,
// and reports whether conn can be returned to the pool. On any error the
// caller must treat conn as unusable and Discard it rather than
// Release it.
func Execute(conn *pool.Conn, req request.Request, userAgent string) (Result, error) {
	u, err := url.Parse(req.URL)
	if err != nil {
		return Result{}, hberr.New(hberr.Other, fmt.Errorf("parsing url %q: %w", req.URL, err))
	}

	if req.Timeout != nil {
		deadline := time.Now().Add(req.Timeout.Duration())
		if err := conn.SetDeadline(deadline); err != nil {
			return Result{}, hberr.New(hberr.Other, fmt.Errorf("SetDeadline: %w", err))
		}
		defer conn.SetDeadline(time.Time{})
	}

	body := req.Content.Bytes()
	httpReq, err := http.NewRequest(string(req.Method), u.String(), bytes.NewReader(body))
	if err != nil {
		return Result{}, hberr.New(hberr.Other, fmt.Errorf("building request: %w", err))
	}
	httpReq.Host = u.Host
	httpReq.Header.Set("Host", u.Host)
	httpReq.Header.Set("User-Agent", userAgent)

	switch req.Method {
	case request.POST, request.PUT:
		httpReq.ContentLength = int64(req.Content.Len())
	default:
		httpReq.ContentLength = 0
	}
	httpReq.Close = false

	if err := httpReq.Write(conn); err != nil {
		return Result{}, classifyIOError(err)
	}

	resp, err := http.ReadResponse(conn.Reader, httpReq)
	if err != nil {
		return Result{}, classifyIOError(err)
	}

	respBody, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return Result{}, classifyIOError(err)
	}

	out := request.Response{
		Status:        uint16(resp.StatusCode),
		ContentLength: uint64(len(respBody)),
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if utf8.Valid(respBody) {
			s := string(respBody)
			out.Content = &s
		}
	}

	reusable := !resp.Close && !httpReq.Close
	return Result{Response: out, Reusable: reusable}, nil
}

func classifyIOError(err error) *hberr.Error {
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return hberr.New(hberr.Timeout, err)
	}
	return hberr.New(hberr.Other, err)
}
