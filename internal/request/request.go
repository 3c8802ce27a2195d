// Copyright 2019 The hb Authors. All rights reserved.
// Use of this source code is governed by the Apache License,
// Version 2.0, that can be found in the LICENSE file.

// Package request defines the benchmark's data model: requests as read
// from input JSON, and the results written back out.
package request

import (
	"encoding/json"
	"fmt"

	"github.com/bpowers/hb/internal/clock"
)

// Method is one of the five HTTP methods the engine knows how to drive.
type Method string

const (
	GET    Method = "GET"
	HEAD   Method = "HEAD"
	POST   Method = "POST"
	PUT    Method = "PUT"
	DELETE Method = "DELETE"
)

func (m Method) valid() bool {
	switch m {
	case GET, HEAD, POST, PUT, DELETE:
		return true
	}
	return false
}

// Content is the optional request body: either literal Text, or a Size
// meaning that many zero bytes. At most one of the two is ever set; the
// wire encoding is a discriminator-free union (an integer or a string).
type Content struct {
	Text *string
	Size *uint64
}

// Bytes materializes the body described by c.
func (c *Content) Bytes() []byte {
	if c == nil {
		return nil
	}
	if c.Text != nil {
		return []byte(*c.Text)
	}
	if c.Size != nil {
		return make([]byte, *c.Size)
	}
	return nil
}

// Len returns the byte length of the described body without allocating
// it, used for Content-Length.
func (c *Content) Len() uint64 {
	if c == nil {
		return 0
	}
	if c.Text != nil {
		return uint64(len(*c.Text))
	}
	if c.Size != nil {
		return *c.Size
	}
	return 0
}

func (c Content) MarshalJSON() ([]byte, error) {
	if c.Text != nil {
		return json.Marshal(*c.Text)
	}
	if c.Size != nil {
		return json.Marshal(*c.Size)
	}
	return []byte("null"), nil
}

func (c *Content) UnmarshalJSON(data []byte) error {
	// null is checked first: decoding null into a string or an integer
	// succeeds as a no-op and would otherwise be taken for a value.
	var asNull any
	if err := json.Unmarshal(data, &asNull); err == nil && asNull == nil {
		c.Text = nil
		c.Size = nil
		return nil
	}
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		c.Text = &asString
		c.Size = nil
		return nil
	}
	var asSize uint64
	if err := json.Unmarshal(data, &asSize); err == nil {
		c.Size = &asSize
		c.Text = nil
		return nil
	}
	return fmt.Errorf("content must be null, a string, or an integer byte count")
}

// Request is one HTTP request to be driven against a target server.
type Request struct {
	Method    Method          `json:"method"`
	URL       string          `json:"url"`
	Content   *Content        `json:"content,omitempty"`
	Timeout   *clock.Seconds  `json:"timeout,omitempty"`
	StartTime *clock.Seconds  `json:"start_time,omitempty"`
}

// Validate checks the fields that JSON decoding alone cannot enforce.
func (r *Request) Validate() error {
	if !r.Method.valid() {
		return fmt.Errorf("invalid method %q", r.Method)
	}
	if r.URL == "" {
		return fmt.Errorf("url must not be empty")
	}
	return nil
}

// QueueItem pairs a Request with its stable seq_no, assigned at
// input-load time.
type QueueItem struct {
	SeqNo   uint64
	Request Request
}

// Response describes a completed HTTP exchange.
type Response struct {
	Status        uint16  `json:"status"`
	ContentLength uint64  `json:"content_length"`
	Content       *string `json:"content,omitempty"`
}
