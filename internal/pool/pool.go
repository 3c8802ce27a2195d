// Copyright 2019 The hb Authors. All rights reserved.
// Use of this source code is governed by the Apache License,
// Version 2.0, that can be found in the LICENSE file.

// Package pool implements the per-endpoint idle-connection cache the
// engine dials through. The pool exists to avoid paying TCP (and, when
// https is used, TLS) handshake cost on every request; it never
// health-checks an idle connection, trusting workers to discard on any
// transport error rather than releasing.
package pool

import (
	"bufio"
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"sync"
	"time"
)

// Conn is one pooled, reusable HTTP/1.1 connection.
type Conn struct {
	net.Conn
	Endpoint Endpoint
	Reader   *bufio.Reader
}

// Pool is a mapping from Endpoint to an ordered collection of idle,
// reusable connections, bounded by a maximum total idle size. It is
// safe for concurrent use.
type Pool struct {
	maxIdle int

	mu        sync.Mutex
	idle      map[Endpoint][]*Conn
	idleCount int

	dialTimeout time.Duration
}

// New returns a Pool that keeps at most maxIdle idle connections across
// all endpoints combined.
func New(maxIdle int) *Pool {
	return &Pool{
		maxIdle:     maxIdle,
		idle:        make(map[Endpoint][]*Conn),
		dialTimeout: 10 * time.Second,
	}
}

// Acquire returns an idle connection for addr if one is cached,
// otherwise dials a fresh one. Safe to call concurrently; the dial, when
// needed, happens outside the pool's lock.
func (p *Pool) Acquire(ctx context.Context, addr Endpoint, useTLS bool) (*Conn, error) {
	p.mu.Lock()
	if conns := p.idle[addr]; len(conns) > 0 {
		c := conns[len(conns)-1]
		conns = conns[:len(conns)-1]
		if len(conns) == 0 {
			delete(p.idle, addr)
		} else {
			p.idle[addr] = conns
		}
		p.idleCount--
		p.mu.Unlock()
		return c, nil
	}
	p.mu.Unlock()

	return p.dial(ctx, addr, useTLS)
}

func (p *Pool) dial(ctx context.Context, addr Endpoint, useTLS bool) (*Conn, error) {
	host, err := firstResolvedAddr(ctx, addr.Host)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", addr.Host, err)
	}

	dialer := &net.Dialer{Timeout: p.dialTimeout}
	target := net.JoinHostPort(host, addr.Port)

	var conn net.Conn
	if useTLS {
		conn, err = tls.DialWithDialer(dialer, "tcp", target, &tls.Config{ServerName: addr.Host})
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", target)
	}
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", target, err)
	}

	return &Conn{Conn: conn, Endpoint: addr, Reader: bufio.NewReader(conn)}, nil
}

// firstResolvedAddr resolves host and returns the first address the
// resolver reports, matching the design note that round-robin over all
// returned addresses is a possible future refinement but is not done
// here.
func firstResolvedAddr(ctx context.Context, host string) (string, error) {
	if ip := net.ParseIP(host); ip != nil {
		return host, nil
	}
	addrs, err := net.DefaultResolver.LookupHost(ctx, host)
	if err != nil {
		return "", err
	}
	if len(addrs) == 0 {
		return "", fmt.Errorf("no addresses found for %s", host)
	}
	return addrs[0], nil
}

// Release returns conn to the idle list for its endpoint, unless the
// pool is already at capacity, in which case conn is closed instead.
// Non-blocking.
func (p *Pool) Release(conn *Conn) {
	p.mu.Lock()
	if p.idleCount >= p.maxIdle {
		p.mu.Unlock()
		_ = conn.Close()
		return
	}
	p.idle[conn.Endpoint] = append(p.idle[conn.Endpoint], conn)
	p.idleCount++
	p.mu.Unlock()
}

// Discard closes conn without returning it to the pool, for connections
// a worker observed a transport error or timeout on.
func (p *Pool) Discard(conn *Conn) {
	_ = conn.Close()
}

// IdleCount returns the total number of idle connections across all
// endpoints, for tests and diagnostics.
func (p *Pool) IdleCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.idleCount
}
