// Copyright 2019 The hb Authors. All rights reserved.
// Use of this source code is governed by the Apache License,
// Version 2.0, that can be found in the LICENSE file.

package pool

import (
	"fmt"
	"net"
	"net/url"

	"golang.org/x/net/idna"
)

// Endpoint identifies a socket destination: a normalized host plus port.
// Two requests to the same Endpoint can share a pooled connection.
type Endpoint struct {
	Host string // normalized (ASCII) hostname, no port
	Port string
}

// String renders the endpoint as host:port, usable as a map key via
// comparison (Endpoint is comparable) or for logging.
func (e Endpoint) String() string {
	return net.JoinHostPort(e.Host, e.Port)
}

// defaultPort returns the scheme's default port, or "" if the scheme is
// unrecognized.
func defaultPort(scheme string) string {
	switch scheme {
	case "http":
		return "80"
	case "https":
		return "443"
	default:
		return ""
	}
}

// EndpointFor computes the Endpoint a URL should be dialed through.
// Internationalized hostnames are normalized to their ASCII (punycode)
// form first, the same transformation a browser applies before DNS
// resolution, so that visually-identical hosts always hash to the same
// pool entry.
func EndpointFor(u *url.URL) (Endpoint, error) {
	host := u.Hostname()
	if host == "" {
		return Endpoint{}, fmt.Errorf("url %q has no host", u.String())
	}
	ascii, err := idna.Lookup.ToASCII(host)
	if err == nil {
		host = ascii
	}

	port := u.Port()
	if port == "" {
		port = defaultPort(u.Scheme)
		if port == "" {
			return Endpoint{}, fmt.Errorf("url %q: unsupported scheme %q and no explicit port", u.String(), u.Scheme)
		}
	}

	return Endpoint{Host: host, Port: port}, nil
}
