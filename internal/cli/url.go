// Copyright 2019 The hb Authors. All rights reserved.
// Use of this source code is governed by the Apache License,
// Version 2.0, that can be found in the LICENSE file.

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bpowers/hb/internal/request"
)

// urlMethods lists the five URL-taking subcommands in the order they're
// registered on the root command.
var urlMethods = []request.Method{
	request.GET,
	request.HEAD,
	request.DELETE,
	request.PUT,
	request.POST,
}

func takesBody(m request.Method) bool {
	return m == request.POST || m == request.PUT
}

// urlOpts holds the flags specific to the URL-taking subcommands, on
// top of commonOpts.
type urlOpts struct {
	common        *commonOpts
	requestCount  int
	content       string
	contentLength uint64
}

// buildRequests generates requestCount requests in total, cycling over
// urls in order (two URLs and a count of 5 give a, b, a, b, a). It sets
// no seq_no; the Queue assigns one at load time from each request's
// position in the returned slice.
func buildRequests(method request.Method, urls []string, o *urlOpts) ([]request.Request, error) {
	if len(urls) == 0 {
		return nil, fmt.Errorf("%s requires at least one URL", method)
	}

	var content *request.Content
	switch {
	case takesBody(method) && o.content != "":
		c := o.content
		content = &request.Content{Text: &c}
	case takesBody(method) && o.contentLength > 0:
		n := o.contentLength
		content = &request.Content{Size: &n}
	}

	requests := make([]request.Request, 0, o.requestCount)
	for i := 0; i < o.requestCount; i++ {
		requests = append(requests, request.Request{
			Method:  method,
			URL:     urls[i%len(urls)],
			Content: content,
		})
	}
	return requests, nil
}

func newURLCommand(method request.Method) *cobra.Command {
	common := newCommonOpts()
	o := &urlOpts{common: common, requestCount: 10}

	use := fmt.Sprintf("%s <url> [url...]", methodCommandName(method))
	cmd := &cobra.Command{
		Use:   use,
		Short: fmt.Sprintf("issue %d %s requests cycling over the given URLs", o.requestCount, method),
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			requests, err := buildRequests(method, args, o)
			if err != nil {
				return err
			}

			results, err := driveRequests(cmd, common, requests)
			if err != nil {
				return err
			}

			out, err := openOutput(common.output)
			if err != nil {
				return err
			}
			defer out.Close()
			return writeJSON(out, results)
		},
	}
	addCommonFlags(cmd, common)
	cmd.Flags().IntVarP(&o.requestCount, "requests", "n", o.requestCount, "number of requests to issue, cycling over the URL list")
	if takesBody(method) {
		cmd.Flags().StringVar(&o.content, "content", "", "literal request body text")
		cmd.Flags().Uint64Var(&o.contentLength, "content-length", 0, "send a body of this many zero bytes (ignored if --content is set)")
	}
	return cmd
}

func methodCommandName(m request.Method) string {
	switch m {
	case request.GET:
		return "get"
	case request.HEAD:
		return "head"
	case request.DELETE:
		return "delete"
	case request.PUT:
		return "put"
	case request.POST:
		return "post"
	}
	return string(m)
}
