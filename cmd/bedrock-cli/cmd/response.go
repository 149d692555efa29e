// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/bedrock-xrpl/bedrock/runtime"
)

// Response is printed as one JSON line per deploy, call or plan step.
type Response struct {
	// Index of the plan step, zero outside plans.
	ID     int    `json:"id"`
	Result Result `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

type Result struct {
	// Account created by a deploy.
	Address  string   `json:"address,omitempty"`
	Value    *int32   `json:"value,omitempty"`
	Traces   []string `json:"traces,omitempty"`
	Consumed uint64   `json:"consumed,omitempty"`
}

func newResponse(id int) *Response {
	return &Response{ID: id}
}

func (r *Response) setCallResult(result *runtime.Result) {
	value := result.Value
	r.Result.Value = &value
	r.Result.Traces = result.Traces
	r.Result.Consumed = result.Consumed
}

func (r *Response) setError(err error) {
	r.Error = err.Error()
}

func (r *Response) Print(w io.Writer) error {
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
