// Package job implements the prepared HTTP job: URI/method/headers/body
// each templated, invoking a Sender and packaging an ExecutionResponse.
package job

import (
	"time"
	"unicode/utf8"

	"github.com/blackcoderx/cannon/internal/cannonerr"
	"github.com/blackcoderx/cannon/internal/value"
	"github.com/blackcoderx/cannon/internal/varscope"
)

// Request is the transport-agnostic prepared request a Sender consumes.
type Request struct {
	Method  string
	URI     string
	Headers map[string]string
	Body    []byte
}

// Response is what a Sender yields on success.
type Response struct {
	StatusCode int
	Headers    map[string][]string
	Body       []byte
}

// Sender is the injected transport capability (spec §4.6): synchronous
// send(request) -> result<response, error>. The core makes no assumption
// about the implementation beyond this shape.
type Sender interface {
	Send(req Request) (Response, error)
}

// ExecutionResponse is the result of running a Job (spec §3).
type ExecutionResponse struct {
	Body          []byte
	Additional    *value.Object
	ExecutionTime time.Duration
}

// Job is constructed from a JobType::Http (spec §4.6).
type Job struct {
	RequestTemplate string
	Method          string
	Headers         map[string]string
	Body            []byte
}

// Execute renders the request's templated fields against ctx, invokes
// sender, and packages the result, following §4.6's five numbered steps.
// Template render failures are programmer errors (§7): they panic rather
// than returning an error, the engine's single fatal class. A transport
// failure from sender.Send is the only error Execute returns normally.
func (j Job) Execute(ctx *varscope.Context, sender Sender) (ExecutionResponse, error) {
	uri, err := ctx.Apply(j.RequestTemplate)
	if err != nil {
		panic(err)
	}

	headers := make(map[string]string, len(j.Headers))
	for k, v := range j.Headers {
		rendered, err := ctx.Apply(v)
		if err != nil {
			panic(err)
		}
		headers[k] = rendered
	}

	body := j.Body
	if len(body) > 0 && utf8.Valid(body) {
		rendered, err := ctx.Apply(string(body))
		if err != nil {
			panic(err)
		}
		body = []byte(rendered)
	}

	start := time.Now()
	resp, err := sender.Send(Request{Method: j.Method, URI: uri, Headers: headers, Body: body})
	elapsed := time.Since(start)
	if err != nil {
		return ExecutionResponse{}, cannonerr.Connectionf(err, "request to %s failed: %v", uri, err)
	}

	additional := value.NewObject()
	additional.Set("headers", value.FromHeaders(resp.Headers))
	additional.Set("status_code", value.Int(int64(resp.StatusCode)))

	return ExecutionResponse{
		Body:          resp.Body,
		Additional:    additional,
		ExecutionTime: elapsed,
	}, nil
}
