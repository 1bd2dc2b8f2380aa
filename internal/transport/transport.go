// Package transport implements the default Sender over net/http, grounded
// on the teacher's shared/ HTTP tools which use net/http throughout (see
// DESIGN.md A7/C6 for why this, not the teacher's unused fasthttp
// dependency, is the faithfully-grounded transport choice).
package transport

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/blackcoderx/cannon/internal/job"
)

// HTTPSender is the default job.Sender: a shared *http.Client with the
// spec's recommended 10s timeout (§5: "Transport-level timeouts are the
// Sender's responsibility (recommended default 10s)").
type HTTPSender struct {
	client *http.Client
}

func NewHTTPSender() *HTTPSender {
	return &HTTPSender{client: &http.Client{Timeout: 10 * time.Second}}
}

func (s *HTTPSender) Send(req job.Request) (job.Response, error) {
	httpReq, err := http.NewRequest(req.Method, req.URI, bytes.NewReader(req.Body))
	if err != nil {
		return job.Response{}, err
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return job.Response{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return job.Response{}, err
	}

	return job.Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
	}, nil
}
