package transport

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/blackcoderx/cannon/internal/job"
)

func TestHTTPSenderSendsMethodHeadersAndBody(t *testing.T) {
	var gotMethod, gotHeader, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotHeader = r.Header.Get("X-Test")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.Header().Set("X-Reply", "yes")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	sender := NewHTTPSender()
	resp, err := sender.Send(job.Request{
		Method:  "POST",
		URI:     server.URL,
		Headers: map[string]string{"X-Test": "hello"},
		Body:    []byte(`{"a":1}`),
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	if gotMethod != "POST" {
		t.Errorf("server saw method %q, want POST", gotMethod)
	}
	if gotHeader != "hello" {
		t.Errorf("server saw X-Test %q, want hello", gotHeader)
	}
	if gotBody != `{"a":1}` {
		t.Errorf("server saw body %q", gotBody)
	}

	if resp.StatusCode != http.StatusCreated {
		t.Errorf("StatusCode = %d, want 201", resp.StatusCode)
	}
	if resp.Headers.Get("X-Reply") != "yes" {
		t.Errorf("response headers = %v, missing X-Reply", resp.Headers)
	}
	if string(resp.Body) != `{"ok":true}` {
		t.Errorf("Body = %q", resp.Body)
	}
}

func TestHTTPSenderConnectionFailureIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close() // guarantees nothing is listening on url anymore

	sender := NewHTTPSender()
	if _, err := sender.Send(job.Request{Method: "GET", URI: url}); err == nil {
		t.Error("expected an error sending to a closed server")
	}
}

func TestHTTPSenderInvalidMethodIsError(t *testing.T) {
	sender := NewHTTPSender()
	if _, err := sender.Send(job.Request{Method: " bad method", URI: "http://example.com"}); err == nil {
		t.Error("expected an error building a request with an invalid method")
	}
}
