package utils

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type completionStub struct {
	Content string `json:"content"`
}

// TestDoPostSync_Success verifies that a 200 response with valid JSON is
// decoded into the output struct and that the request carries JSON headers.
func TestDoPostSync_Success(t *testing.T) {
	var capturedContentType, capturedAuth, capturedBody string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedContentType = r.Header.Get("Content-Type")
		capturedAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		capturedBody = string(body)

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"content":"{\"locations\":[]}"}`)
	}))
	defer server.Close()

	_, result, err := DoPostSync[completionStub](
		context.Background(),
		server.Client(),
		server.URL,
		"sk-test",
		map[string]string{"model": "deepseek-chat"},
	)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result == nil {
		t.Fatal("expected non-nil result, got nil")
	}
	if result.Content != `{"locations":[]}` {
		t.Errorf("Content = %q, want %q", result.Content, `{"locations":[]}`)
	}
	if capturedContentType != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", capturedContentType)
	}
	if capturedAuth != "Bearer sk-test" {
		t.Errorf("Authorization = %q, want %q", capturedAuth, "Bearer sk-test")
	}
	if capturedBody != `{"model":"deepseek-chat"}` {
		t.Errorf("body = %q, want %q", capturedBody, `{"model":"deepseek-chat"}`)
	}
}

// TestDoPostSync_NoAPIKey verifies that no Authorization header is sent when
// the key is empty.
func TestDoPostSync_NoAPIKey(t *testing.T) {
	var hasAuth bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasAuth = r.Header["Authorization"]
		fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	if _, _, err := DoPostSync[completionStub](context.Background(), nil, server.URL, "", struct{}{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hasAuth {
		t.Error("expected no Authorization header without an API key")
	}
}

// TestDoPostSync_StatusError verifies that non-2xx answers come back as a
// *StatusError carrying status and body.
func TestDoPostSync_StatusError(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "payment required", status: http.StatusPaymentRequired, body: `{"error":{"message":"Insufficient Balance"}}`},
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"error":{"message":"invalid key"}}`},
		{name: "too many requests", status: http.StatusTooManyRequests, body: "slow down"},
		{name: "server error", status: http.StatusInternalServerError, body: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer server.Close()

			res, _, err := DoPostSync[completionStub](context.Background(), server.Client(), server.URL, "k", struct{}{})
			if err == nil {
				t.Fatal("expected error, got nil")
			}

			var statusErr *StatusError
			if !errors.As(err, &statusErr) {
				t.Fatalf("expected *StatusError, got %T: %v", err, err)
			}
			if statusErr.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", statusErr.StatusCode, tt.status)
			}
			if statusErr.Body != tt.body {
				t.Errorf("Body = %q, want %q", statusErr.Body, tt.body)
			}
			if res == nil || res.StatusCode != tt.status {
				t.Errorf("expected the raw response to be returned with status %d", tt.status)
			}
			if !strings.Contains(err.Error(), fmt.Sprint(tt.status)) {
				t.Errorf("error %q should mention status %d", err.Error(), tt.status)
			}
		})
	}
}

// TestDoPostSync_UnmarshalError verifies that a 200 response with a body that
// does not decode returns an error mentioning "unmarshal".
func TestDoPostSync_UnmarshalError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `"not an object"`)
	}))
	defer server.Close()

	_, _, err := DoPostSync[completionStub](context.Background(), server.Client(), server.URL, "", struct{}{})
	if err == nil {
		t.Fatal("expected unmarshal error, got nil")
	}
	if !strings.Contains(err.Error(), "unmarshal") {
		t.Errorf("expected error to contain 'unmarshal', got: %v", err)
	}
}

// TestDoPostSync_RequestCreateError verifies that an invalid URL fails before
// any request is sent.
func TestDoPostSync_RequestCreateError(t *testing.T) {
	_, _, err := DoPostSync[completionStub](context.Background(), nil, " bad url", "", struct{}{})
	if err == nil {
		t.Fatal("expected request creation error, got nil")
	}
}

// TestDoPostSync_ContextDeadline verifies that a deadline shorter than the
// server latency surfaces as context.DeadlineExceeded.
func TestDoPostSync_ContextDeadline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
		fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, _, err := DoPostSync[completionStub](ctx, server.Client(), server.URL, "", struct{}{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected context.DeadlineExceeded, got %v", err)
	}
}
