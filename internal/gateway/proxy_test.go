package gateway

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestServiceProxy_ForwardRequest(t *testing.T) {
	t.Run("forwards POST request with body and content-type", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("expected POST, got %s", r.Method)
			}
			if r.Header.Get("Content-Type") != "application/json" {
				t.Errorf("expected Content-Type application/json, got %s", r.Header.Get("Content-Type"))
			}
			body, _ := io.ReadAll(r.Body)
			if string(body) != `{"items":[{"id":"p1"}]}` {
				t.Errorf("unexpected body: %s", body)
			}
			w.WriteHeader(http.StatusCreated)
		}))
		defer server.Close()

		proxy := NewServiceProxy(server.URL, server.Client())
		req := httptest.NewRequest(http.MethodPost, "/original", strings.NewReader(`{"items":[{"id":"p1"}]}`))
		req.Header.Set("Content-Type", "application/json")
		resp, err := proxy.ForwardRequest(context.Background(), req, "/orders")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode != http.StatusCreated {
			t.Errorf("expected status 201, got %d", resp.StatusCode)
		}
	})

	t.Run("does not invent headers the caller never sent", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("Authorization"); got != "" {
				t.Errorf("Authorization = %q, want empty", got)
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		proxy := NewServiceProxy(server.URL, server.Client())
		req := httptest.NewRequest(http.MethodGet, "/original", nil)
		resp, err := proxy.ForwardRequest(context.Background(), req, "/products")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		_ = resp.Body.Close()
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		proxy := NewServiceProxy(server.URL, server.Client())
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		req := httptest.NewRequest(http.MethodGet, "/original", nil)
		_, err := proxy.ForwardRequest(ctx, req, "/orders")
		if err == nil {
			t.Error("expected error for cancelled context")
		}
	})
}
