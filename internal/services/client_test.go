package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/melodex/internal/shared"
)

func TestClient(t *testing.T) {
	t.Run("Get merges default and call params", func(t *testing.T) {
		var gotQuery string
		var gotHeader string
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.RawQuery
			gotHeader = r.Header.Get("Authorization")
			w.Write([]byte(`{"ok":true}`))
		}))
		defer ts.Close()

		client := NewClient(ClientOpts{
			BaseURL:       ts.URL,
			DefaultParams: map[string]string{"format": "json", "limit": "10"},
			Headers:       map[string]string{"Authorization": "Token abc"},
		})

		body, err := client.Get(context.Background(), "/tracks", map[string]string{"limit": "5"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if string(body) != `{"ok":true}` {
			t.Errorf("unexpected body: %s", body)
		}
		if gotQuery != "format=json&limit=5" {
			t.Errorf("expected call params to override defaults, got %q", gotQuery)
		}
		if gotHeader != "Token abc" {
			t.Errorf("expected auth header, got %q", gotHeader)
		}
	})

	t.Run("404 maps to ErrNotFound", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer ts.Close()

		client := NewClient(ClientOpts{BaseURL: ts.URL})
		_, err := client.Get(context.Background(), "/missing", nil)
		if !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("other 4xx maps to ErrProviderUnavailable", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer ts.Close()

		client := NewClient(ClientOpts{BaseURL: ts.URL})
		_, err := client.Get(context.Background(), "/denied", nil)
		if !errors.Is(err, shared.ErrProviderUnavailable) {
			t.Errorf("expected ErrProviderUnavailable, got %v", err)
		}
	})

	t.Run("Post sends JSON body", func(t *testing.T) {
		var gotContentType string
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotContentType = r.Header.Get("Content-Type")
			w.Write([]byte(`{"status":"ok"}`))
		}))
		defer ts.Close()

		client := NewClient(ClientOpts{BaseURL: ts.URL})
		body, err := client.Post(context.Background(), "/submit", map[string]string{"k": "v"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if gotContentType != "application/json" {
			t.Errorf("expected json content type, got %q", gotContentType)
		}
		if string(body) != `{"status":"ok"}` {
			t.Errorf("unexpected body: %s", body)
		}
	})

	t.Run("SetHeader applies to later requests", func(t *testing.T) {
		var gotHeader string
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotHeader = r.Header.Get("X-Api-Key")
			w.Write([]byte(`{}`))
		}))
		defer ts.Close()

		client := NewClient(ClientOpts{BaseURL: ts.URL})
		client.SetHeader("X-Api-Key", "secret")

		if _, err := client.Get(context.Background(), "/", nil); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if gotHeader != "secret" {
			t.Errorf("expected api key header, got %q", gotHeader)
		}
	})
}
