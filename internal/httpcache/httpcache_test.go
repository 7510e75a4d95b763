/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package httpcache

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gregjones/httpcache"
	"github.com/mikeb26/chessanalytics/internal"
)

func TestCachedClientOverridesOrigin(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter,
		r *http.Request) {

		hits.Add(1)
		if ua := r.Header.Get("User-Agent"); ua != internal.UserAgent {
			t.Errorf("User-Agent = %q; want %q", ua, internal.UserAgent)
		}
		// origin asks not to be cached
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("Pragma", "no-cache")
		fmt.Fprint(w, `{"archives":[]}`)
	}))
	defer srv.Close()

	client := newClient(httpcache.NewMemoryCache(), http.DefaultTransport,
		5*time.Minute)

	for i := 0; i < 3; i++ {
		resp, err := client.Get(srv.URL)
		if err != nil {
			t.Fatalf("GET %v failed: %v", srv.URL, err)
		}
		data, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			t.Fatalf("Failed to read response body: %v", err)
		}
		if len(data) == 0 {
			t.Errorf("Empty data")
		}
		if i > 0 && resp.Header.Get(httpcache.XFromCache) != "1" {
			t.Errorf("object not cached on request %v", i)
		}
	}

	if hits.Load() != 1 {
		t.Errorf("origin hit %v times; want 1", hits.Load())
	}
}

func TestCachedClientSkipsErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter,
		r *http.Request) {

		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := newClient(httpcache.NewMemoryCache(), http.DefaultTransport,
		time.Hour)
	for i := 0; i < 2; i++ {
		resp, err := client.Get(srv.URL)
		if err != nil {
			t.Fatalf("GET %v failed: %v", srv.URL, err)
		}
		resp.Body.Close()
	}

	if hits.Load() != 2 {
		t.Errorf("origin hit %v times; want 2", hits.Load())
	}
}

func TestNewCachedHttpClientWithoutBucket(t *testing.T) {
	client := NewCachedHttpClient(context.Background(), "", time.Minute)
	if client == nil || client == http.DefaultClient {
		t.Errorf("expected a dedicated caching client")
	}
}
