/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package chesscom

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/mikeb26/chessanalytics/internal/httpcache"
)

const DefaultBaseURL = "https://api.chess.com"

// Client talks to the chess.com published-data API
// (https://www.chess.com/news/view/published-data-api).
type Client struct {
	baseURL string

	// monthly archives of past months never change
	httpClient30day *http.Client
	// the archive list grows as the player plays
	httpClient1day *http.Client
}

// NewClient returns a Client whose responses are cached in bucket (or in
// memory when bucket is empty or unusable).
func NewClient(ctx context.Context, bucket string) *Client {
	return &Client{
		baseURL:         DefaultBaseURL,
		httpClient30day: httpcache.NewCachedHttpClient(ctx, bucket, 30*24*time.Hour),
		httpClient1day:  httpcache.NewCachedHttpClient(ctx, bucket, 24*time.Hour),
	}
}

// NewClientWithHTTP uses hc for every request.
func NewClientWithHTTP(hc *http.Client) *Client {
	return &Client{
		baseURL:         DefaultBaseURL,
		httpClient30day: hc,
		httpClient1day:  hc,
	}
}

// WithBaseURL points the client at another API host.
func (client *Client) WithBaseURL(baseURL string) *Client {
	client.baseURL = strings.TrimRight(baseURL, "/")
	return client
}
