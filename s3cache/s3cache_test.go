/* Copyright (c) 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file in the current directory for license terms
 */
package s3cache

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/gregjones/httpcache/test"
	"github.com/mikeb26/chessanalytics/internal"
)

// memObjects is an in-memory stand-in for a bucket.
type memObjects struct {
	mu           sync.Mutex
	objects      map[string][]byte
	contentTypes map[string]string
}

func newMemObjects() *memObjects {
	return &memObjects{
		objects:      make(map[string][]byte),
		contentTypes: make(map[string]string),
	}
}

func (m *memObjects) GetObject(ctx context.Context, params *s3.GetObjectInput,
	optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {

	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[*params.Key]
	if !ok {
		return nil, &smithy.GenericAPIError{Code: "NoSuchKey", Message: "not found"}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (m *memObjects) PutObject(ctx context.Context, params *s3.PutObjectInput,
	optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {

	data, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[*params.Key] = data
	if params.ContentType != nil {
		m.contentTypes[*params.Key] = *params.ContentType
	}
	return &s3.PutObjectOutput{}, nil
}

func (m *memObjects) DeleteObject(ctx context.Context,
	params *s3.DeleteObjectInput,
	optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, *params.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestMemCache(t *testing.T) {
	for _, gz := range []bool{false, true} {
		t.Run(fmt.Sprintf("gzip=%v", gz), func(t *testing.T) {
			objs := newMemObjects()
			cache := New(context.Background(), "test-bucket", gz, true)
			cache.Client = objs

			test.Cache(t, cache)

			cache.Set("https://api.chess.com/pub/player/hikaru/games/archives",
				[]byte("payload"))
			for k := range objs.objects {
				if !strings.HasPrefix(k, cachePrefix+"/") {
					t.Errorf("object key %q missing cache prefix", k)
				}
				if gz != strings.HasSuffix(k, ".gz") {
					t.Errorf("object key %q has wrong suffix for gzip=%v", k, gz)
				}
			}
		})
	}
}

func TestUpload(t *testing.T) {
	objs := newMemObjects()
	cache := New(context.Background(), "test-bucket", true, true)
	cache.Client = objs

	loc, err := cache.Upload(context.Background(), "hikaru/3_tactics.json",
		"application/json", strings.NewReader("[]"))
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if loc != "s3://test-bucket/exports/hikaru/3_tactics.json" {
		t.Errorf("unexpected location %q", loc)
	}
	// exports are never compressed
	if got := string(objs.objects["exports/hikaru/3_tactics.json"]); got != "[]" {
		t.Errorf("stored body = %q; want []", got)
	}
	if ct := objs.contentTypes["exports/hikaru/3_tactics.json"]; ct != "application/json" {
		t.Errorf("stored content type = %q", ct)
	}
}

func TestExportKey(t *testing.T) {
	cases := map[string]string{
		"a.json":          "exports/a.json",
		"/abs/b.png":      "exports/abs/b.png",
		"../../escape.sh": "exports/escape.sh",
		"x/./y.csv":       "exports/x/y.csv",
	}
	for in, want := range cases {
		if got := ExportKey(in); got != want {
			t.Errorf("ExportKey(%q) = %q; want %q", in, got, want)
		}
	}
}

func TestS3Cache(t *testing.T) {
	cache := New(context.Background(), internal.WebCacheBucket, false, true)
	err := cache.Init()
	if err != nil {
		t.Skip(fmt.Sprintf("Skipping test due to lack of access to %v: %v",
			internal.WebCacheBucket, err))
	}

	test.Cache(t, cache)
}

func TestS3CacheWithGzip(t *testing.T) {
	cache := New(context.Background(), internal.WebCacheBucket, true, true)
	err := cache.Init()
	if err != nil {
		t.Skip(fmt.Sprintf("Skipping test due to lack of access to %v: %v",
			internal.WebCacheBucket, err))
	}

	test.Cache(t, cache)
}
