package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"time"
)

// BucketStore writes objects into a storage service bucket over its
// REST API and derives the object's public URL.
type BucketStore struct {
	baseURL string
	key     string
	bucket  string
	http    *http.Client
}

func NewBucketStore(baseURL, key, bucket string, timeout time.Duration) *BucketStore {
	return &BucketStore{
		baseURL: baseURL,
		key:     key,
		bucket:  bucket,
		http:    &http.Client{Timeout: timeout},
	}
}

func (s *BucketStore) Put(ctx context.Context, name, contentType string, data []byte) (string, error) {
	url := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.baseURL, s.bucket, name)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+s.key)
	req.Header.Set("Content-Type", contentType)

	resp, err := s.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload object: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("object store returned %d: %s", resp.StatusCode, msg)
	}

	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, name), nil
}

// PlaceholderStore is the demo fallback when no object storage is
// configured: it stores nothing and synthesizes a local URL.
type PlaceholderStore struct{}

func (PlaceholderStore) Put(_ context.Context, name, _ string, _ []byte) (string, error) {
	return path.Join("/images/uploads", "mock-"+name), nil
}
