package memory

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"
)

var ErrObjectNotFound = errors.New("object not found")

// MediaStore keeps uploaded objects in memory and signs fake URLs for them.
type MediaStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	now     func() time.Time
}

func NewMediaStore() *MediaStore {
	return &MediaStore{objects: make(map[string][]byte), now: time.Now}
}

func (m *MediaStore) Upload(ctx context.Context, bucket, path string, body io.Reader, contentType string) error {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[bucket+"/"+path] = buf.Bytes()
	return nil
}

func (m *MediaStore) SignedURL(ctx context.Context, bucket, path string, ttl time.Duration) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[bucket+"/"+path]; !ok {
		return "", ErrObjectNotFound
	}
	return fmt.Sprintf("memory://%s/%s?expires=%d", bucket, path, m.now().Add(ttl).Unix()), nil
}

// Object returns the stored bytes, for tests.
func (m *MediaStore) Object(bucket, path string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.objects[bucket+"/"+path]
	return b, ok
}
