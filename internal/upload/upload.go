package upload

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxFileSize is the upload ceiling.
const MaxFileSize = 5 << 20 // 5MB

var (
	ErrNoFile   = errors.New("no file provided")
	ErrNotImage = errors.New("only image files are allowed")
	ErrTooLarge = errors.New("file size exceeds the 5MB limit")
)

// ObjectStore writes an object and returns its public URL.
type ObjectStore interface {
	Put(ctx context.Context, name, contentType string, data []byte) (string, error)
}

// Service validates image uploads and hands them to the configured
// object store.
type Service struct {
	store  ObjectStore
	logger *log.Logger
}

func NewService(store ObjectStore, logger *log.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Store validates and persists a single uploaded image, returning its
// public URL.
func (s *Service) Store(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrNoFile
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", ErrNotImage
	}
	if len(data) > MaxFileSize {
		return "", ErrTooLarge
	}

	name := objectName(filename)
	url, err := s.store.Put(ctx, name, contentType, data)
	if err != nil {
		s.logger.Printf("object store put %s: %v", name, err)
		return "", fmt.Errorf("store upload: %w", err)
	}
	return url, nil
}

func objectName(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	if ext == "" {
		ext = ".bin"
	}
	short := strings.Split(uuid.NewString(), "-")[0]
	return fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), short, ext)
}
