package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"equiprent/internal/storage"
)

const equipmentBucket = "equipment"

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type imageService struct {
	store        storage.ObjectStore
	allowedTypes []string
	maxBytes     int64
}

func NewImageService(store storage.ObjectStore, allowedTypes []string, maxBytes int64) ImageService {
	return &imageService{
		store:        store,
		allowedTypes: allowedTypes,
		maxBytes:     maxBytes,
	}
}

func (s *imageService) Upload(ctx context.Context, actorID, filename, contentType string, body io.Reader) (string, string, error) {
	if actorID == "" {
		return "", "", ErrForbidden
	}
	contentType = strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	if !slices.Contains(s.allowedTypes, contentType) {
		return "", "", invalid("content type %q not allowed", contentType)
	}

	name := filename
	if filepath.Ext(name) == "" {
		name += imageExtensions[contentType]
	}
	key := storage.NewKey(equipmentBucket, name)

	// Read one byte past the limit so an oversized body is detected.
	n, err := s.store.Save(ctx, key, io.LimitReader(body, s.maxBytes+1))
	if err != nil {
		return "", "", fmt.Errorf("save image: %w", err)
	}
	if n > s.maxBytes {
		_ = s.store.Delete(ctx, key)
		return "", "", fmt.Errorf("%w: image exceeds %d bytes", ErrTooLarge, s.maxBytes)
	}
	if n == 0 {
		_ = s.store.Delete(ctx, key)
		return "", "", invalid("empty image")
	}
	return key, s.store.PublicURL(key), nil
}

func (s *imageService) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	rc, err := s.store.Open(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotFound
	}
	return rc, err
}
