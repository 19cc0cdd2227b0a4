package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
)

var (
	ErrEmptyUpload   = errors.New("file data is empty")
	ErrUploadTooBig  = errors.New("file is too large")
	ErrNotAnImage    = errors.New("file is not an image")
	defaultUploadMax = int64(12 << 20)
)

// ImageUploader is the backend call behind UploadService.
type ImageUploader interface {
	UploadImage(ctx context.Context, filename string, r io.Reader) (string, error)
}

// UploadService checks an image locally before handing it to the backend.
type UploadService struct {
	api ImageUploader
	max int64
}

func NewUploadService(api ImageUploader, maxBytes int64) *UploadService {
	if maxBytes <= 0 {
		maxBytes = defaultUploadMax
	}
	return &UploadService{api: api, max: maxBytes}
}

func (s *UploadService) MaxBytes() int64 { return s.max }

// Upload reads at most MaxBytes from r and returns the stored image URL.
func (s *UploadService) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.max+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	switch {
	case len(data) == 0:
		return "", ErrEmptyUpload
	case int64(len(data)) > s.max:
		return "", ErrUploadTooBig
	}
	if ct := detectContentType(filename, data); !strings.HasPrefix(ct, "image/") {
		return "", fmt.Errorf("%w: %s", ErrNotAnImage, ct)
	}
	return s.api.UploadImage(ctx, filename, bytes.NewReader(data))
}

var imageTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
}

// detectContentType sniffs data, falling back to the extension for
// formats the sniffer does not know.
func detectContentType(fileName string, data []byte) string {
	if ct := http.DetectContentType(data); strings.HasPrefix(ct, "image/") {
		return ct
	}
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == ".svg" && bytes.Contains(data, []byte("<svg")) {
		return imageTypes[ext]
	}
	return "application/octet-stream"
}
