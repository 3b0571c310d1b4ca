package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/metrics"
	"github.com/google/uuid"
)

const MaxUploadBytes = 5 << 20

var imageExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"image/bmp":  ".bmp",
}

// ObjectUploader stores one object and returns its public URL.
type ObjectUploader interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
}

type UploadResult struct {
	SecureURL string
	PublicID  string
}

// MediaService forwards image uploads to the media host. A nil uploader
// means no media host is configured.
type MediaService struct {
	uploader ObjectUploader
	metrics  metrics.Recorder
	now      func() time.Time
}

func NewMediaService(uploader ObjectUploader, rec metrics.Recorder) *MediaService {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &MediaService{uploader: uploader, metrics: rec, now: time.Now}
}

func (s *MediaService) Upload(ctx context.Context, r io.Reader, size int64) (*UploadResult, error) {
	if s.uploader == nil {
		return nil, ErrMediaUnavailable
	}
	if size <= 0 {
		return nil, fmt.Errorf("%w: file is empty", ErrInvalidInput)
	}
	if size > MaxUploadBytes {
		return nil, fmt.Errorf("%w: file exceeds %d MB", ErrInvalidInput, MaxUploadBytes>>20)
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: file is empty", ErrInvalidInput)
	}
	if len(data) > MaxUploadBytes {
		return nil, fmt.Errorf("%w: file exceeds %d MB", ErrInvalidInput, MaxUploadBytes>>20)
	}

	contentType := http.DetectContentType(data)
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, fmt.Errorf("%w: only image uploads are allowed", ErrInvalidInput)
	}

	publicID := path.Join("uploads", s.now().UTC().Format("2006/01/02"), uuid.NewString())
	url, err := s.uploader.Put(ctx, publicID+ext, bytes.NewReader(data), int64(len(data)), contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}

	s.metrics.RecordUpload(int64(len(data)))
	return &UploadResult{SecureURL: url, PublicID: publicID}, nil
}
