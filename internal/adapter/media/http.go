package media

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/evermart/placement_service/internal/domain/service"
	"github.com/go-resty/resty/v2"
)

var _ service.MediaService = new(httpMediaService)

// httpMediaService talks to a remote media server over plain HTTP:
// PUT {base}/{key} stores a blob, DELETE {base}/{key} removes it.
// The stored blob is retrievable at the same URL.
type httpMediaService struct {
	client  *resty.Client
	baseURL string
}

func NewHTTPMediaService(baseURL string, timeout time.Duration) *httpMediaService {
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(200 * time.Millisecond)

	return &httpMediaService{
		client:  client,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

func (s *httpMediaService) blobURL(key string) string {
	return s.baseURL + "/" + key
}

// URL resolves a storage key to its retrievable location. Absolute
// references pass through untouched.
func (s *httpMediaService) URL(key string) string {
	if strings.Contains(key, "://") {
		return key
	}
	return s.blobURL(key)
}

func (s *httpMediaService) Upload(ctx context.Context, key string, contentType string, data []byte) (string, error) {
	url := s.blobURL(key)

	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", contentType).
		SetBody(data).
		Put(url)
	if err != nil {
		slog.Error("error uploading media blob", "key", key, "error", err)
		return "", err
	}
	if resp.IsError() {
		slog.Error("media server rejected upload", "key", key, "status", resp.StatusCode())
		return "", fmt.Errorf("media server responded %d", resp.StatusCode())
	}

	return url, nil
}

func (s *httpMediaService) Delete(ctx context.Context, key string) error {
	resp, err := s.client.R().
		SetContext(ctx).
		Delete(s.blobURL(key))
	if err != nil {
		slog.Error("error deleting media blob", "key", key, "error", err)
		return err
	}
	if resp.IsError() && resp.StatusCode() != 404 {
		slog.Error("media server rejected delete", "key", key, "status", resp.StatusCode())
		return fmt.Errorf("media server responded %d", resp.StatusCode())
	}

	return nil
}
