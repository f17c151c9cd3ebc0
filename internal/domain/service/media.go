package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/evermart/placement_service/internal/domain/entity"
	"github.com/evermart/placement_service/internal/errors"
	"github.com/google/uuid"
)

// MediaService owns image blobs. Upload returns the retrievable URL of
// the stored object; URL resolves the location of an already stored key.
type MediaService interface {
	Upload(ctx context.Context, key string, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

func isDataURI(s string) bool {
	return strings.HasPrefix(s, "data:")
}

func decodeDataURI(uri string) (contentType string, data []byte, err error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, errors.NewDomainError(errors.ErrValidation, "not a data URI")
	}

	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, errors.NewDomainError(errors.ErrValidation, "malformed data URI")
	}

	contentType = meta
	if enc, found := strings.CutSuffix(meta, ";base64"); found {
		contentType = enc
		data, err = base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return "", nil, errors.NewDomainError(errors.ErrValidation, "malformed base64 payload")
		}
	} else {
		data = []byte(payload)
	}

	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return contentType, data, nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/svg+xml":
		return ".svg"
	default:
		return ".bin"
	}
}

// mediaKey builds the storage key for a blob, namespaced by kind and
// upload date: hero-sliders/DD-MM-YYYY/<name> or banners/DD-MM-YYYY/<name>.
func mediaKey(kind entity.Kind, contentType string, now time.Time) string {
	prefix := "banners"
	if kind == entity.KindHeroSlider {
		prefix = "hero-sliders"
	}
	return fmt.Sprintf("%s/%s/%s%s", prefix, now.Format("02-01-2006"), uuid.NewString(), extensionFor(contentType))
}
