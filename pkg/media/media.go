// Package media uploads listing photos to a media host and returns the URL
// the photo is publicly served from.
package media

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"strings"

	"property-service/pkg/config"

	"github.com/docker/go-units"
	"go.uber.org/zap"
)

// Media errors returned by Uploader implementations.
var (
	// ErrInvalidPayload indicates the photo payload could not be decoded.
	ErrInvalidPayload = errors.New("media: invalid photo payload")

	// ErrUploadRejected indicates the media host refused the upload.
	ErrUploadRejected = errors.New("media: upload rejected")
)

// Result describes an uploaded image.
type Result struct {
	URL       string
	SecureURL string
	PublicID  string
}

// Location returns the URL clients should use, preferring HTTPS.
func (r Result) Location() string {
	if r.SecureURL != "" {
		return r.SecureURL
	}
	return r.URL
}

// Uploader converts an image payload into a durable URL.
// The payload is a data URI, a bare base64 string, or a remote http(s) URL.
type Uploader interface {
	Upload(ctx context.Context, payload string) (Result, error)
	Name() string
}

// New builds the uploader selected by cfg.Provider.
func New(cfg *config.MediaConfig, logger *zap.Logger) (Uploader, error) {
	switch cfg.Provider {
	case config.MediaCloudinary:
		c, err := NewCloudinary(cfg, logger)
		if err != nil {
			return nil, err
		}
		return c, nil
	case config.MediaLocal:
		local, err := NewLocal(cfg, logger)
		if err != nil {
			return nil, err
		}
		return local, nil
	default:
		return nil, fmt.Errorf("unsupported media provider %q", cfg.Provider)
	}
}

// IsRemoteURL reports whether the payload already points at a hosted image.
func IsRemoteURL(payload string) bool {
	return strings.HasPrefix(payload, "http://") || strings.HasPrefix(payload, "https://")
}

// checkSize rejects inline payloads that decode to more than max bytes.
// Remote URLs and a non-positive max are not checked.
func checkSize(payload string, max int64) error {
	if max <= 0 || IsRemoteURL(payload) {
		return nil
	}
	encoded := payload
	if _, body, ok := strings.Cut(payload, ","); ok && strings.HasPrefix(payload, "data:") {
		encoded = body
	}
	if int64(base64.StdEncoding.DecodedLen(len(strings.TrimSpace(encoded)))) > max {
		return fmt.Errorf("%w: photo exceeds %s", ErrInvalidPayload, units.HumanSize(float64(max)))
	}
	return nil
}

// decodePayload decodes a data URI or bare base64 string into bytes and a
// file extension derived from the declared content type.
func decodePayload(payload string) ([]byte, string, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, "", ErrInvalidPayload
	}

	ext := ".bin"
	encoded := payload
	if strings.HasPrefix(payload, "data:") {
		header, body, ok := strings.Cut(payload, ",")
		if !ok || !strings.HasSuffix(header, ";base64") {
			return nil, "", ErrInvalidPayload
		}
		contentType := strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
		if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
			ext = exts[0]
		}
		encoded = body
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if len(data) == 0 {
		return nil, "", ErrInvalidPayload
	}

	return data, ext, nil
}
