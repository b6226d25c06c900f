package media

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"

	"property-service/pkg/config"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	cldconfig "github.com/cloudinary/cloudinary-go/v2/config"
	"go.uber.org/zap"
)

// Cloudinary uploads images through the Cloudinary upload API
type Cloudinary struct {
	Folder   string
	MaxBytes int64
	Timeout  time.Duration
	Logger   *zap.Logger

	cld *cloudinary.Cloudinary
}

// NewCloudinary creates a new Cloudinary uploader instance.
// A non-empty cfg.BaseURL replaces the default API host.
func NewCloudinary(cfg *config.MediaConfig, logger *zap.Logger) (*Cloudinary, error) {
	cldCfg, err := cldconfig.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary config: %w", err)
	}
	if cfg.BaseURL != "" {
		cldCfg.API.UploadPrefix = strings.TrimRight(cfg.BaseURL, "/")
	}

	cld, err := cloudinary.NewFromConfiguration(*cldCfg)
	if err != nil {
		return nil, fmt.Errorf("cloudinary client: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Cloudinary{
		Folder:   cfg.Folder,
		MaxBytes: cfg.MaxUploadBytes,
		Timeout:  timeout,
		Logger:   logger,
		cld:      cld,
	}, nil
}

// Name returns the provider name
func (c *Cloudinary) Name() string {
	return config.MediaCloudinary
}

// Upload sends the payload to Cloudinary. Remote URLs and data URIs are
// passed through; bare base64 is wrapped in a data URI first.
func (c *Cloudinary) Upload(ctx context.Context, payload string) (Result, error) {
	file, err := c.normalize(payload)
	if err != nil {
		return Result{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	resp, err := c.cld.Upload.Upload(ctx, file, uploader.UploadParams{Folder: c.Folder})
	if err != nil {
		c.Logger.Error("Upload request failed", zap.Error(err))
		return Result{}, fmt.Errorf("%w: %w", ErrUploadRejected, err)
	}
	if resp.Error.Message != "" {
		c.Logger.Error("Upload rejected", zap.String("error", resp.Error.Message))
		return Result{}, fmt.Errorf("%w: %s", ErrUploadRejected, resp.Error.Message)
	}

	c.Logger.Info("Image uploaded",
		zap.String("public_id", resp.PublicID),
		zap.String("url", resp.SecureURL))

	return Result{
		URL:       resp.URL,
		SecureURL: resp.SecureURL,
		PublicID:  resp.PublicID,
	}, nil
}

// normalize validates the payload and returns the value handed to the SDK.
// The SDK reads plain strings as local file paths, so only URLs and data
// URIs ever reach it.
func (c *Cloudinary) normalize(payload string) (string, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return "", ErrInvalidPayload
	}
	if IsRemoteURL(payload) {
		return payload, nil
	}
	if err := checkSize(payload, c.MaxBytes); err != nil {
		return "", err
	}

	data, _, err := decodePayload(payload)
	if err != nil {
		return "", err
	}
	if strings.HasPrefix(payload, "data:") {
		return payload, nil
	}
	contentType, _, _ := strings.Cut(http.DetectContentType(data), ";")
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
