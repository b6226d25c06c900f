package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"property-service/pkg/config"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Local stores uploads on disk, to be served by the HTTP server under URLPath.
// Intended for development and single-node deployments.
type Local struct {
	dir      string
	baseURL  string
	maxBytes int64
	logger   *zap.Logger
}

// NewLocal creates the upload directory and returns a Local uploader
func NewLocal(cfg *config.MediaConfig, logger *zap.Logger) (*Local, error) {
	if cfg.LocalDir == "" {
		return nil, fmt.Errorf("local_dir required")
	}

	absPath, err := filepath.Abs(cfg.LocalDir)
	if err != nil {
		return nil, fmt.Errorf("resolve local_dir: %w", err)
	}

	if err := os.MkdirAll(absPath, 0755); err != nil {
		return nil, fmt.Errorf("create local_dir: %w", err)
	}

	base := strings.TrimRight(cfg.PublicBaseURL, "/") + "/" + strings.Trim(cfg.LocalURLPath, "/")

	return &Local{
		dir:      absPath,
		baseURL:  strings.TrimRight(base, "/"),
		maxBytes: cfg.MaxUploadBytes,
		logger:   logger,
	}, nil
}

// Name returns the provider name
func (l *Local) Name() string {
	return config.MediaLocal
}

// Dir returns the directory uploads are written to
func (l *Local) Dir() string {
	return l.dir
}

// Upload writes the decoded payload to a new file. Remote URLs are returned unchanged.
func (l *Local) Upload(ctx context.Context, payload string) (Result, error) {
	if IsRemoteURL(payload) {
		return Result{URL: payload}, nil
	}

	if err := checkSize(payload, l.maxBytes); err != nil {
		return Result{}, err
	}

	data, ext, err := decodePayload(payload)
	if err != nil {
		return Result{}, err
	}

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	name := uuid.New().String() + ext
	path := filepath.Join(l.dir, name)

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return Result{}, fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return Result{}, fmt.Errorf("rename temp file: %w", err)
	}

	l.logger.Info("Image stored locally",
		zap.String("file", name),
		zap.Int("bytes", len(data)))

	return Result{
		URL:      l.baseURL + "/" + name,
		PublicID: name,
	}, nil
}
