package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/wifiscout/scan-ingestion/internal/config"
)

// Archiver keeps a copy of raw uploaded payloads so a rejected submission
// can be inspected after the fact.
type Archiver interface {
	Store(ctx context.Context, submissionID, fileName string, data []byte) (string, error)
	Retrieve(ctx context.Context, path string) ([]byte, error)
}

// NewArchiver creates the archive backend from configuration. A disabled
// archive drops payloads silently.
func NewArchiver(cfg config.ArchiveConfig) (Archiver, error) {
	if !cfg.Enabled {
		return noopArchiver{}, nil
	}
	if err := os.MkdirAll(cfg.LocalPath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}
	return &LocalArchiver{basePath: cfg.LocalPath}, nil
}

// LocalArchiver stores payloads on the local filesystem, partitioned by day.
type LocalArchiver struct {
	basePath string
}

// Store writes a payload copy and returns its path.
func (a *LocalArchiver) Store(ctx context.Context, submissionID, fileName string, data []byte) (string, error) {
	dir := filepath.Join(a.basePath, time.Now().UTC().Format("2006-01-02"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	path := filepath.Join(dir, submissionID+"_"+filepath.Base(fileName))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write archive file: %w", err)
	}
	return path, nil
}

// Retrieve reads an archived payload back.
func (a *LocalArchiver) Retrieve(ctx context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read archive file: %w", err)
	}
	return data, nil
}

type noopArchiver struct{}

func (noopArchiver) Store(context.Context, string, string, []byte) (string, error) {
	return "", nil
}

func (noopArchiver) Retrieve(context.Context, string) ([]byte, error) {
	return nil, fmt.Errorf("payload archiving is disabled")
}
