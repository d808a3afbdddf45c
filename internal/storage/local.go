// Package storage persists the files bundled with a contract submission.
// File storage behavior (CDN, buckets) is owned elsewhere; this is the
// minimal boundary the engine writes through.
package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/theophane330/habipro-backend/internal/pkg/logger"
	"github.com/theophane330/habipro-backend/internal/utils"
)

const (
	CategoryContract = "contracts"
	CategoryIdentity = "identity"
)

type UploadStore interface {
	SaveUpload(ctx context.Context, category, name string, data []byte) (string, error)
}

type localStore struct {
	log     *logger.Logger
	root    string
	baseURL string
}

func NewLocalStore(log *logger.Logger) (UploadStore, error) {
	storeLog := log.With("service", "LocalUploadStore")

	root := utils.GetEnv("UPLOADS_DIR", "./uploads", log)
	baseURL := utils.GetEnv("UPLOADS_BASE_URL", "/media", log)

	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &localStore{log: storeLog, root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// SaveUpload writes the file under a versioned key so a re-submission never
// overwrites an earlier object, and returns the public URL to store on the
// contract record.
func (s *localStore) SaveUpload(ctx context.Context, category, name string, data []byte) (string, error) {
	key := fmt.Sprintf("%s/%s/%d_%s", category, uuid.New().String(), time.Now().UnixNano(), sanitizeName(name))

	full := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create upload subdir: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}

	url := s.baseURL + "/" + key
	s.log.Debug("upload stored", "key", key, "bytes", len(data))
	return url, nil
}

func sanitizeName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, name)
	if name == "" || name == "." {
		name = "upload"
	}
	return name
}
