package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/theophane330/habipro-backend/internal/pkg/logger"
)

func newTestStore(t *testing.T) UploadStore {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("UPLOADS_DIR", dir)
	t.Setenv("UPLOADS_BASE_URL", "/media")

	store, err := NewLocalStore(logger.NewNop())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store
}

func TestSaveUploadWritesFileAndReturnsURL(t *testing.T) {
	store := newTestStore(t)

	url, err := store.SaveUpload(context.Background(), CategoryIdentity, "cni recto.png", []byte("png-bytes"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.HasPrefix(url, "/media/"+CategoryIdentity+"/") {
		t.Fatalf("url shape: %q", url)
	}
	if strings.Contains(url, " ") {
		t.Fatalf("file name not sanitized: %q", url)
	}

	rel := strings.TrimPrefix(url, "/media/")
	data, err := os.ReadFile(filepath.Join(os.Getenv("UPLOADS_DIR"), filepath.FromSlash(rel)))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Fatalf("content mismatch: %q", data)
	}
}

func TestSaveUploadNeverOverwrites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first, err := store.SaveUpload(ctx, CategoryContract, "contrat.pdf", []byte("v1"))
	if err != nil {
		t.Fatalf("save first: %v", err)
	}
	second, err := store.SaveUpload(ctx, CategoryContract, "contrat.pdf", []byte("v2"))
	if err != nil {
		t.Fatalf("save second: %v", err)
	}
	if first == second {
		t.Fatalf("same name produced the same key twice")
	}
}
