package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"github.com/mytasks/core/internal/domain/entities"
	"github.com/mytasks/core/internal/infrastructure/config"
	"github.com/mytasks/core/internal/ports"
)

const (
	lockFileName = ".lock"
	metaSuffix   = ".meta"

	lockRetryInterval = 50 * time.Millisecond
)

// FileBlobStore is a key-addressed blob store backed by the local
// filesystem. Keys may contain slashes and map onto subdirectories.
// Writes, deletes and sweeps are serialized through a flock'd lock file so
// the gc pass never races an in-flight upload.
type FileBlobStore struct {
	root string
	lock *flock.Flock
}

// NewFileBlobStore creates the store root if needed
func NewFileBlobStore(cfg config.BlobStoreConfig) (*FileBlobStore, error) {
	root, err := filepath.Abs(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("resolve blob store path: %w", err)
	}

	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create blob store root: %w", err)
	}

	return &FileBlobStore{
		root: root,
		lock: flock.New(filepath.Join(root, lockFileName)),
	}, nil
}

func (s *FileBlobStore) acquireLock(ctx context.Context) error {
	locked, err := s.lock.TryLockContext(ctx, lockRetryInterval)
	if err != nil {
		return fmt.Errorf("acquire blob store lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("blob store lock not acquired")
	}
	return nil
}

// pathFor maps a key onto the filesystem, rejecting anything that would
// escape the store root.
func (s *FileBlobStore) pathFor(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("empty blob key")
	}

	cleaned := filepath.Clean(filepath.FromSlash(key))
	if filepath.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid blob key %q", key)
	}

	return filepath.Join(s.root, cleaned), nil
}

func (s *FileBlobStore) Put(ctx context.Context, key, contentType string, body io.Reader) error {
	path, err := s.pathFor(key)
	if err != nil {
		return err
	}

	if err := s.acquireLock(ctx); err != nil {
		return err
	}
	defer s.lock.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create blob directory: %w", err)
	}

	// Write to a temp file and rename so readers never see a partial blob.
	tmp, err := os.CreateTemp(filepath.Dir(path), ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp blob: %w", err)
	}

	if _, err := io.Copy(tmp, body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write blob: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp blob: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("finalize blob: %w", err)
	}

	if contentType != "" {
		if err := os.WriteFile(path+metaSuffix, []byte(contentType), 0o644); err != nil {
			return fmt.Errorf("write blob metadata: %w", err)
		}
	}

	return nil
}

func (s *FileBlobStore) Get(ctx context.Context, key string) (*ports.Blob, error) {
	path, err := s.pathFor(key)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, entities.ErrImageNotFound
		}
		return nil, fmt.Errorf("open blob: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat blob: %w", err)
	}

	return &ports.Blob{
		Key:         key,
		ContentType: s.contentTypeFor(path),
		Size:        info.Size(),
		Body:        f,
	}, nil
}

func (s *FileBlobStore) contentTypeFor(path string) string {
	if meta, err := os.ReadFile(path + metaSuffix); err == nil {
		if ct := strings.TrimSpace(string(meta)); ct != "" {
			return ct
		}
	}
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

func (s *FileBlobStore) Delete(ctx context.Context, key string) error {
	path, err := s.pathFor(key)
	if err != nil {
		return err
	}

	if err := s.acquireLock(ctx); err != nil {
		return err
	}
	defer s.lock.Unlock()

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return entities.ErrImageNotFound
		}
		return fmt.Errorf("delete blob: %w", err)
	}
	os.Remove(path + metaSuffix)

	return nil
}

func (s *FileBlobStore) List(ctx context.Context) ([]ports.BlobInfo, error) {
	blobs := []ports.BlobInfo{}

	err := filepath.Walk(s.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		name := info.Name()
		if name == lockFileName || strings.HasSuffix(name, metaSuffix) || strings.HasPrefix(name, ".upload-") {
			return nil
		}

		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}

		blobs = append(blobs, ports.BlobInfo{
			Key:     filepath.ToSlash(rel),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list blobs: %w", err)
	}

	return blobs, nil
}
