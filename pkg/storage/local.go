package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"mime"
	"os"
	"path"
	"path/filepath"

	"github.com/delegasi/delegation-manager/internal/errdef"
)

// NewLocalFileStore returns a FileStore writing to the directory tree rooted at baseDir. Each
// namespace becomes a sub directory, matching the layout served under /uploads, /uploads-event and
// /uploads-responses.
func NewLocalFileStore(logger *slog.Logger, baseDir string) *LocalFileStore {
	return &LocalFileStore{logger: logger, baseDir: baseDir}
}

type LocalFileStore struct {
	logger  *slog.Logger
	baseDir string
}

func (s LocalFileStore) Put(ctx context.Context, key string, _ string, body io.Reader, _ int64) error {
	fullPath, err := s.fullPath(key)
	if err != nil {
		return errdef.NewBadRequest("%v", err)
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %q: %v", key, err)
	}

	file, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create file %q: %v", key, err)
	}

	written, err := io.Copy(file, body)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(fullPath)
		return fmt.Errorf("failed to write file %q: %v", key, err)
	}

	s.logger.DebugContext(ctx, "Stored file", "key", key, "size", written)
	return nil
}

func (s LocalFileStore) Get(_ context.Context, key string) (*Object, error) {
	fullPath, err := s.fullPath(key)
	if err != nil {
		return nil, errdef.NewNotFound("file %q not found", key)
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errdef.NewNotFound("file %q not found", key)
		}
		return nil, fmt.Errorf("failed to open file %q: %v", key, err)
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to stat file %q: %v", key, err)
	}
	if info.IsDir() {
		_ = file.Close()
		return nil, errdef.NewNotFound("file %q not found", key)
	}

	return &Object{
		Body:        file,
		ContentType: contentTypeByName(key),
		Size:        info.Size(),
	}, nil
}

func (s LocalFileStore) fullPath(key string) (string, error) {
	cleaned, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.baseDir, filepath.FromSlash(cleaned)), nil
}

func contentTypeByName(name string) string {
	contentType := mime.TypeByExtension(path.Ext(name))
	if contentType == "" {
		return "application/octet-stream"
	}
	return contentType
}
