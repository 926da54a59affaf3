package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/wsanec-lang/sencoten-backend/internal/platform/logger"
)

// localImageStore writes files under a static directory that the router
// serves directly. The public URL for a file is baseURL/<filename>; deleting
// derives the filename from the URL's final path segment.
type localImageStore struct {
	log     *logger.Logger
	dir     string
	baseURL string
}

func NewLocalImageStore(log *logger.Logger, dir, baseURL string) (ImageStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, &ConfigError{Code: ConfigErrorMissingLocalDir, Mode: string(ModeLocal)}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create image dir %q: %w", dir, err)
	}
	return &localImageStore{
		log:     log.With("service", "LocalImageStore"),
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

func (s *localImageStore) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	name := sanitizeFilename(filename)
	if name == "" {
		return "", fmt.Errorf("empty image filename")
	}

	dst := filepath.Join(s.dir, name)
	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		_ = os.Remove(dst)
		return "", fmt.Errorf("write image file: %w", err)
	}

	s.log.Debug("Stored image", "file", dst)
	return s.baseURL + "/" + name, nil
}

func (s *localImageStore) Delete(ctx context.Context, url string) error {
	name := sanitizeFilename(path.Base(url))
	if name == "" {
		return fmt.Errorf("cannot derive filename from %q", url)
	}
	target := filepath.Join(s.dir, name)
	if err := os.Remove(target); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("remove image file: %w", err)
	}
	s.log.Debug("Deleted image", "file", target)
	return nil
}

func (s *localImageStore) Owns(url string) bool {
	return s.baseURL != "" && strings.HasPrefix(url, s.baseURL+"/")
}

// sanitizeFilename strips any path component so a crafted name cannot escape
// the image directory.
func sanitizeFilename(name string) string {
	name = path.Base(strings.TrimSpace(name))
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return name
}
