package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	gcstorage "cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/wsanec-lang/sencoten-backend/internal/platform/logger"
)

const gcsObjectPrefix = "dictionary/"

// gcsImageStore keeps entry images in a GCS bucket under dictionary/<name>.
// With ModeGCSEmulator all traffic goes to a fake-gcs-server style endpoint.
type gcsImageStore struct {
	log           *logger.Logger
	client        *gcstorage.Client
	bucket        string
	publicBaseURL string
}

func NewGCSImageStore(ctx context.Context, log *logger.Logger, cfg Config) (ImageStore, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	var opts []option.ClientOption
	publicBase := fmt.Sprintf("https://storage.googleapis.com/%s", cfg.Bucket)
	if cfg.Mode == ModeGCSEmulator {
		host := strings.TrimRight(strings.TrimSpace(cfg.EmulatorHost), "/")
		if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
			host = "http://" + host
		}
		opts = append(opts,
			option.WithEndpoint(host+"/storage/v1/"),
			option.WithoutAuthentication(),
		)
		publicBase = fmt.Sprintf("%s/%s", host, cfg.Bucket)
	}

	client, err := gcstorage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	serviceLog := log.With("service", "GCSImageStore")
	serviceLog.Info("Object storage initialized",
		"mode", cfg.Mode,
		"bucket", cfg.Bucket,
		"emulator_host", cfg.EmulatorHost,
	)

	return &gcsImageStore{
		log:           serviceLog,
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: publicBase,
	}, nil
}

func (s *gcsImageStore) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	name := sanitizeFilename(filename)
	if name == "" {
		return "", fmt.Errorf("empty image filename")
	}
	key := gcsObjectPrefix + name

	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("upload image object: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finish image upload: %w", err)
	}

	s.log.Debug("Uploaded image", "bucket", s.bucket, "key", key)
	return s.publicBaseURL + "/" + key, nil
}

func (s *gcsImageStore) Delete(ctx context.Context, url string) error {
	key := gcsObjectPrefix + sanitizeFilename(path.Base(url))

	err := s.client.Bucket(s.bucket).Object(key).Delete(ctx)
	if err != nil {
		if err == gcstorage.ErrObjectNotExist {
			return nil
		}
		return fmt.Errorf("delete image object: %w", err)
	}
	s.log.Debug("Deleted image", "bucket", s.bucket, "key", key)
	return nil
}

func (s *gcsImageStore) Owns(url string) bool {
	return strings.HasPrefix(url, s.publicBaseURL+"/"+gcsObjectPrefix)
}
