package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// ImageStore persists dictionary entry images and hands out the public URL
// they are served under. Delete is only ever called for URLs the store Owns.
type ImageStore interface {
	Save(ctx context.Context, filename string, r io.Reader) (string, error)
	Delete(ctx context.Context, url string) error
	Owns(url string) bool
}

type Mode string

const (
	ModeLocal       Mode = "local"
	ModeGCS         Mode = "gcs"
	ModeGCSEmulator Mode = "gcs-emulator"
)

func IsSupportedMode(mode Mode) bool {
	switch mode {
	case ModeLocal, ModeGCS, ModeGCSEmulator:
		return true
	}
	return false
}

type ConfigErrorCode string

const (
	ConfigErrorInvalidMode         ConfigErrorCode = "invalid_mode"
	ConfigErrorMissingEmulatorHost ConfigErrorCode = "missing_emulator_host"
	ConfigErrorInvalidEmulatorHost ConfigErrorCode = "invalid_emulator_host"
	ConfigErrorMissingBucket       ConfigErrorCode = "missing_bucket"
	ConfigErrorMissingLocalDir     ConfigErrorCode = "missing_local_dir"
)

type ConfigError struct {
	Code         ConfigErrorCode
	Mode         string
	EmulatorHost string
}

func (e *ConfigError) Error() string {
	if e == nil {
		return "image storage config error"
	}
	return fmt.Sprintf("image storage config error (code=%s mode=%q emulator_host=%q)",
		e.Code, e.Mode, e.EmulatorHost)
}

// Config is everything needed to bootstrap an ImageStore.
type Config struct {
	Mode Mode

	// local
	LocalDir      string
	PublicBaseURL string

	// gcs / gcs-emulator
	Bucket       string
	EmulatorHost string
}

func ValidateConfig(cfg Config) error {
	switch cfg.Mode {
	case ModeLocal:
		if strings.TrimSpace(cfg.LocalDir) == "" {
			return &ConfigError{Code: ConfigErrorMissingLocalDir, Mode: string(cfg.Mode)}
		}
	case ModeGCS:
		if strings.TrimSpace(cfg.Bucket) == "" {
			return &ConfigError{Code: ConfigErrorMissingBucket, Mode: string(cfg.Mode)}
		}
	case ModeGCSEmulator:
		if strings.TrimSpace(cfg.Bucket) == "" {
			return &ConfigError{Code: ConfigErrorMissingBucket, Mode: string(cfg.Mode)}
		}
		host := strings.TrimSpace(cfg.EmulatorHost)
		if host == "" {
			return &ConfigError{Code: ConfigErrorMissingEmulatorHost, Mode: string(cfg.Mode)}
		}
		if !strings.Contains(host, ":") {
			return &ConfigError{Code: ConfigErrorInvalidEmulatorHost, Mode: string(cfg.Mode), EmulatorHost: host}
		}
	default:
		return &ConfigError{Code: ConfigErrorInvalidMode, Mode: string(cfg.Mode)}
	}
	return nil
}
