package app

import (
	"context"
	"fmt"

	"github.com/wsanec-lang/sencoten-backend/internal/platform/logger"
	"github.com/wsanec-lang/sencoten-backend/internal/storage"
)

// resolveImageStore validates the storage config up front so misconfiguration
// fails the boot with a classified error instead of surfacing on the first
// upload.
func resolveImageStore(ctx context.Context, log *logger.Logger, cfg Config) (storage.ImageStore, error) {
	if err := storage.ValidateConfig(cfg.Storage); err != nil {
		log.Error("Image storage bootstrap failed",
			"mode", cfg.Storage.Mode,
			"emulator_host", cfg.Storage.EmulatorHost,
			"error", err,
		)
		return nil, err
	}

	log.Info("Selecting image storage provider", "mode", cfg.Storage.Mode)

	switch cfg.Storage.Mode {
	case storage.ModeLocal:
		return storage.NewLocalImageStore(log, cfg.Storage.LocalDir, cfg.Storage.PublicBaseURL)
	case storage.ModeGCS, storage.ModeGCSEmulator:
		return storage.NewGCSImageStore(ctx, log, cfg.Storage)
	default:
		// ValidateConfig already rejects unknown modes.
		return nil, fmt.Errorf("unsupported image storage mode %q", cfg.Storage.Mode)
	}
}
