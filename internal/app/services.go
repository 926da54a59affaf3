package app

import (
	"gorm.io/gorm"

	"github.com/wsanec-lang/sencoten-backend/internal/clients/redis"
	"github.com/wsanec-lang/sencoten-backend/internal/platform/logger"
	"github.com/wsanec-lang/sencoten-backend/internal/services"
	"github.com/wsanec-lang/sencoten-backend/internal/sse"
	"github.com/wsanec-lang/sencoten-backend/internal/storage"
)

type Services struct {
	Auth        services.AuthService
	Dictionary  services.DictionaryService
	Placeholder services.PlaceholderService
}

func wireServices(
	db *gorm.DB,
	log *logger.Logger,
	cfg Config,
	reposet Repos,
	hub *sse.Hub,
	bus redis.Bus,
	images storage.ImageStore,
) (Services, error) {
	log.Info("Wiring services...")

	notifier := services.NewChangeNotifier(log, hub, bus)

	dictionary := services.NewDictionaryService(db, log, reposet.Dictionary, images, notifier)

	auth := services.NewAuthService(db, log, reposet.User, reposet.UserToken,
		cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	var placeholder services.PlaceholderService
	if cfg.PlaceholderFont != "" {
		p, err := services.NewPlaceholderService(log, dictionary, cfg.PlaceholderFont)
		if err != nil {
			// Generation is optional; a bad font disables it rather than
			// failing the boot.
			log.Warn("Placeholder image generation disabled", "font", cfg.PlaceholderFont, "error", err)
		} else {
			placeholder = p
		}
	}

	return Services{
		Auth:        auth,
		Dictionary:  dictionary,
		Placeholder: placeholder,
	}, nil
}
