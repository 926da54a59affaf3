package app

import (
	"strings"
	"time"

	"github.com/wsanec-lang/sencoten-backend/internal/db"
	"github.com/wsanec-lang/sencoten-backend/internal/platform/envutil"
	"github.com/wsanec-lang/sencoten-backend/internal/platform/logger"
	"github.com/wsanec-lang/sencoten-backend/internal/storage"
)

type Config struct {
	Port        string
	CORSOrigins []string

	DB db.Config

	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	// Initial teacher account, created only when the user table is empty.
	BootstrapUsername    string
	BootstrapPassword    string
	BootstrapDisplayName string

	Storage storage.Config

	RedisAddr    string
	RedisChannel string

	// PlaceholderFont is a path to a TTF used for generated entry images.
	// Empty disables generation.
	PlaceholderFont string
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Port: envutil.String("PORT", "8080"),

		DB: db.Config{
			Driver:           envutil.String("DB_DRIVER", db.DriverSQLite),
			PostgresHost:     envutil.String("POSTGRES_HOST", "localhost"),
			PostgresPort:     envutil.String("POSTGRES_PORT", "5432"),
			PostgresUser:     envutil.String("POSTGRES_USER", "postgres"),
			PostgresPassword: envutil.String("POSTGRES_PASSWORD", ""),
			PostgresName:     envutil.String("POSTGRES_NAME", "sencoten"),
			SQLitePath:       envutil.String("SQLITE_PATH", "data/dictionary.db"),
		},

		JWTSecretKey:    envutil.String("JWT_SECRET_KEY", "defaultsecret"),
		AccessTokenTTL:  envutil.Seconds("ACCESS_TOKEN_TTL", time.Hour),
		RefreshTokenTTL: envutil.Seconds("REFRESH_TOKEN_TTL", 24*time.Hour),

		BootstrapUsername:    envutil.String("BOOTSTRAP_USERNAME", "teacher"),
		BootstrapPassword:    envutil.String("BOOTSTRAP_PASSWORD", ""),
		BootstrapDisplayName: envutil.String("BOOTSTRAP_DISPLAY_NAME", "Teacher"),

		Storage: storage.Config{
			Mode:          storage.Mode(envutil.String("IMAGE_STORAGE_MODE", string(storage.ModeLocal))),
			LocalDir:      envutil.String("IMAGE_LOCAL_DIR", "data/images"),
			PublicBaseURL: envutil.String("IMAGE_PUBLIC_BASE_URL", ""),
			Bucket:        envutil.String("IMAGE_GCS_BUCKET", ""),
			EmulatorHost:  envutil.String("STORAGE_EMULATOR_HOST", ""),
		},

		RedisAddr:    envutil.String("REDIS_ADDR", ""),
		RedisChannel: envutil.String("REDIS_CHANNEL", ""),

		PlaceholderFont: envutil.String("PLACEHOLDER_FONT", ""),
	}

	if origins := envutil.String("CORS_ORIGINS", ""); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}

	if cfg.Storage.PublicBaseURL == "" && cfg.Storage.Mode == storage.ModeLocal {
		cfg.Storage.PublicBaseURL = "http://localhost:" + cfg.Port + "/static/dictionary"
	}

	log.Info("Config loaded",
		"port", cfg.Port,
		"db_driver", cfg.DB.Driver,
		"storage_mode", cfg.Storage.Mode,
		"redis", cfg.RedisAddr != "",
	)
	return cfg
}
