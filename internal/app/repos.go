package app

import (
	"gorm.io/gorm"

	"github.com/wsanec-lang/sencoten-backend/internal/platform/logger"
	"github.com/wsanec-lang/sencoten-backend/internal/repos"
)

type Repos struct {
	User       repos.UserRepo
	UserToken  repos.UserTokenRepo
	Dictionary repos.DictionaryRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:       repos.NewUserRepo(db, log),
		UserToken:  repos.NewUserTokenRepo(db, log),
		Dictionary: repos.NewDictionaryRepo(db, log),
	}
}
