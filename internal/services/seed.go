package services

import (
	"context"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed seed_data.yaml
var seedData []byte

type seedRecord struct {
	EnglishWord      string `yaml:"english_word"`
	EnglishPhonetic  string `yaml:"english_phonetic"`
	SencotenWord     string `yaml:"sencoten_word"`
	SencotenPhonetic string `yaml:"sencoten_phonetic"`
	ImageURL         string `yaml:"image_url"`
	Verified         bool   `yaml:"verified"`
	Visible          bool   `yaml:"visible"`
	CreatedByName    string `yaml:"created_by_name"`
}

// Seed inserts the embedded demonstration entries, but only into an empty
// dictionary. Rows go through the normal create path, so they start
// unverified; seed flags are applied afterwards through the toggle path.
func (ds *dictionaryService) Seed(ctx context.Context) (int, error) {
	count, err := ds.repo.Count(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	var records []seedRecord
	if err := yaml.Unmarshal(seedData, &records); err != nil {
		return 0, fmt.Errorf("parse seed data: %w", err)
	}

	created := 0
	for _, rec := range records {
		entry, err := ds.Create(ctx, CreateEntryInput{
			EnglishWord:      rec.EnglishWord,
			EnglishPhonetic:  rec.EnglishPhonetic,
			SencotenWord:     rec.SencotenWord,
			SencotenPhonetic: rec.SencotenPhonetic,
			ImageURL:         rec.ImageURL,
			CreatedByName:    rec.CreatedByName,
		})
		if err != nil {
			return created, fmt.Errorf("seed %q: %w", rec.EnglishWord, err)
		}
		if rec.Verified {
			if err := ds.SetVerified(ctx, entry.ID, true); err != nil {
				return created, fmt.Errorf("seed %q verified flag: %w", rec.EnglishWord, err)
			}
		}
		if rec.Visible {
			if err := ds.SetVisible(ctx, entry.ID, true); err != nil {
				return created, fmt.Errorf("seed %q visible flag: %w", rec.EnglishWord, err)
			}
		}
		created++
	}

	ds.log.Info("Seeded sample dictionary entries", "count", created)
	return created, nil
}
