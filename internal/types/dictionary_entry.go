package types

import (
	"time"

	"github.com/google/uuid"
)

// DictionaryEntry is one bilingual word record. An entry shows up in the
// public browse surface only when both Verified and Visible are set.
type DictionaryEntry struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	EnglishWord      string     `gorm:"column:english_word;index" json:"english_word"`
	EnglishPhonetic  string     `gorm:"column:english_phonetic" json:"english_phonetic"`
	SencotenWord     string     `gorm:"column:sencoten_word;index" json:"sencoten_word"`
	SencotenPhonetic string     `gorm:"column:sencoten_phonetic" json:"sencoten_phonetic"`
	// Shadow columns lowercased in Go. sqlite's LOWER() folds ASCII only, so
	// searching SENĆOŦEN headwords has to match against these instead.
	EnglishLower  string `gorm:"column:english_word_lower;index" json:"-"`
	SencotenLower string `gorm:"column:sencoten_word_lower;index" json:"-"`
	ImageURL         string     `gorm:"column:image_url" json:"image_url,omitempty"`
	Verified         bool       `gorm:"column:verified;not null;default:false;index" json:"verified"`
	Visible          bool       `gorm:"column:visible;not null;default:false;index" json:"visible"`
	CreatedBy        *uuid.UUID `gorm:"type:uuid;column:created_by;index" json:"created_by,omitempty"`
	CreatedByName    string     `gorm:"column:created_by_name" json:"created_by_name,omitempty"`
	UpdatedBy        *uuid.UUID `gorm:"type:uuid;column:updated_by" json:"updated_by,omitempty"`
	UpdatedByName    string     `gorm:"column:updated_by_name" json:"updated_by_name,omitempty"`
	CreatedAt        time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"not null" json:"updated_at"`
}

func (DictionaryEntry) TableName() string { return "dictionary_entry" }

// PubliclyVisible reports whether the entry may be served to anonymous
// browsers. Either flag alone is not enough.
func (e *DictionaryEntry) PubliclyVisible() bool {
	return e.Verified && e.Visible
}
