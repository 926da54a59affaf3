package repos

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wsanec-lang/sencoten-backend/internal/platform/logger"
	"github.com/wsanec-lang/sencoten-backend/internal/types"
)

// EntryStatus mirrors the admin view filters.
type EntryStatus string

const (
	EntryStatusAll      EntryStatus = "all"
	EntryStatusVerified EntryStatus = "verified"
	EntryStatusPending  EntryStatus = "pending"
	EntryStatusVisible  EntryStatus = "visible"
	EntryStatusHidden   EntryStatus = "hidden"
)

// EntryFilter narrows List results. Zero value lists everything, newest
// created_at first.
type EntryFilter struct {
	Status     EntryStatus
	Search     string
	PublicOnly bool
}

type DictionaryRepo interface {
	Create(ctx context.Context, tx *gorm.DB, entries []*types.DictionaryEntry) ([]*types.DictionaryEntry, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.DictionaryEntry, error)
	List(ctx context.Context, tx *gorm.DB, filter EntryFilter) ([]*types.DictionaryEntry, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
}

type dictionaryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDictionaryRepo(db *gorm.DB, baseLog *logger.Logger) DictionaryRepo {
	repoLog := baseLog.With("repo", "DictionaryRepo")
	return &dictionaryRepo{db: db, log: repoLog}
}

func (dr *dictionaryRepo) Create(ctx context.Context, tx *gorm.DB, entries []*types.DictionaryEntry) ([]*types.DictionaryEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	if len(entries) == 0 {
		return []*types.DictionaryEntry{}, nil
	}

	for _, entry := range entries {
		entry.EnglishLower = strings.ToLower(entry.EnglishWord)
		entry.SencotenLower = strings.ToLower(entry.SencotenWord)
	}

	if err := transaction.WithContext(ctx).Create(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (dr *dictionaryRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.DictionaryEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	var entry types.DictionaryEntry
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (dr *dictionaryRepo) List(ctx context.Context, tx *gorm.DB, filter EntryFilter) ([]*types.DictionaryEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	query := transaction.WithContext(ctx).Model(&types.DictionaryEntry{})

	if filter.PublicOnly {
		query = query.Where("verified = ? AND visible = ?", true, true)
	} else {
		switch filter.Status {
		case EntryStatusVerified:
			query = query.Where("verified = ?", true)
		case EntryStatusPending:
			query = query.Where("verified = ?", false)
		case EntryStatusVisible:
			query = query.Where("visible = ?", true)
		case EntryStatusHidden:
			query = query.Where("visible = ?", false)
		}
	}

	if search := strings.TrimSpace(filter.Search); search != "" {
		// Both sides are lowercased in Go: sqlite's LOWER() only folds
		// ASCII, which would miss every SENĆOŦEN headword.
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("english_word_lower LIKE ? OR sencoten_word_lower LIKE ?", pattern, pattern)
	}

	var results []*types.DictionaryEntry
	if err := query.Order("created_at DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (dr *dictionaryRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	// Keep the searchable shadow columns in step with word changes.
	if word, ok := fields["english_word"].(string); ok {
		fields["english_word_lower"] = strings.ToLower(word)
	}
	if word, ok := fields["sencoten_word"].(string); ok {
		fields["sencoten_word_lower"] = strings.ToLower(word)
	}

	result := transaction.WithContext(ctx).
		Model(&types.DictionaryEntry{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	// Zero affected rows means the id does not exist; surface it instead of
	// reporting success.
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (dr *dictionaryRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	result := transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.DictionaryEntry{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (dr *dictionaryRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.DictionaryEntry{}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
