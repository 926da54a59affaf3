package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wsanec-lang/sencoten-backend/internal/platform/logger"
	"github.com/wsanec-lang/sencoten-backend/internal/platform/requestdata"
	"github.com/wsanec-lang/sencoten-backend/internal/repos"
	"github.com/wsanec-lang/sencoten-backend/internal/sse"
	"github.com/wsanec-lang/sencoten-backend/internal/storage"
	"github.com/wsanec-lang/sencoten-backend/internal/types"
)

type CreateEntryInput struct {
	EnglishWord      string
	EnglishPhonetic  string
	SencotenWord     string
	SencotenPhonetic string
	ImageURL         string
	// CreatedByName overrides the actor's display name; seeding uses it to
	// keep the contributor labels of the sample set.
	CreatedByName string
}

// EntryPatch updates only the fields that are non-nil. updated_at and the
// updating actor are always stamped.
type EntryPatch struct {
	EnglishWord      *string
	EnglishPhonetic  *string
	SencotenWord     *string
	SencotenPhonetic *string
	ImageURL         *string
}

type DictionaryService interface {
	ListAll(ctx context.Context) ([]*types.DictionaryEntry, error)
	ListAdmin(ctx context.Context, status repos.EntryStatus, search string) ([]*types.DictionaryEntry, error)
	ListPublic(ctx context.Context, search string) ([]*types.DictionaryEntry, error)
	Get(ctx context.Context, id uuid.UUID) (*types.DictionaryEntry, error)
	Create(ctx context.Context, input CreateEntryInput) (*types.DictionaryEntry, error)
	Update(ctx context.Context, id uuid.UUID, patch EntryPatch) error
	Delete(ctx context.Context, id uuid.UUID) error
	SetVerified(ctx context.Context, id uuid.UUID, verified bool) error
	SetVisible(ctx context.Context, id uuid.UUID, visible bool) error
	Seed(ctx context.Context) (int, error)
	SaveImage(ctx context.Context, id uuid.UUID, filename string, r io.Reader) (string, error)
}

type dictionaryService struct {
	db       *gorm.DB
	log      *logger.Logger
	repo     repos.DictionaryRepo
	images   storage.ImageStore
	notifier ChangeNotifier
}

func NewDictionaryService(
	db *gorm.DB,
	log *logger.Logger,
	repo repos.DictionaryRepo,
	images storage.ImageStore,
	notifier ChangeNotifier,
) DictionaryService {
	serviceLog := log.With("service", "DictionaryService")
	return &dictionaryService{
		db:       db,
		log:      serviceLog,
		repo:     repo,
		images:   images,
		notifier: notifier,
	}
}

func (ds *dictionaryService) ListAll(ctx context.Context) ([]*types.DictionaryEntry, error) {
	return ds.repo.List(ctx, nil, repos.EntryFilter{})
}

func (ds *dictionaryService) ListAdmin(ctx context.Context, status repos.EntryStatus, search string) ([]*types.DictionaryEntry, error) {
	return ds.repo.List(ctx, nil, repos.EntryFilter{Status: status, Search: search})
}

func (ds *dictionaryService) ListPublic(ctx context.Context, search string) ([]*types.DictionaryEntry, error) {
	return ds.repo.List(ctx, nil, repos.EntryFilter{PublicOnly: true, Search: search})
}

func (ds *dictionaryService) Get(ctx context.Context, id uuid.UUID) (*types.DictionaryEntry, error) {
	entry, err := ds.repo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("get entry: %w", err)
	}
	return entry, nil
}

func (ds *dictionaryService) Create(ctx context.Context, input CreateEntryInput) (*types.DictionaryEntry, error) {
	now := time.Now().UTC()
	entry := &types.DictionaryEntry{
		ID:               uuid.New(),
		EnglishWord:      strings.TrimSpace(input.EnglishWord),
		EnglishPhonetic:  strings.TrimSpace(input.EnglishPhonetic),
		SencotenWord:     strings.TrimSpace(input.SencotenWord),
		SencotenPhonetic: strings.TrimSpace(input.SencotenPhonetic),
		ImageURL:         strings.TrimSpace(input.ImageURL),
		// New words always start unverified and hidden, no matter what the
		// caller claims.
		Verified:  false,
		Visible:   false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if actor := requestdata.GetActor(ctx); actor != nil {
		id := actor.UserID
		entry.CreatedBy = &id
		entry.CreatedByName = actor.DisplayName
	}
	if input.CreatedByName != "" {
		entry.CreatedByName = input.CreatedByName
	}

	if _, err := ds.repo.Create(ctx, nil, []*types.DictionaryEntry{entry}); err != nil {
		return nil, fmt.Errorf("create entry: %w", err)
	}

	ds.log.Info("Dictionary entry created", "entryID", entry.ID, "english_word", entry.EnglishWord)
	ds.notifier.EntryChanged(ctx, sse.EventEntryCreated, entry.ID)
	return entry, nil
}

func (ds *dictionaryService) Update(ctx context.Context, id uuid.UUID, patch EntryPatch) error {
	fields := map[string]interface{}{}
	if patch.EnglishWord != nil {
		fields["english_word"] = strings.TrimSpace(*patch.EnglishWord)
	}
	if patch.EnglishPhonetic != nil {
		fields["english_phonetic"] = strings.TrimSpace(*patch.EnglishPhonetic)
	}
	if patch.SencotenWord != nil {
		fields["sencoten_word"] = strings.TrimSpace(*patch.SencotenWord)
	}
	if patch.SencotenPhonetic != nil {
		fields["sencoten_phonetic"] = strings.TrimSpace(*patch.SencotenPhonetic)
	}
	if patch.ImageURL != nil {
		fields["image_url"] = strings.TrimSpace(*patch.ImageURL)
	}

	if err := ds.applyUpdate(ctx, id, fields); err != nil {
		return err
	}

	ds.notifier.EntryChanged(ctx, sse.EventEntryUpdated, id)
	return nil
}

func (ds *dictionaryService) Delete(ctx context.Context, id uuid.UUID) error {
	// Fetch and delete in one transaction so the image URL read here cannot
	// belong to a row someone else already replaced or removed.
	var entry *types.DictionaryEntry
	err := ds.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := ds.repo.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}
		entry = found
		return ds.repo.Delete(ctx, tx, id)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEntryNotFound
		}
		return fmt.Errorf("delete entry: %w", err)
	}

	// Image cleanup is best effort: a failure is logged and never fails the
	// delete. External URLs are left alone.
	if entry.ImageURL != "" && ds.images != nil && ds.images.Owns(entry.ImageURL) {
		if err := ds.images.Delete(ctx, entry.ImageURL); err != nil {
			ds.log.Error("Failed to delete entry image", "entryID", id, "url", entry.ImageURL, "error", err)
		}
	}

	ds.log.Info("Dictionary entry deleted", "entryID", id)
	ds.notifier.EntryChanged(ctx, sse.EventEntryDeleted, id)
	return nil
}

func (ds *dictionaryService) SetVerified(ctx context.Context, id uuid.UUID, verified bool) error {
	if err := ds.applyUpdate(ctx, id, map[string]interface{}{"verified": verified}); err != nil {
		return err
	}
	ds.notifier.EntryChanged(ctx, sse.EventEntryUpdated, id)
	return nil
}

func (ds *dictionaryService) SetVisible(ctx context.Context, id uuid.UUID, visible bool) error {
	if err := ds.applyUpdate(ctx, id, map[string]interface{}{"visible": visible}); err != nil {
		return err
	}
	ds.notifier.EntryChanged(ctx, sse.EventEntryUpdated, id)
	return nil
}

func (ds *dictionaryService) SaveImage(ctx context.Context, id uuid.UUID, filename string, r io.Reader) (string, error) {
	if ds.images == nil {
		return "", fmt.Errorf("image storage not configured")
	}

	entry, err := ds.Get(ctx, id)
	if err != nil {
		return "", err
	}

	name := entry.ID.String() + strings.ToLower(filepath.Ext(filename))
	url, err := ds.images.Save(ctx, name, r)
	if err != nil {
		return "", fmt.Errorf("store entry image: %w", err)
	}

	// Replace a previously uploaded image if we own it.
	if entry.ImageURL != "" && entry.ImageURL != url && ds.images.Owns(entry.ImageURL) {
		if err := ds.images.Delete(ctx, entry.ImageURL); err != nil {
			ds.log.Error("Failed to delete replaced image", "entryID", id, "url", entry.ImageURL, "error", err)
		}
	}

	if err := ds.applyUpdate(ctx, id, map[string]interface{}{"image_url": url}); err != nil {
		return "", err
	}
	ds.notifier.EntryChanged(ctx, sse.EventEntryUpdated, id)
	return url, nil
}

// applyUpdate stamps updated_at and the acting user, then patches the row.
func (ds *dictionaryService) applyUpdate(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now().UTC()
	if actor := requestdata.GetActor(ctx); actor != nil {
		uid := actor.UserID
		fields["updated_by"] = &uid
		fields["updated_by_name"] = actor.DisplayName
	}

	if err := ds.repo.UpdateFields(ctx, nil, id, fields); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEntryNotFound
		}
		return fmt.Errorf("update entry: %w", err)
	}
	return nil
}
