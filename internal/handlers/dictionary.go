package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wsanec-lang/sencoten-backend/internal/platform/logger"
	"github.com/wsanec-lang/sencoten-backend/internal/repos"
	"github.com/wsanec-lang/sencoten-backend/internal/services"
)

type DictionaryHandler struct {
	log          *logger.Logger
	dictionary   services.DictionaryService
	placeholders services.PlaceholderService
}

func NewDictionaryHandler(
	log *logger.Logger,
	dictionary services.DictionaryService,
	placeholders services.PlaceholderService,
) *DictionaryHandler {
	handlerLog := log.With("handler", "DictionaryHandler")
	return &DictionaryHandler{log: handlerLog, dictionary: dictionary, placeholders: placeholders}
}

// List serves the authenticated admin view. ?status= narrows to
// verified/pending/visible/hidden and ?search= filters by either headword.
func (dh *DictionaryHandler) List(c *gin.Context) {
	status := repos.EntryStatus(c.Query("status"))
	switch status {
	case "", repos.EntryStatusAll, repos.EntryStatusVerified, repos.EntryStatusPending,
		repos.EntryStatusVisible, repos.EntryStatusHidden:
	default:
		RespondError(c, http.StatusBadRequest, "invalid_status", errors.New("unknown status filter"))
		return
	}
	entries, err := dh.dictionary.ListAdmin(c.Request.Context(), status, c.Query("search"))
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "list_failed", err)
		return
	}
	RespondOK(c, entries)
}

// ListPublic is the anonymous browse surface. Only entries that are both
// verified and visible ever leave this endpoint.
func (dh *DictionaryHandler) ListPublic(c *gin.Context) {
	entries, err := dh.dictionary.ListPublic(c.Request.Context(), c.Query("search"))
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "list_failed", err)
		return
	}
	RespondOK(c, entries)
}

func (dh *DictionaryHandler) Get(c *gin.Context) {
	id, ok := dh.entryID(c)
	if !ok {
		return
	}
	entry, err := dh.dictionary.Get(c.Request.Context(), id)
	if err != nil {
		dh.respondEntryError(c, err)
		return
	}
	RespondOK(c, entry)
}

type entryRequest struct {
	EnglishWord      *string `json:"english_word"`
	EnglishPhonetic  *string `json:"english_phonetic"`
	SencotenWord     *string `json:"sencoten_word"`
	SencotenPhonetic *string `json:"sencoten_phonetic"`
	ImageURL         *string `json:"image_url"`
}

func (dh *DictionaryHandler) Create(c *gin.Context) {
	var req entryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", errors.New("invalid request body"))
		return
	}
	input := services.CreateEntryInput{}
	if req.EnglishWord != nil {
		input.EnglishWord = *req.EnglishWord
	}
	if req.EnglishPhonetic != nil {
		input.EnglishPhonetic = *req.EnglishPhonetic
	}
	if req.SencotenWord != nil {
		input.SencotenWord = *req.SencotenWord
	}
	if req.SencotenPhonetic != nil {
		input.SencotenPhonetic = *req.SencotenPhonetic
	}
	if req.ImageURL != nil {
		input.ImageURL = *req.ImageURL
	}
	if strings.TrimSpace(input.EnglishWord) == "" {
		RespondError(c, http.StatusBadRequest, "missing_word", errors.New("the english word is required"))
		return
	}

	entry, err := dh.dictionary.Create(c.Request.Context(), input)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "create_failed", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":      "Dictionary created successfully!",
		"dictionaryId": entry.ID,
	})
}

func (dh *DictionaryHandler) Update(c *gin.Context) {
	id, ok := dh.entryID(c)
	if !ok {
		return
	}
	var req entryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", errors.New("invalid request body"))
		return
	}
	patch := services.EntryPatch{
		EnglishWord:      req.EnglishWord,
		EnglishPhonetic:  req.EnglishPhonetic,
		SencotenWord:     req.SencotenWord,
		SencotenPhonetic: req.SencotenPhonetic,
		ImageURL:         req.ImageURL,
	}
	if err := dh.dictionary.Update(c.Request.Context(), id, patch); err != nil {
		dh.respondEntryError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "Dictionary updated successfully!"})
}

func (dh *DictionaryHandler) SetVerified(c *gin.Context) {
	id, ok := dh.entryID(c)
	if !ok {
		return
	}
	var req struct {
		Verified *bool `json:"verified"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Verified == nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", errors.New("a verified flag is required"))
		return
	}
	if err := dh.dictionary.SetVerified(c.Request.Context(), id, *req.Verified); err != nil {
		dh.respondEntryError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "Verified status updated successfully"})
}

func (dh *DictionaryHandler) SetVisibility(c *gin.Context) {
	id, ok := dh.entryID(c)
	if !ok {
		return
	}
	var req struct {
		Visible *bool `json:"visible"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Visible == nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", errors.New("a visible flag is required"))
		return
	}
	if err := dh.dictionary.SetVisible(c.Request.Context(), id, *req.Visible); err != nil {
		dh.respondEntryError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "Visibility updated successfully"})
}

func (dh *DictionaryHandler) Delete(c *gin.Context) {
	id, ok := dh.entryID(c)
	if !ok {
		return
	}
	if err := dh.dictionary.Delete(c.Request.Context(), id); err != nil {
		dh.respondEntryError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Seed loads the sample word set into an empty dictionary.
func (dh *DictionaryHandler) Seed(c *gin.Context) {
	count, err := dh.dictionary.Seed(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "seed_failed", err)
		return
	}
	if count == 0 {
		RespondOK(c, gin.H{"message": "Data already exists", "count": 0})
		return
	}
	RespondOK(c, gin.H{"message": "Seed data inserted successfully", "count": count})
}

// UploadImage accepts a multipart form with an "image" file part.
func (dh *DictionaryHandler) UploadImage(c *gin.Context) {
	id, ok := dh.entryID(c)
	if !ok {
		return
	}
	fileHeader, err := c.FormFile("image")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "missing_image", errors.New("an image file part is required"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_image", err)
		return
	}
	defer file.Close()

	url, err := dh.dictionary.SaveImage(c.Request.Context(), id, fileHeader.Filename, file)
	if err != nil {
		dh.respondEntryError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "Image uploaded successfully", "image_url": url})
}

// GenerateImage renders a placeholder card for entries without a photo.
func (dh *DictionaryHandler) GenerateImage(c *gin.Context) {
	if dh.placeholders == nil {
		RespondError(c, http.StatusServiceUnavailable, "generation_unavailable", errors.New("image generation is not configured"))
		return
	}
	id, ok := dh.entryID(c)
	if !ok {
		return
	}
	url, err := dh.placeholders.GenerateEntryImage(c.Request.Context(), id)
	if err != nil {
		dh.respondEntryError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "Image generated successfully", "image_url": url})
}

func (dh *DictionaryHandler) entryID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", errors.New("invalid entry id"))
		return uuid.Nil, false
	}
	return id, true
}

func (dh *DictionaryHandler) respondEntryError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrEntryNotFound) {
		RespondError(c, http.StatusNotFound, "entry_not_found", errors.New("dictionary entry not found"))
		return
	}
	dh.log.Error("Dictionary request failed", "path", c.FullPath(), "error", err)
	RespondError(c, http.StatusInternalServerError, "internal_error", err)
}
