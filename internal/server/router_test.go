package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/wsanec-lang/sencoten-backend/internal/handlers"
	"github.com/wsanec-lang/sencoten-backend/internal/middleware"
	"github.com/wsanec-lang/sencoten-backend/internal/platform/logger"
	"github.com/wsanec-lang/sencoten-backend/internal/repos"
	"github.com/wsanec-lang/sencoten-backend/internal/services"
	"github.com/wsanec-lang/sencoten-backend/internal/sse"
	"github.com/wsanec-lang/sencoten-backend/internal/storage"
	"github.com/wsanec-lang/sencoten-backend/internal/types"
)

type testServer struct {
	router *gin.Engine
	token  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	t.Cleanup(log.Sync)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := gdb.AutoMigrate(&types.User{}, &types.UserToken{}, &types.DictionaryEntry{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	imageDir := t.TempDir()
	images, err := storage.NewLocalImageStore(log, imageDir, "http://localhost:8080/static/dictionary")
	if err != nil {
		t.Fatalf("local image store: %v", err)
	}

	hub := sse.NewHub(log)
	notifier := services.NewChangeNotifier(log, hub, nil)

	dictionaryRepo := repos.NewDictionaryRepo(gdb, log)
	userRepo := repos.NewUserRepo(gdb, log)
	userTokenRepo := repos.NewUserTokenRepo(gdb, log)

	dictionary := services.NewDictionaryService(gdb, log, dictionaryRepo, images, notifier)
	auth := services.NewAuthService(gdb, log, userRepo, userTokenRepo,
		"test-secret", time.Minute, time.Hour)

	if err := auth.EnsureBootstrapUser(context.Background(), "teacher", "teacher123", "Teacher"); err != nil {
		t.Fatalf("bootstrap user: %v", err)
	}
	login, err := auth.Login(context.Background(), "teacher", "teacher123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	router := NewRouter(RouterConfig{
		Log:               log,
		AuthHandler:       handlers.NewAuthHandler(auth),
		AuthMiddleware:    middleware.NewAuthMiddleware(log, auth),
		DictionaryHandler: handlers.NewDictionaryHandler(log, dictionary, nil),
		SSEHandler:        handlers.NewSSEHandler(log, hub),
		StaticImageDir:    imageDir,
	})
	return &testServer{router: router, token: login.AccessToken}
}

func (ts *testServer) do(t *testing.T, method, path string, body any, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+ts.token)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func (ts *testServer) createEntry(t *testing.T, english, sencoten string) uuid.UUID {
	t.Helper()
	w := ts.do(t, http.MethodPost, "/api/dictionary", gin.H{
		"english_word":  english,
		"sencoten_word": sencoten,
	}, true)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status: got=%d body=%s", w.Code, w.Body.String())
	}
	resp := decodeBody[struct {
		Message      string    `json:"message"`
		DictionaryID uuid.UUID `json:"dictionaryId"`
	}](t, w)
	if resp.Message != "Dictionary created successfully!" {
		t.Fatalf("create message: got=%q", resp.Message)
	}
	return resp.DictionaryID
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(t, http.MethodGet, "/healthcheck", nil, false)
	if w.Code != http.StatusOK || w.Body.String() != "ok" {
		t.Fatalf("healthcheck: status=%d body=%q", w.Code, w.Body.String())
	}
}

func TestLoginFlow(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/login", gin.H{"username": "teacher", "password": "wrong"}, false)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad login status: got=%d", w.Code)
	}

	w = ts.do(t, http.MethodPost, "/api/login", gin.H{"username": "teacher", "password": "teacher123"}, false)
	if w.Code != http.StatusOK {
		t.Fatalf("login status: got=%d body=%s", w.Code, w.Body.String())
	}
	resp := decodeBody[struct {
		Token        string `json:"token"`
		RefreshToken string `json:"refresh_token"`
		Role         string `json:"role"`
	}](t, w)
	if resp.Token == "" || resp.RefreshToken == "" {
		t.Fatal("login must return both tokens")
	}
	if resp.Role != types.RoleTeacher {
		t.Fatalf("role: got=%q", resp.Role)
	}

	// Refresh rotates the pair.
	w = ts.do(t, http.MethodPost, "/api/refresh", gin.H{"refresh_token": resp.RefreshToken}, false)
	if w.Code != http.StatusOK {
		t.Fatalf("refresh status: got=%d body=%s", w.Code, w.Body.String())
	}
}

func TestMutatingRoutesRequireAuth(t *testing.T) {
	ts := newTestServer(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/dictionary"},
		{http.MethodPost, "/api/dictionary"},
		{http.MethodPut, "/api/dictionary/" + uuid.NewString()},
		{http.MethodPut, "/api/dictionary/" + uuid.NewString() + "/verify"},
		{http.MethodPut, "/api/dictionary/" + uuid.NewString() + "/visibility"},
		{http.MethodDelete, "/api/dictionary/" + uuid.NewString()},
		{http.MethodPost, "/api/dictionary/seed"},
	} {
		w := ts.do(t, tc.method, tc.path, nil, false)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: status got=%d want=%d", tc.method, tc.path, w.Code, http.StatusUnauthorized)
		}
	}

	// The public browse surface stays open.
	w := ts.do(t, http.MethodGet, "/api/dictionary/public", nil, false)
	if w.Code != http.StatusOK {
		t.Fatalf("public list status: got=%d", w.Code)
	}
}

func TestEntryLifecycleOverHTTP(t *testing.T) {
	ts := newTestServer(t)

	id := ts.createEntry(t, "Water", "ṈO,EL")

	// Fresh entries stay out of the public view.
	w := ts.do(t, http.MethodGet, "/api/dictionary/public", nil, false)
	if body := w.Body.String(); !strings.HasPrefix(body, "[") || strings.Contains(body, "Water") {
		t.Fatalf("unreviewed entry leaked: %s", body)
	}

	w = ts.do(t, http.MethodPut, "/api/dictionary/"+id.String()+"/verify", gin.H{"verified": true}, true)
	if w.Code != http.StatusOK {
		t.Fatalf("verify status: got=%d body=%s", w.Code, w.Body.String())
	}
	if msg := decodeBody[map[string]string](t, w)["message"]; msg != "Verified status updated successfully" {
		t.Fatalf("verify message: got=%q", msg)
	}

	w = ts.do(t, http.MethodPut, "/api/dictionary/"+id.String()+"/visibility", gin.H{"visible": true}, true)
	if w.Code != http.StatusOK {
		t.Fatalf("visibility status: got=%d body=%s", w.Code, w.Body.String())
	}
	if msg := decodeBody[map[string]string](t, w)["message"]; msg != "Visibility updated successfully" {
		t.Fatalf("visibility message: got=%q", msg)
	}

	w = ts.do(t, http.MethodGet, "/api/dictionary/public?search=water", nil, false)
	entries := decodeBody[[]types.DictionaryEntry](t, w)
	if len(entries) != 1 || entries[0].ID != id {
		t.Fatalf("public search: got=%d entries", len(entries))
	}

	w = ts.do(t, http.MethodPut, "/api/dictionary/"+id.String(), gin.H{"english_phonetic": "ˈwɔːtər"}, true)
	if w.Code != http.StatusOK {
		t.Fatalf("update status: got=%d body=%s", w.Code, w.Body.String())
	}
	if msg := decodeBody[map[string]string](t, w)["message"]; msg != "Dictionary updated successfully!" {
		t.Fatalf("update message: got=%q", msg)
	}

	w = ts.do(t, http.MethodGet, "/api/dictionary/"+id.String(), nil, true)
	entry := decodeBody[types.DictionaryEntry](t, w)
	if entry.EnglishPhonetic != "ˈwɔːtər" || entry.SencotenWord != "ṈO,EL" {
		t.Fatalf("patched entry: %+v", entry)
	}

	w = ts.do(t, http.MethodDelete, "/api/dictionary/"+id.String(), nil, true)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete status: got=%d body=%s", w.Code, w.Body.String())
	}

	w = ts.do(t, http.MethodGet, "/api/dictionary/"+id.String(), nil, true)
	if w.Code != http.StatusNotFound {
		t.Fatalf("get after delete: got=%d", w.Code)
	}
}

func TestCreateRequiresEnglishWord(t *testing.T) {
	ts := newTestServer(t)

	for _, body := range []gin.H{
		{"sencoten_word": "ṈO,EL"},
		{"english_word": "   ", "sencoten_word": "ṈO,EL"},
		{},
	} {
		w := ts.do(t, http.MethodPost, "/api/dictionary", body, true)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("create %v: status got=%d want=%d", body, w.Code, http.StatusBadRequest)
		}
		envelope := decodeBody[handlers.ErrorEnvelope](t, w)
		if envelope.Error.Code != "missing_word" {
			t.Fatalf("error code: got=%q", envelope.Error.Code)
		}
	}
}

func TestPublicSearchMatchesLowercaseSencoten(t *testing.T) {
	ts := newTestServer(t)

	id := ts.createEntry(t, "Sun", "SȻÁĆEL")
	for _, path := range []string{
		"/api/dictionary/" + id.String() + "/verify",
		"/api/dictionary/" + id.String() + "/visibility",
	} {
		body := gin.H{"verified": true}
		if strings.HasSuffix(path, "visibility") {
			body = gin.H{"visible": true}
		}
		if w := ts.do(t, http.MethodPut, path, body, true); w.Code != http.StatusOK {
			t.Fatalf("%s: status got=%d", path, w.Code)
		}
	}

	w := ts.do(t, http.MethodGet, "/api/dictionary/public?search="+url.QueryEscape("ȼáć"), nil, false)
	entries := decodeBody[[]types.DictionaryEntry](t, w)
	if len(entries) != 1 || entries[0].ID != id {
		t.Fatalf("lowercase sencoten search: got=%d entries, want 1", len(entries))
	}
}

func TestEntryIDValidation(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/api/dictionary/not-a-uuid", nil, true)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad id status: got=%d", w.Code)
	}
	envelope := decodeBody[handlers.ErrorEnvelope](t, w)
	if envelope.Error.Code != "invalid_id" {
		t.Fatalf("error code: got=%q", envelope.Error.Code)
	}

	w = ts.do(t, http.MethodGet, "/api/dictionary/"+uuid.NewString(), nil, true)
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing id status: got=%d", w.Code)
	}
}

func TestAdminListFilters(t *testing.T) {
	ts := newTestServer(t)

	first := ts.createEntry(t, "Sun", "SȻÁĆEL")
	ts.createEntry(t, "Moon", "ṮEṮȻEN")

	w := ts.do(t, http.MethodPut, "/api/dictionary/"+first.String()+"/verify", gin.H{"verified": true}, true)
	if w.Code != http.StatusOK {
		t.Fatalf("verify status: got=%d", w.Code)
	}

	w = ts.do(t, http.MethodGet, "/api/dictionary?status=pending", nil, true)
	pending := decodeBody[[]types.DictionaryEntry](t, w)
	if len(pending) != 1 || pending[0].EnglishWord != "Moon" {
		t.Fatalf("pending filter: got=%d entries", len(pending))
	}

	w = ts.do(t, http.MethodGet, "/api/dictionary?status=verified", nil, true)
	verified := decodeBody[[]types.DictionaryEntry](t, w)
	if len(verified) != 1 || verified[0].ID != first {
		t.Fatalf("verified filter: got=%d entries", len(verified))
	}

	w = ts.do(t, http.MethodGet, "/api/dictionary?status=bogus", nil, true)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bogus status filter: got=%d", w.Code)
	}

	w = ts.do(t, http.MethodGet, "/api/dictionary?search=moo", nil, true)
	found := decodeBody[[]types.DictionaryEntry](t, w)
	if len(found) != 1 || found[0].EnglishWord != "Moon" {
		t.Fatalf("search filter: got=%d entries", len(found))
	}
}

func TestSeedEndpoint(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/dictionary/seed", nil, true)
	if w.Code != http.StatusOK {
		t.Fatalf("seed status: got=%d body=%s", w.Code, w.Body.String())
	}
	resp := decodeBody[struct {
		Count int `json:"count"`
	}](t, w)
	if resp.Count != 6 {
		t.Fatalf("seed count: got=%d want=6", resp.Count)
	}

	w = ts.do(t, http.MethodPost, "/api/dictionary/seed", nil, true)
	resp = decodeBody[struct {
		Count int `json:"count"`
	}](t, w)
	if resp.Count != 0 {
		t.Fatalf("second seed count: got=%d want=0", resp.Count)
	}
}

func TestImageUpload(t *testing.T) {
	ts := newTestServer(t)
	id := ts.createEntry(t, "Tree", "SḴELÁLṈEṈ")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", "tree.png")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte("fake png bytes")); err != nil {
		t.Fatalf("write part: %v", err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/dictionary/"+id.String()+"/image", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+ts.token)
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("upload status: got=%d body=%s", w.Code, w.Body.String())
	}
	resp := decodeBody[struct {
		ImageURL string `json:"image_url"`
	}](t, w)
	if !strings.Contains(resp.ImageURL, id.String()) || !strings.HasSuffix(resp.ImageURL, ".png") {
		t.Fatalf("image url: got=%q", resp.ImageURL)
	}

	// The entry record picked up the URL.
	gw := ts.do(t, http.MethodGet, "/api/dictionary/"+id.String(), nil, true)
	entry := decodeBody[types.DictionaryEntry](t, gw)
	if entry.ImageURL != resp.ImageURL {
		t.Fatalf("entry image url: got=%q want=%q", entry.ImageURL, resp.ImageURL)
	}
}

func TestGenerateImageUnavailableWithoutService(t *testing.T) {
	ts := newTestServer(t)
	id := ts.createEntry(t, "Hello", "ÍY SȻÁĆEL")

	w := ts.do(t, http.MethodPost, "/api/dictionary/"+id.String()+"/image/generate", nil, true)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("generate status: got=%d body=%s", w.Code, w.Body.String())
	}
}
