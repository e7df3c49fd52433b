package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/devfolio/internal/config"
	"github.com/devfolio/internal/db"
	"github.com/devfolio/internal/service"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// failingMailer 模拟邮件通道故障。
type failingMailer struct{}

func (failingMailer) Send(context.Context, string, string, string) error {
	return errors.New("smtp down")
}

func setupHandlerTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:handler-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	if err := service.NewPageService(gdb).EnsureDefaults(); err != nil {
		t.Fatalf("failed to seed default pages: %v", err)
	}
	return gdb
}

func newTestAPI(t *testing.T, gdb *gorm.DB) *API {
	t.Helper()
	cfg := config.AppConfig{
		AdminEmail:       "admin@example.com",
		SiteBaseURL:      "https://example.dev",
		RevalidateSecret: "test-secret",
		SettingsCacheTTL: time.Minute,
	}
	return NewAPI(gdb, cfg, failingMailer{}, zerolog.Nop())
}

func newTestRouter(api *API) *gin.Engine {
	r := gin.New()
	store := cookie.NewStore([]byte("test"))
	r.Use(sessions.Sessions("devfolio_session", store))

	r.GET("/api/pages/:slug", api.GetPage)
	r.GET("/api/projects/:slug", api.GetProject)
	r.POST("/api/contact", api.SubmitContact)
	r.POST("/api/revalidate", api.Revalidate)
	r.POST("/admin/login", api.Login)

	auth := r.Group("/admin/api")
	auth.Use(api.AuthRequired())
	auth.GET("/dashboard", api.Dashboard)

	return r
}

func TestGetPageUnknownSlugReturns404(t *testing.T) {
	api := newTestAPI(t, setupHandlerTestDB(t))
	r := newTestRouter(api)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/pages/pricing", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestGetPageReturnsAggregatedDocument(t *testing.T) {
	gdb := setupHandlerTestDB(t)
	api := newTestAPI(t, gdb)
	r := newTestRouter(api)

	if _, err := service.NewPageService(gdb).UpdateHero(db.PageSlugAbout, service.HeroInput{Title: "Hi, I'm Ada"}); err != nil {
		t.Fatalf("seed hero: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/pages/about", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var body struct {
		Page struct {
			HeroTitle string `json:"heroTitle"`
		} `json:"page"`
		Experience []json.RawMessage `json:"experience"`
		Meta       struct {
			Canonical string `json:"canonical"`
		} `json:"meta"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Page.HeroTitle != "Hi, I'm Ada" {
		t.Fatalf("hero title missing from document: %s", w.Body.String())
	}
	if body.Experience == nil {
		t.Fatal("experience must serialize as an empty array, not null")
	}
	if body.Meta.Canonical != "https://example.dev/about" {
		t.Fatalf("unexpected canonical: %q", body.Meta.Canonical)
	}
}

func TestGetProjectHidesDrafts(t *testing.T) {
	gdb := setupHandlerTestDB(t)
	api := newTestAPI(t, gdb)
	r := newTestRouter(api)

	if _, err := service.NewProjectService(gdb).Save(0, service.ProjectInput{
		Slug: "wip", Title: "WIP", Status: db.ProjectStatusDraft,
	}); err != nil {
		t.Fatalf("save draft: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/projects/wip", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("drafts must 404 on the public api, got %d: %s", w.Code, w.Body.String())
	}
}

func TestSubmitContactSucceedsDespiteMailFailure(t *testing.T) {
	gdb := setupHandlerTestDB(t)
	api := newTestAPI(t, gdb)
	r := newTestRouter(api)

	payload := []byte(`{"name":"Ada","email":"ada@example.com","subject":"Hello","message":"I have a project."}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/contact", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("mail failure must not fail the submission, got %d: %s", w.Code, w.Body.String())
	}

	var count int64
	gdb.Model(&db.Lead{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected 1 persisted lead, got %d", count)
	}
}

func TestSubmitContactReportsFieldErrors(t *testing.T) {
	api := newTestAPI(t, setupHandlerTestDB(t))
	r := newTestRouter(api)

	payload := []byte(`{"name":"Ada","email":"not-an-email","message":"Hi"}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/contact", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}

	var body struct {
		Fields map[string]string `json:"fields"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if _, ok := body.Fields["email"]; !ok {
		t.Fatalf("expected email field error, got %s", w.Body.String())
	}
}

func TestAuthRequiredRejectsAnonymous(t *testing.T) {
	api := newTestAPI(t, setupHandlerTestDB(t))
	r := newTestRouter(api)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/api/dashboard", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", w.Code, w.Body.String())
	}
}

func TestLoginFailureRecordsSecurityEvent(t *testing.T) {
	gdb := setupHandlerTestDB(t)
	api := newTestAPI(t, gdb)
	r := newTestRouter(api)

	hashed, err := bcrypt.GenerateFromPassword([]byte("right-password"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if err := gdb.Create(&db.User{Username: "admin", Password: string(hashed)}).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}

	payload := []byte(`{"username":"admin","password":"wrong-password"}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/login", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", w.Code, w.Body.String())
	}

	var count int64
	gdb.Model(&db.SecurityEvent{}).Where("kind = ?", db.SecurityEventLoginFailed).Count(&count)
	if count != 1 {
		t.Fatalf("expected 1 login_failed event, got %d", count)
	}
}

func TestRevalidateRejectsBadSecret(t *testing.T) {
	gdb := setupHandlerTestDB(t)
	api := newTestAPI(t, gdb)
	r := newTestRouter(api)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/revalidate", bytes.NewReader([]byte(`{"all":true}`)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Revalidate-Secret", "wrong")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", w.Code, w.Body.String())
	}

	var count int64
	gdb.Model(&db.SecurityEvent{}).Where("kind = ?", db.SecurityEventRevalidateDenied).Count(&count)
	if count != 1 {
		t.Fatalf("expected 1 revalidate_denied event, got %d", count)
	}
}

func TestRevalidateWithSecretInvalidatesRoute(t *testing.T) {
	gdb := setupHandlerTestDB(t)
	api := newTestAPI(t, gdb)
	r := newTestRouter(api)

	api.routes.Set("/about", []byte("cached"), time.Minute)

	payload := []byte(`{"kind":"page","slug":"about"}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/revalidate", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Revalidate-Secret", "test-secret")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if _, ok := api.routes.Get("/about"); ok {
		t.Fatal("route cache entry must be gone after revalidation")
	}
}
