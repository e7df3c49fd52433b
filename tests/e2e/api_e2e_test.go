package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/devfolio/internal/config"
	"github.com/devfolio/internal/db"
	"github.com/devfolio/internal/handler"
	"github.com/devfolio/internal/router"
	"github.com/devfolio/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// recordingMailer 收集发出的通知，端到端用例里不连真实 SMTP。
type recordingMailer struct {
	sent []string
}

func (m *recordingMailer) Send(_ context.Context, to, _, _ string) error {
	m.sent = append(m.sent, to)
	return nil
}

func startTestServer(t *testing.T) (*httptest.Server, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:e2e-%d?mode=memory&cache=shared", time.Now().UnixNano())
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

	hashed, err := bcrypt.GenerateFromPassword([]byte("e2e-password"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if err := gdb.Create(&db.User{Username: "admin", Password: string(hashed)}).Error; err != nil {
		t.Fatalf("create admin user: %v", err)
	}

	cfg := config.AppConfig{
		GinMode:          gin.TestMode,
		SessionSecret:    "e2e-secret",
		UploadDir:        t.TempDir(),
		UploadURLPath:    "/static/uploads",
		SiteBaseURL:      "https://example.dev",
		AdminEmail:       "admin@example.com",
		RevalidateSecret: "e2e-revalidate",
		SettingsCacheTTL: time.Minute,
	}

	api := handler.NewAPI(gdb, cfg, &recordingMailer{}, zerolog.Nop())
	srv := httptest.NewServer(router.Setup(api, cfg, zerolog.Nop()))
	t.Cleanup(srv.Close)

	return srv, gdb
}

func newClientWithCookies(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &http.Client{Jar: jar}
}

func postJSON(t *testing.T, client *http.Client, url string, payload interface{}) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	resp, err := client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func putJSON(t *testing.T, client *http.Client, url string, payload interface{}) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req, err := http.NewRequest(http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		t.Fatalf("build PUT %s: %v", url, err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("PUT %s: %v", url, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dst interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestAdminEditFlowReflectsOnPublicPage(t *testing.T) {
	srv, _ := startTestServer(t)
	client := newClientWithCookies(t)

	// 未登录的后台请求被拒绝
	resp, err := client.Get(srv.URL + "/admin/api/dashboard")
	if err != nil {
		t.Fatalf("GET dashboard: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 before login, got %d", resp.StatusCode)
	}

	// 先把首页放进路由缓存
	resp, err = client.Get(srv.URL + "/api/pages/home")
	if err != nil {
		t.Fatalf("GET home: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for home, got %d", resp.StatusCode)
	}

	// 登录
	resp = postJSON(t, client, srv.URL+"/admin/login", map[string]string{
		"username": "admin",
		"password": "e2e-password",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login failed with %d", resp.StatusCode)
	}

	// 编辑首页首屏
	resp = putJSON(t, client, srv.URL+"/admin/api/pages/home/hero", map[string]string{
		"title":    "Fresh Hero Title",
		"subtitle": "Now with cache invalidation",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update hero failed with %d", resp.StatusCode)
	}

	// 编辑后的下一次公开请求必须立即看到新内容
	resp, err = client.Get(srv.URL + "/api/pages/home")
	if err != nil {
		t.Fatalf("GET home after edit: %v", err)
	}
	var homeDoc struct {
		Page struct {
			HeroTitle string `json:"heroTitle"`
		} `json:"page"`
	}
	decodeBody(t, resp, &homeDoc)
	if homeDoc.Page.HeroTitle != "Fresh Hero Title" {
		t.Fatalf("stale home document after edit: %q", homeDoc.Page.HeroTitle)
	}
}

func TestContactSubmissionCreatesLead(t *testing.T) {
	srv, gdb := startTestServer(t)
	client := newClientWithCookies(t)

	resp := postJSON(t, client, srv.URL+"/api/contact", map[string]string{
		"name":    "Ada",
		"email":   "ada@example.com",
		"subject": "Project inquiry",
		"message": "Let's build something.",
	})
	var body struct {
		ID uint `json:"id"`
	}
	decodeBody(t, resp, &body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("contact submission failed with %d", resp.StatusCode)
	}

	var lead db.Lead
	if err := gdb.First(&lead, body.ID).Error; err != nil {
		t.Fatalf("lead not persisted: %v", err)
	}
	if lead.Status != db.LeadStatusNew {
		t.Fatalf("expected new lead, got %q", lead.Status)
	}
}

func TestRevalidateEndpointRequiresSecret(t *testing.T) {
	srv, gdb := startTestServer(t)
	client := newClientWithCookies(t)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/revalidate", bytes.NewReader([]byte(`{"all":true}`)))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Revalidate-Secret", "nope")

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("POST revalidate: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad secret, got %d", resp.StatusCode)
	}

	var count int64
	gdb.Model(&db.SecurityEvent{}).Where("kind = ?", db.SecurityEventRevalidateDenied).Count(&count)
	if count != 1 {
		t.Fatalf("expected a recorded denial, got %d", count)
	}
}
