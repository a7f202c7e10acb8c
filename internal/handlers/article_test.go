package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/jopotts/canable"
	"github.com/jopotts/canable/internal/auth"
	"github.com/jopotts/canable/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Unique in-memory database per test to avoid cross-test collisions.
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.User{}, &models.Article{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func newTestGate() *canable.Gate[*models.User] {
	gate := canable.New[*models.User]()
	gate.SetDefault(false)
	gate.Registry().Register("index", "indexable")
	return gate
}

func seedUser(t *testing.T, conn *gorm.DB, email string, admin bool) *models.User {
	t.Helper()
	u := models.User{Email: email, Admin: admin}
	if err := u.SetPassword("secret"); err != nil {
		t.Fatalf("password: %v", err)
	}
	if err := conn.Create(&u).Error; err != nil {
		t.Fatalf("user %s: %v", email, err)
	}
	return &u
}

func seedArticle(t *testing.T, conn *gorm.DB, owner *models.User, title string, draft bool) *models.Article {
	t.Helper()
	a := models.Article{Title: title, Body: "body", Draft: draft, UserID: owner.ID}
	if err := conn.Create(&a).Error; err != nil {
		t.Fatalf("article %s: %v", title, err)
	}
	return &a
}

func asUser(r *http.Request, u *models.User) *http.Request {
	if u == nil {
		return r
	}
	return r.WithContext(auth.WithUser(r.Context(), u))
}

func itemRequest(method string, id uint, body string, u *models.User) *http.Request {
	var r *http.Request
	path := "/articles/" + strconv.FormatUint(uint64(id), 10)
	if body == "" {
		r = httptest.NewRequest(method, path, nil)
	} else {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	}
	r.SetPathValue("id", strconv.FormatUint(uint64(id), 10))
	return asUser(r, u)
}

func TestArticleGet_DraftVisibility(t *testing.T) {
	conn := setupTestDB(t)
	h := NewArticleHandler(conn, newTestGate())
	owner := seedUser(t, conn, "owner@test", false)
	stranger := seedUser(t, conn, "stranger@test", false)
	draft := seedArticle(t, conn, owner, "wip", true)
	published := seedArticle(t, conn, owner, "done", false)

	// Anonymous read of a published article.
	w := httptest.NewRecorder()
	h.Get(w, itemRequest(http.MethodGet, published.ID, "", nil))
	if w.Code != http.StatusOK {
		t.Errorf("anonymous published: got %d, want 200", w.Code)
	}

	// Drafts are invisible to strangers but visible to the author.
	w = httptest.NewRecorder()
	h.Get(w, itemRequest(http.MethodGet, draft.ID, "", stranger))
	if w.Code != http.StatusForbidden {
		t.Errorf("stranger draft: got %d, want 403", w.Code)
	}
	w = httptest.NewRecorder()
	h.Get(w, itemRequest(http.MethodGet, draft.ID, "", owner))
	if w.Code != http.StatusOK {
		t.Errorf("owner draft: got %d, want 200", w.Code)
	}
}

func TestArticleUpdate_Ownership(t *testing.T) {
	conn := setupTestDB(t)
	h := NewArticleHandler(conn, newTestGate())
	owner := seedUser(t, conn, "owner@test", false)
	stranger := seedUser(t, conn, "stranger@test", false)
	admin := seedUser(t, conn, "admin@test", true)
	article := seedArticle(t, conn, owner, "original", false)

	body := `{"title":"edited","body":"new"}`

	w := httptest.NewRecorder()
	h.Update(w, itemRequest(http.MethodPut, article.ID, body, stranger))
	if w.Code != http.StatusForbidden {
		t.Errorf("stranger: got %d, want 403", w.Code)
	}

	w = httptest.NewRecorder()
	h.Update(w, itemRequest(http.MethodPut, article.ID, body, owner))
	if w.Code != http.StatusOK {
		t.Fatalf("owner: got %d, want 200 (%s)", w.Code, w.Body.String())
	}
	var updated models.Article
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if updated.Title != "edited" {
		t.Errorf("title = %q, want %q", updated.Title, "edited")
	}

	// Admins bypass ownership.
	w = httptest.NewRecorder()
	h.Update(w, itemRequest(http.MethodPut, article.ID, `{"title":"admin edit"}`, admin))
	if w.Code != http.StatusOK {
		t.Errorf("admin: got %d, want 200", w.Code)
	}
}

func TestArticleDelete(t *testing.T) {
	conn := setupTestDB(t)
	h := NewArticleHandler(conn, newTestGate())
	owner := seedUser(t, conn, "owner@test", false)
	stranger := seedUser(t, conn, "stranger@test", false)
	article := seedArticle(t, conn, owner, "doomed", false)

	w := httptest.NewRecorder()
	h.Delete(w, itemRequest(http.MethodDelete, article.ID, "", stranger))
	if w.Code != http.StatusForbidden {
		t.Errorf("stranger: got %d, want 403", w.Code)
	}

	w = httptest.NewRecorder()
	h.Delete(w, itemRequest(http.MethodDelete, article.ID, "", owner))
	if w.Code != http.StatusNoContent {
		t.Errorf("owner: got %d, want 204", w.Code)
	}
	var count int64
	conn.Model(&models.Article{}).Where("id = ?", article.ID).Count(&count)
	if count != 0 {
		t.Error("article still present after delete")
	}
}

func TestArticleCreate(t *testing.T) {
	conn := setupTestDB(t)
	h := NewArticleHandler(conn, newTestGate())
	author := seedUser(t, conn, "author@test", false)

	req := httptest.NewRequest(http.MethodPost, "/articles", strings.NewReader(`{"title":"hello","body":"world","draft":true}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.Create(w, asUser(req, author))
	if w.Code != http.StatusCreated {
		t.Fatalf("got %d, want 201 (%s)", w.Code, w.Body.String())
	}
	var created models.Article
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.UserID != author.ID {
		t.Errorf("UserID = %d, want author %d", created.UserID, author.ID)
	}

	// Title is required.
	req = httptest.NewRequest(http.MethodPost, "/articles", strings.NewReader(`{"body":"no title"}`))
	w = httptest.NewRecorder()
	h.Create(w, asUser(req, author))
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("missing title: got %d, want 422", w.Code)
	}
}

func TestArticleList_ScopesDrafts(t *testing.T) {
	conn := setupTestDB(t)
	h := NewArticleHandler(conn, newTestGate())
	owner := seedUser(t, conn, "owner@test", false)
	seedArticle(t, conn, owner, "public", false)
	seedArticle(t, conn, owner, "hidden", true)

	w := httptest.NewRecorder()
	h.List(w, httptest.NewRequest(http.MethodGet, "/articles", nil))
	var listed []models.Article
	if err := json.Unmarshal(w.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(listed) != 1 || listed[0].Title != "public" {
		t.Errorf("default scope: got %d articles, want only the published one", len(listed))
	}

	w = httptest.NewRecorder()
	h.List(w, httptest.NewRequest(http.MethodGet, "/articles?scope=all", nil))
	listed = nil
	if err := json.Unmarshal(w.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(listed) != 2 {
		t.Errorf("scope=all: got %d articles, want 2", len(listed))
	}
}

func TestArticleGet_NotFound(t *testing.T) {
	conn := setupTestDB(t)
	h := NewArticleHandler(conn, newTestGate())

	w := httptest.NewRecorder()
	h.Get(w, itemRequest(http.MethodGet, 999, "", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("got %d, want 404", w.Code)
	}
}
