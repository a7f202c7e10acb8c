package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/jopotts/canable"
	"github.com/jopotts/canable/internal/auth"
	"github.com/jopotts/canable/internal/httpx"
	"github.com/jopotts/canable/internal/models"
	"gorm.io/gorm"
)

type ArticleHandler struct {
	DB   *gorm.DB
	Gate *canable.Gate[*models.User]
}

func NewArticleHandler(conn *gorm.DB, gate *canable.Gate[*models.User]) *ArticleHandler {
	return &ArticleHandler{DB: conn, Gate: gate}
}

// List serves the article collection. The index permission itself is enforced
// by route middleware; this handler only scopes the query to what the gate
// already allowed (scope=all includes drafts, admin-only).
func (h *ArticleHandler) List(w http.ResponseWriter, r *http.Request) {
	q := h.DB.Order("id desc")
	if r.URL.Query().Get("scope") != "all" {
		q = q.Where("draft = ?", false)
	}
	var articles []models.Article
	if err := q.Limit(100).Find(&articles).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, articles)
}

type articleInput struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Draft bool   `json:"draft"`
}

// Create inserts a new article owned by the signed-in user. The create
// permission is enforced by route middleware against the class target.
func (h *ArticleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in articleInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if in.Title == "" {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "validation", map[string]string{"title": "required"})
		return
	}
	actor := auth.UserFrom(r.Context())
	if actor == nil {
		// Route middleware already enforces creatable; this guards direct wiring.
		httpx.Forbidden(w, string(canable.ActionCreate))
		return
	}
	article := models.Article{Title: in.Title, Body: in.Body, Draft: in.Draft, UserID: actor.ID}
	if err := h.DB.Create(&article).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, article)
}

// Get serves one article; drafts are gated per record.
func (h *ArticleHandler) Get(w http.ResponseWriter, r *http.Request) {
	article, ok := h.load(w, r)
	if !ok {
		return
	}
	if !h.authorize(w, r, canable.ActionView, article) {
		return
	}
	httpx.JSON(w, http.StatusOK, article)
}

// Update applies changes to an article the actor may edit.
func (h *ArticleHandler) Update(w http.ResponseWriter, r *http.Request) {
	article, ok := h.load(w, r)
	if !ok {
		return
	}
	if !h.authorize(w, r, canable.ActionUpdate, article) {
		return
	}
	var in articleInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if in.Title != "" {
		article.Title = in.Title
	}
	article.Body = in.Body
	article.Draft = in.Draft
	if err := h.DB.Save(article).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, article)
}

// Delete removes an article the actor may destroy.
func (h *ArticleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	article, ok := h.load(w, r)
	if !ok {
		return
	}
	if !h.authorize(w, r, canable.ActionDestroy, article) {
		return
	}
	if err := h.DB.Delete(article).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		return
	}
	httpx.NoContent(w)
}

func (h *ArticleHandler) load(w http.ResponseWriter, r *http.Request) (*models.Article, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return nil, false
	}
	var article models.Article
	if err := h.DB.First(&article, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		} else {
			httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		}
		return nil, false
	}
	return &article, true
}

// authorize runs the gate for a per-record action and writes the denial
// response itself; reports whether the handler may proceed.
func (h *ArticleHandler) authorize(w http.ResponseWriter, r *http.Request, action canable.Action, article *models.Article) bool {
	err := h.Gate.Authorize(r.Context(), auth.UserFrom(r.Context()), action, article, nil)
	switch {
	case err == nil:
		return true
	case errors.Is(err, canable.ErrUnknownAction):
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return false
	default:
		httpx.Forbidden(w, string(action))
		return false
	}
}
