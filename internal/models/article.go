package models

import (
	"context"

	"github.com/jopotts/canable"
	"gorm.io/gorm"
)

type Article struct {
	gorm.Model
	Title  string `gorm:"size:255" json:"title"`
	Body   string `json:"body"`
	Draft  bool   `json:"draft"`
	UserID uint   `json:"user_id"`
}

// ViewableBy allows anyone to read a published article; drafts are visible
// only to their author and admins.
func (a *Article) ViewableBy(_ context.Context, actor *User, _ canable.Env) bool {
	if !a.Draft {
		return true
	}
	return a.ownedBy(actor)
}

func (a *Article) UpdatableBy(_ context.Context, actor *User, _ canable.Env) bool {
	return a.ownedBy(actor)
}

func (a *Article) DestroyableBy(_ context.Context, actor *User, _ canable.Env) bool {
	return a.ownedBy(actor)
}

func (a *Article) ownedBy(actor *User) bool {
	if actor == nil {
		return false
	}
	return actor.Admin || actor.ID == a.UserID
}

// ArticleCatalog is the class-level policy descriptor for articles: it
// answers the predicates that apply to the type as a whole rather than to one
// record. Pass Articles as the target when no instance exists yet.
type ArticleCatalog struct{}

// Articles is the class target handlers authorize list/create against.
var Articles = canable.Class(ArticleCatalog{})

// AbleBy covers the type-level predicates. Creating requires a signed-in
// user. Listing is public for the published scope; env["scope"] == "all"
// (drafts included) is admin-only.
func (ArticleCatalog) AbleBy(_ context.Context, actor *User, predicate canable.Predicate, env canable.Env) (bool, bool) {
	switch predicate {
	case canable.PredicateCreatable:
		return actor != nil, true
	case "indexable":
		if env["scope"] == "all" {
			return actor != nil && actor.Admin, true
		}
		return true, true
	}
	return false, false
}

// DefaultPolicy denies any predicate AbleBy does not cover; type-level access
// is granted explicitly or not at all.
func (ArticleCatalog) DefaultPolicy(canable.Predicate) bool { return false }
