package main

import (
	"net/http"

	"github.com/jopotts/canable"
	"github.com/jopotts/canable/internal/config"
	"github.com/jopotts/canable/internal/handlers"
	"github.com/jopotts/canable/internal/middleware"
	"github.com/jopotts/canable/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ActionIndex is the custom collection action; registered on top of the
// built-ins during gate construction.
const ActionIndex canable.Action = "index"

// NewGate builds the application's authorization gate. The server denies by
// default: anything a model does not explicitly grant is forbidden.
// PERMISSIVE_DEFAULT=1 flips that for local experiments.
func NewGate() *canable.Gate[*models.User] {
	gate := canable.New[*models.User]()
	gate.SetDefault(config.ParseBool("PERMISSIVE_DEFAULT", false))
	gate.Registry().Register(ActionIndex, "indexable")
	return gate
}

// NewApp assembles the router with authentication and authorization wired in.
func NewApp(conn *gorm.DB, logger *zap.Logger) http.Handler {
	gate := NewGate()
	articles := handlers.NewArticleHandler(conn, gate)
	sessions := handlers.NewAuthHandler(conn)

	catalog := func(*http.Request) any { return models.Articles }
	listEnv := func(r *http.Request) canable.Env {
		if r.URL.Query().Get("scope") == "all" {
			return canable.Env{"scope": "all"}
		}
		return nil
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /login", sessions.Login)
	mux.HandleFunc("POST /logout", sessions.Logout)

	// Collection routes authorize against the class descriptor up front;
	// item routes load the record first and authorize inside the handler.
	mux.Handle("GET /articles",
		middleware.Enforce(gate, ActionIndex, catalog, listEnv, logger)(http.HandlerFunc(articles.List)))
	mux.Handle("POST /articles",
		middleware.Enforce(gate, canable.ActionCreate, catalog, nil, logger)(http.HandlerFunc(articles.Create)))
	mux.HandleFunc("GET /articles/{id}", articles.Get)
	mux.HandleFunc("PUT /articles/{id}", articles.Update)
	mux.HandleFunc("DELETE /articles/{id}", articles.Delete)

	return middleware.Actor(conn, logger)(mux)
}
