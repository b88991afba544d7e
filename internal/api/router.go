// Package api exposes the social service over HTTP.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/dreamware/snapfeed/internal/logging"
	"github.com/dreamware/snapfeed/internal/social"
)

// MaxBodyBytes bounds every request body
const MaxBodyBytes = 2 << 20

// NewRouter builds the full route table.
//
//	GET    /health
//	POST   /auth/register
//	POST   /auth/login
//	GET    /users/{id}
//	POST   /posts                     (x-user-id)
//	GET    /posts/{id}
//	GET    /posts/user/{user_id}
//	POST   /posts/{id}/like           (x-user-id)
//	DELETE /posts/{id}/like           (x-user-id)
//	GET    /posts/{id}/likes          (optional x-user-id)
//	POST   /posts/{id}/comments       (x-user-id)
//	GET    /posts/{id}/comments
//	GET    /social/follow/{user_id}   (x-user-id)
//	POST   /social/follow/{user_id}   (x-user-id)
//	DELETE /social/follow/{user_id}   (x-user-id)
//	GET    /social/feed               (x-user-id)
//	GET    /social/following          (x-user-id)
//	GET    /social/followers          (x-user-id)
//	GET    /stats
//
// Request bodies are capped at MaxBodyBytes.
func NewRouter(svc *social.Service, logger zerolog.Logger) http.Handler {
	h := NewHandler(svc)
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(logging.Middleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestSize(MaxBodyBytes))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusNotFound, ErrorResponse{Error: "Not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusMethodNotAllowed, ErrorResponse{Error: "Method not allowed"})
	})

	r.Get("/health", h.Health)
	r.Get("/stats", h.Stats)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
	})

	r.Get("/users/{id}", h.GetUser)

	r.Route("/posts", func(r chi.Router) {
		r.Get("/{id}", h.GetPost)
		r.Get("/user/{user_id}", h.ListUserPosts)
		r.With(OptionalUser).Get("/{id}/likes", h.LikeCount)
		r.Get("/{id}/comments", h.ListComments)

		r.Group(func(r chi.Router) {
			r.Use(RequireUser)
			r.Post("/", h.CreatePost)
			r.Post("/{id}/like", h.LikePost)
			r.Delete("/{id}/like", h.UnlikePost)
			r.Post("/{id}/comments", h.AddComment)
		})
	})

	r.Route("/social", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(RequireUser)
			r.Get("/follow/{user_id}", h.FollowStatus)
			r.Post("/follow/{user_id}", h.FollowUser)
			r.Delete("/follow/{user_id}", h.UnfollowUser)
			r.Get("/feed", h.Feed)
			r.Get("/following", h.Following)
			r.Get("/followers", h.Followers)
		})
	})

	return r
}
