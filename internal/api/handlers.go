package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dreamware/snapfeed/internal/social"
)

// RegisterRequest is the body of POST /auth/register and POST /auth/login
type RegisterRequest struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
}

// CreatePostRequest is the body of POST /posts
type CreatePostRequest struct {
	ImageURL *string `json:"image_url"`
	Caption  *string `json:"caption"`
}

// CreateCommentRequest is the body of POST /posts/{id}/comments
type CreateCommentRequest struct {
	Text *string `json:"text"`
}

// LikesResponse is the body of GET /posts/{id}/likes.
// Liked is only ever true when the request carries an identity.
type LikesResponse struct {
	PostID uuid.UUID `json:"post_id"`
	Count  int       `json:"count"`
	Liked  bool      `json:"liked"`
}

// FollowingResponse is the body of GET /social/following
type FollowingResponse struct {
	Following []uuid.UUID `json:"following"`
}

// FollowersResponse is the body of GET /social/followers
type FollowersResponse struct {
	Followers []uuid.UUID `json:"followers"`
}

// FollowStatusResponse is the body of GET /social/follow/{user_id}
type FollowStatusResponse struct {
	UserID    uuid.UUID `json:"user_id"`
	Following bool      `json:"following"`
}

// Handler serves the HTTP API on top of a social.Service
type Handler struct {
	svc *social.Service
}

// NewHandler creates a handler for svc
func NewHandler(svc *social.Service) *Handler {
	return &Handler{svc: svc}
}

// decodeJSON reads a JSON body into v. The body must be valid UTF-8 and
// hold exactly one JSON value.
func decodeJSON(r *http.Request, v any) error {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("%w: request body too large", social.ErrInvalidInput)
		}
		return fmt.Errorf("%w: unreadable body", social.ErrInvalidInput)
	}
	if !utf8.Valid(raw) {
		return fmt.Errorf("%w: body is not valid UTF-8", social.ErrInvalidInput)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: invalid JSON body", social.ErrInvalidInput)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: trailing data after JSON body", social.ErrInvalidInput)
	}
	return nil
}

// missing reports a required body field that was absent
func missing(field string) error {
	return fmt.Errorf("%w: missing field %s", social.ErrInvalidInput, field)
}

// pathID parses a UUID path parameter
func pathID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid %s", social.ErrInvalidInput, name)
	}
	return id, nil
}

// actor returns the id stored by RequireUser.
// Routes using it must be mounted behind RequireUser.
func actor(r *http.Request) (uuid.UUID, error) {
	id, ok := UserID(r.Context())
	if !ok {
		return uuid.Nil, social.ErrUnauthorized
	}
	return id, nil
}

func decodeCredentials(r *http.Request) (string, string, error) {
	var req RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		return "", "", err
	}
	if req.Username == nil {
		return "", "", missing("username")
	}
	if req.Password == nil {
		return "", "", missing("password")
	}
	return *req.Username, *req.Password, nil
}

// Health answers liveness probes
// GET /health
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// Register creates an account
// POST /auth/register {"username", "password"} → {"user_id", "token"}
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	username, password, err := decodeCredentials(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	sess, err := h.svc.Register(username, password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, sess)
}

// Login checks credentials
// POST /auth/login {"username", "password"} → {"user_id", "token"}
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	username, password, err := decodeCredentials(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	sess, err := h.svc.Login(username, password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, sess)
}

// CreatePost publishes a post as the acting user
// POST /posts {"image_url", "caption"}
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	author, err := actor(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req CreatePostRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.ImageURL == nil {
		writeError(w, r, missing("image_url"))
		return
	}
	if req.Caption == nil {
		writeError(w, r, missing("caption"))
		return
	}

	writeJSON(w, r, http.StatusOK, h.svc.CreatePost(author, *req.ImageURL, *req.Caption))
}

// GetUser returns a user's public record
// GET /users/{id}
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	user, err := h.svc.GetUser(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, user)
}

// GetPost returns one post
// GET /posts/{id}
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	post, err := h.svc.GetPost(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, post)
}

// ListUserPosts returns a user's posts, newest first
// GET /posts/user/{user_id}
func (h *Handler) ListUserPosts(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "user_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, h.svc.ListUserPosts(id))
}

// LikePost likes a post as the acting user
// POST /posts/{id}/like
func (h *Handler) LikePost(w http.ResponseWriter, r *http.Request) {
	h.edgeMutation(w, r, "id", h.svc.LikePost)
}

// UnlikePost removes the acting user's like
// DELETE /posts/{id}/like
func (h *Handler) UnlikePost(w http.ResponseWriter, r *http.Request) {
	h.edgeMutation(w, r, "id", h.svc.UnlikePost)
}

// FollowUser follows a user as the acting user
// POST /social/follow/{user_id}
func (h *Handler) FollowUser(w http.ResponseWriter, r *http.Request) {
	h.edgeMutation(w, r, "user_id", h.svc.FollowUser)
}

// UnfollowUser stops following a user
// DELETE /social/follow/{user_id}
func (h *Handler) UnfollowUser(w http.ResponseWriter, r *http.Request) {
	h.edgeMutation(w, r, "user_id", h.svc.UnfollowUser)
}

// edgeMutation runs a like/follow style operation between the acting user
// and the id in the path. Success is 200 with a JSON null body.
func (h *Handler) edgeMutation(w http.ResponseWriter, r *http.Request, param string, op func(actor, target uuid.UUID) error) {
	me, err := actor(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	target, err := pathID(r, param)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := op(me, target); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, nil)
}

// LikeCount returns how many users like a post, and whether the caller
// does when an identity header is present
// GET /posts/{id}/likes
func (h *Handler) LikeCount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	viewer, _ := UserID(r.Context())
	n, liked, err := h.svc.LikeStatus(id, viewer)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, LikesResponse{PostID: id, Count: n, Liked: liked})
}

// AddComment comments on a post as the acting user
// POST /posts/{id}/comments {"text"}
func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	author, err := actor(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	postID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req CreateCommentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Text == nil {
		writeError(w, r, missing("text"))
		return
	}

	comment, err := h.svc.AddComment(postID, author, *req.Text)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, comment)
}

// ListComments returns a post's comments, oldest first.
// An unknown post yields an empty list, not 404.
// GET /posts/{id}/comments
func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, h.svc.ListComments(id))
}

// Feed returns posts of followed users, newest first
// GET /social/feed
func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) {
	me, err := actor(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, h.svc.Feed(me))
}

// Following lists the ids the acting user follows
// GET /social/following
func (h *Handler) Following(w http.ResponseWriter, r *http.Request) {
	me, err := actor(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, FollowingResponse{Following: h.svc.Following(me)})
}

// Followers lists the ids following the acting user
// GET /social/followers
func (h *Handler) Followers(w http.ResponseWriter, r *http.Request) {
	me, err := actor(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, FollowersResponse{Followers: h.svc.Followers(me)})
}

// FollowStatus reports whether the acting user follows a user
// GET /social/follow/{user_id}
func (h *Handler) FollowStatus(w http.ResponseWriter, r *http.Request) {
	me, err := actor(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	target, err := pathID(r, "user_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, FollowStatusResponse{UserID: target, Following: h.svc.IsFollowing(me, target)})
}

// Stats returns operation counters and collection sizes
// GET /stats
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.svc.GetStats())
}
