// Package client is a typed HTTP client for the snapfeed API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dreamware/snapfeed/internal/api"
	"github.com/dreamware/snapfeed/internal/social"
	"github.com/dreamware/snapfeed/internal/storage"
)

// Error is a non-2xx response from the server
type Error struct {
	Status  int    // HTTP status code
	Message string // Value of the "error" field, or the raw body
}

func (e *Error) Error() string {
	return fmt.Sprintf("http %d: %s", e.Status, e.Message)
}

// StatusOf returns the HTTP status carried by err, or 0
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// Client talks to one server. The acting user is sent on every request once
// set with As.
type Client struct {
	baseURL string
	http    *http.Client
	userID  uuid.UUID
}

// New creates a client for baseURL (e.g. "http://localhost:3000")
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 5 * time.Second},
	}
}

// As returns a copy of the client acting as userID
func (c *Client) As(userID uuid.UUID) *Client {
	cp := *c
	cp.userID = userID
	return &cp
}

// do sends a request and decodes a JSON response into out (if non-nil)
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userID != uuid.Nil {
		req.Header.Set(api.UserIDHeader, c.userID.String())
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		var envelope api.ErrorResponse
		if json.Unmarshal(raw, &envelope) == nil && envelope.Error != "" {
			return &Error{Status: resp.StatusCode, Message: envelope.Error}
		}
		return &Error{Status: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Health returns the liveness string
func (c *Client) Health(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return "", err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", &Error{Status: resp.StatusCode, Message: string(raw)}
	}
	return string(raw), nil
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register creates an account
func (c *Client) Register(ctx context.Context, username, password string) (social.Session, error) {
	var sess social.Session
	err := c.do(ctx, http.MethodPost, "/auth/register", credentials{username, password}, &sess)
	return sess, err
}

// Login authenticates an existing account
func (c *Client) Login(ctx context.Context, username, password string) (social.Session, error) {
	var sess social.Session
	err := c.do(ctx, http.MethodPost, "/auth/login", credentials{username, password}, &sess)
	return sess, err
}

// GetUser fetches a user's public record
func (c *Client) GetUser(ctx context.Context, id uuid.UUID) (storage.User, error) {
	var u storage.User
	err := c.do(ctx, http.MethodGet, "/users/"+id.String(), nil, &u)
	return u, err
}

// CreatePost publishes a post as the acting user
func (c *Client) CreatePost(ctx context.Context, imageURL, caption string) (storage.Post, error) {
	var p storage.Post
	body := map[string]string{"image_url": imageURL, "caption": caption}
	err := c.do(ctx, http.MethodPost, "/posts", body, &p)
	return p, err
}

// GetPost fetches one post
func (c *Client) GetPost(ctx context.Context, id uuid.UUID) (storage.Post, error) {
	var p storage.Post
	err := c.do(ctx, http.MethodGet, "/posts/"+id.String(), nil, &p)
	return p, err
}

// ListUserPosts fetches a user's posts, newest first
func (c *Client) ListUserPosts(ctx context.Context, userID uuid.UUID) ([]storage.Post, error) {
	var posts []storage.Post
	err := c.do(ctx, http.MethodGet, "/posts/user/"+userID.String(), nil, &posts)
	return posts, err
}

// Like likes a post as the acting user
func (c *Client) Like(ctx context.Context, postID uuid.UUID) error {
	return c.do(ctx, http.MethodPost, "/posts/"+postID.String()+"/like", nil, nil)
}

// Unlike removes the acting user's like
func (c *Client) Unlike(ctx context.Context, postID uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/posts/"+postID.String()+"/like", nil, nil)
}

// Likes returns the like count of a post and whether the acting user,
// if any, is among the likers
func (c *Client) Likes(ctx context.Context, postID uuid.UUID) (api.LikesResponse, error) {
	var resp api.LikesResponse
	err := c.do(ctx, http.MethodGet, "/posts/"+postID.String()+"/likes", nil, &resp)
	return resp, err
}

// LikeCount returns how many users like a post
func (c *Client) LikeCount(ctx context.Context, postID uuid.UUID) (int, error) {
	resp, err := c.Likes(ctx, postID)
	return resp.Count, err
}

// AddComment comments on a post as the acting user
func (c *Client) AddComment(ctx context.Context, postID uuid.UUID, text string) (storage.Comment, error) {
	var cm storage.Comment
	err := c.do(ctx, http.MethodPost, "/posts/"+postID.String()+"/comments", map[string]string{"text": text}, &cm)
	return cm, err
}

// ListComments fetches a post's comments, oldest first
func (c *Client) ListComments(ctx context.Context, postID uuid.UUID) ([]storage.Comment, error) {
	var comments []storage.Comment
	err := c.do(ctx, http.MethodGet, "/posts/"+postID.String()+"/comments", nil, &comments)
	return comments, err
}

// Follow follows a user as the acting user
func (c *Client) Follow(ctx context.Context, userID uuid.UUID) error {
	return c.do(ctx, http.MethodPost, "/social/follow/"+userID.String(), nil, nil)
}

// Unfollow stops following a user
func (c *Client) Unfollow(ctx context.Context, userID uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/social/follow/"+userID.String(), nil, nil)
}

// IsFollowing reports whether the acting user follows userID
func (c *Client) IsFollowing(ctx context.Context, userID uuid.UUID) (bool, error) {
	var resp api.FollowStatusResponse
	err := c.do(ctx, http.MethodGet, "/social/follow/"+userID.String(), nil, &resp)
	return resp.Following, err
}

// Feed fetches the acting user's feed
func (c *Client) Feed(ctx context.Context) ([]storage.Post, error) {
	var posts []storage.Post
	err := c.do(ctx, http.MethodGet, "/social/feed", nil, &posts)
	return posts, err
}

// Following lists who the acting user follows
func (c *Client) Following(ctx context.Context) ([]uuid.UUID, error) {
	var resp api.FollowingResponse
	err := c.do(ctx, http.MethodGet, "/social/following", nil, &resp)
	return resp.Following, err
}

// Followers lists who follows the acting user
func (c *Client) Followers(ctx context.Context) ([]uuid.UUID, error) {
	var resp api.FollowersResponse
	err := c.do(ctx, http.MethodGet, "/social/followers", nil, &resp)
	return resp.Followers, err
}

// Stats fetches server statistics
func (c *Client) Stats(ctx context.Context) (social.Stats, error) {
	var stats social.Stats
	err := c.do(ctx, http.MethodGet, "/stats", nil, &stats)
	return stats, err
}
