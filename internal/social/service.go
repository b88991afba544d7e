package social

import (
	"bytes"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/exp/slices"

	"github.com/dreamware/snapfeed/internal/storage"
)

// tokenPrefix marks issued tokens as placeholders. They carry the user id
// verbatim and must not be treated as credentials.
const tokenPrefix = "fake-token-"

// Session is the result of a successful register or login
type Session struct {
	UserID uuid.UUID `json:"user_id"`
	Token  string    `json:"token"`
}

// Service composes the stores into the operations exposed to adapters.
//
// Operations that touch more than one collection run as explicit phases,
// each phase a single scoped lock acquisition inside one store. No lock is
// ever held across phases, so there is no lock ordering to get wrong.
type Service struct {
	users   *storage.UserStore
	content *storage.ContentStore
	edges   *storage.EdgeStore
	stats   OperationStats
}

// OperationStats tracks operation counts
type OperationStats struct {
	Registers uint64 `json:"registers"` // Successful registrations
	Logins    uint64 `json:"logins"`    // Successful logins
	Posts     uint64 `json:"posts"`     // Posts created
	Comments  uint64 `json:"comments"`  // Comments created
	Likes     uint64 `json:"likes"`     // Like requests accepted
	Unlikes   uint64 `json:"unlikes"`   // Unlike requests accepted
	Follows   uint64 `json:"follows"`   // Follow requests accepted
	Unfollows uint64 `json:"unfollows"` // Unfollow requests accepted
	Feeds     uint64 `json:"feeds"`     // Feeds assembled
}

// CollectionStats contains the size of each collection
type CollectionStats struct {
	Users    int `json:"users"`
	Posts    int `json:"posts"`
	Comments int `json:"comments"`
	Likes    int `json:"likes"`
	Follows  int `json:"follows"`
}

// Stats combines operation counters with collection sizes
type Stats struct {
	Ops         OperationStats  `json:"operations"`
	Collections CollectionStats `json:"collections"`
}

// NewService creates a service over fresh, empty stores
func NewService() *Service {
	return NewServiceWithStores(storage.NewUserStore(), storage.NewContentStore(), storage.NewEdgeStore())
}

// NewServiceWithStores creates a service over the given stores
func NewServiceWithStores(users *storage.UserStore, content *storage.ContentStore, edges *storage.EdgeStore) *Service {
	return &Service{users: users, content: content, edges: edges}
}

// Register creates an account and returns its session
func (s *Service) Register(username, credential string) (Session, error) {
	if username == "" {
		return Session{}, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	id, err := s.users.Register(username, credential)
	if err != nil {
		return Session{}, err
	}
	atomic.AddUint64(&s.stats.Registers, 1)
	return newSession(id), nil
}

// Login checks credentials and returns the matching session
func (s *Service) Login(username, credential string) (Session, error) {
	id, err := s.users.Authenticate(username, credential)
	if err != nil {
		return Session{}, err
	}
	atomic.AddUint64(&s.stats.Logins, 1)
	return newSession(id), nil
}

func newSession(id uuid.UUID) Session {
	return Session{UserID: id, Token: tokenPrefix + id.String()}
}

// GetUser returns the public account record for id
func (s *Service) GetUser(id uuid.UUID) (storage.User, error) {
	return s.users.Get(id)
}

// CreatePost publishes a post for authorID.
// The author is trusted as resolved by the caller.
func (s *Service) CreatePost(authorID uuid.UUID, imageURL, caption string) storage.Post {
	p := s.content.CreatePost(authorID, imageURL, caption)
	atomic.AddUint64(&s.stats.Posts, 1)
	return p
}

// GetPost returns a single post
func (s *Service) GetPost(id uuid.UUID) (storage.Post, error) {
	return s.content.GetPost(id)
}

// ListUserPosts returns the posts written by authorID, newest first
func (s *Service) ListUserPosts(authorID uuid.UUID) []storage.Post {
	return s.content.ListPostsByAuthor(authorID)
}

// AddComment comments on an existing post
func (s *Service) AddComment(postID, authorID uuid.UUID, text string) (storage.Comment, error) {
	c, err := s.content.CreateComment(postID, authorID, text)
	if err != nil {
		return storage.Comment{}, err
	}
	atomic.AddUint64(&s.stats.Comments, 1)
	return c, nil
}

// ListComments returns the comments on postID, oldest first
func (s *Service) ListComments(postID uuid.UUID) []storage.Comment {
	return s.content.ListCommentsByPost(postID)
}

// LikePost records a like after checking the post exists.
//
// Phase 1 reads the posts collection, phase 2 writes the likes collection.
// The post could in principle vanish between them; with no deletion
// support that can't happen.
func (s *Service) LikePost(userID, postID uuid.UUID) error {
	if !s.content.PostExists(postID) {
		return storage.ErrPostNotFound
	}
	s.edges.Like(userID, postID)
	atomic.AddUint64(&s.stats.Likes, 1)
	return nil
}

// UnlikePost removes a like. Missing posts or edges are not errors.
func (s *Service) UnlikePost(userID, postID uuid.UUID) error {
	s.edges.Unlike(userID, postID)
	atomic.AddUint64(&s.stats.Unlikes, 1)
	return nil
}

// LikeCount returns how many users like postID
func (s *Service) LikeCount(postID uuid.UUID) (int, error) {
	if !s.content.PostExists(postID) {
		return 0, storage.ErrPostNotFound
	}
	return s.edges.LikeCount(postID), nil
}

// LikeStatus returns the like count of postID and whether viewerID is one
// of the likers. A nil viewer never likes anything.
func (s *Service) LikeStatus(postID, viewerID uuid.UUID) (int, bool, error) {
	n, err := s.LikeCount(postID)
	if err != nil {
		return 0, false, err
	}
	if viewerID == uuid.Nil {
		return n, false, nil
	}
	return n, s.edges.HasLiked(viewerID, postID), nil
}

// FollowUser makes followerID follow targetID.
// Self-follow is rejected before any store is touched; then the target must
// exist. The existence check and the edge write are separate phases.
func (s *Service) FollowUser(followerID, targetID uuid.UUID) error {
	if followerID == targetID {
		return storage.ErrSelfFollow
	}
	if !s.users.Exists(targetID) {
		return storage.ErrUserNotFound
	}
	if err := s.edges.Follow(followerID, targetID); err != nil {
		return err
	}
	atomic.AddUint64(&s.stats.Follows, 1)
	return nil
}

// UnfollowUser removes a follow edge. Missing edges are not errors.
func (s *Service) UnfollowUser(followerID, targetID uuid.UUID) error {
	s.edges.Unfollow(followerID, targetID)
	atomic.AddUint64(&s.stats.Unfollows, 1)
	return nil
}

// IsFollowing reports whether followerID currently follows targetID
func (s *Service) IsFollowing(followerID, targetID uuid.UUID) bool {
	return s.edges.IsFollowing(followerID, targetID)
}

// Following returns the ids viewerID follows, sorted for stable output
func (s *Service) Following(viewerID uuid.UUID) []uuid.UUID {
	return sortedIDs(s.edges.FollowingIDs(viewerID))
}

// Followers returns the ids following viewerID, sorted for stable output
func (s *Service) Followers(viewerID uuid.UUID) []uuid.UUID {
	return sortedIDs(s.edges.FollowerIDs(viewerID))
}

func sortedIDs(set map[uuid.UUID]struct{}) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b uuid.UUID) int {
		return bytes.Compare(a[:], b[:])
	})
	return ids
}

// Feed returns posts by everyone viewerID follows, newest first.
//
// The following set is read and released before the posts are scanned, so
// the feed reflects follows as of phase 1 and posts as of phase 2.
func (s *Service) Feed(viewerID uuid.UUID) []storage.Post {
	following := s.edges.FollowingIDs(viewerID)
	posts := s.content.PostsByAuthors(following)
	atomic.AddUint64(&s.stats.Feeds, 1)
	return posts
}

// GetStats returns operation counters and collection sizes.
// Each collection is sampled under its own lock; the result is not a
// single consistent snapshot across collections.
func (s *Service) GetStats() Stats {
	edges := s.edges.Stats()
	return Stats{
		Ops: OperationStats{
			Registers: atomic.LoadUint64(&s.stats.Registers),
			Logins:    atomic.LoadUint64(&s.stats.Logins),
			Posts:     atomic.LoadUint64(&s.stats.Posts),
			Comments:  atomic.LoadUint64(&s.stats.Comments),
			Likes:     atomic.LoadUint64(&s.stats.Likes),
			Unlikes:   atomic.LoadUint64(&s.stats.Unlikes),
			Follows:   atomic.LoadUint64(&s.stats.Follows),
			Unfollows: atomic.LoadUint64(&s.stats.Unfollows),
			Feeds:     atomic.LoadUint64(&s.stats.Feeds),
		},
		Collections: CollectionStats{
			Users:    s.users.Count(),
			Posts:    s.content.PostCount(),
			Comments: s.content.CommentCount(),
			Likes:    edges.Likes,
			Follows:  edges.Follows,
		},
	}
}
