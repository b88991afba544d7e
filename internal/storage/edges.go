package storage

import (
	"sync"

	"github.com/google/uuid"
	"golang.org/x/exp/slices"
)

// Like is a (user, post) edge
type Like struct {
	UserID uuid.UUID `json:"user_id"`
	PostID uuid.UUID `json:"post_id"`
}

// Follow is an ordered (follower, following) edge
type Follow struct {
	FollowerID  uuid.UUID `json:"follower_id"`
	FollowingID uuid.UUID `json:"following_id"`
}

// EdgeStore holds like and follow edges.
//
// Edges live in plain slices that every operation scans linearly. That is
// fine for a small single-process deployment but is O(n) in the number of
// edges; an index keyed by user would be needed at scale.
type EdgeStore struct {
	likesMu sync.RWMutex
	likes   []Like

	followsMu sync.RWMutex
	follows   []Follow
}

// NewEdgeStore creates an empty relationship store
func NewEdgeStore() *EdgeStore {
	return &EdgeStore{}
}

// Like records that userID likes postID
// No-op if the edge already exists (idempotent)
func (s *EdgeStore) Like(userID, postID uuid.UUID) {
	edge := Like{UserID: userID, PostID: postID}

	s.likesMu.Lock()
	defer s.likesMu.Unlock()

	if !slices.Contains(s.likes, edge) {
		s.likes = append(s.likes, edge)
	}
}

// Unlike removes the like edge
// No error if the edge doesn't exist (idempotent)
func (s *EdgeStore) Unlike(userID, postID uuid.UUID) {
	edge := Like{UserID: userID, PostID: postID}

	s.likesMu.Lock()
	defer s.likesMu.Unlock()

	s.likes = slices.DeleteFunc(s.likes, func(l Like) bool { return l == edge })
}

// HasLiked reports whether userID currently likes postID
func (s *EdgeStore) HasLiked(userID, postID uuid.UUID) bool {
	s.likesMu.RLock()
	defer s.likesMu.RUnlock()
	return slices.Contains(s.likes, Like{UserID: userID, PostID: postID})
}

// LikeCount returns the number of users liking postID
func (s *EdgeStore) LikeCount(postID uuid.UUID) int {
	s.likesMu.RLock()
	defer s.likesMu.RUnlock()

	n := 0
	for _, l := range s.likes {
		if l.PostID == postID {
			n++
		}
	}
	return n
}

// Follow records that followerID follows followingID.
// Returns ErrSelfFollow if both ids are equal; otherwise idempotent.
func (s *EdgeStore) Follow(followerID, followingID uuid.UUID) error {
	if followerID == followingID {
		return ErrSelfFollow
	}
	edge := Follow{FollowerID: followerID, FollowingID: followingID}

	s.followsMu.Lock()
	defer s.followsMu.Unlock()

	if !slices.Contains(s.follows, edge) {
		s.follows = append(s.follows, edge)
	}
	return nil
}

// Unfollow removes the follow edge
// No error if the edge doesn't exist (idempotent)
func (s *EdgeStore) Unfollow(followerID, followingID uuid.UUID) {
	edge := Follow{FollowerID: followerID, FollowingID: followingID}

	s.followsMu.Lock()
	defer s.followsMu.Unlock()

	s.follows = slices.DeleteFunc(s.follows, func(f Follow) bool { return f == edge })
}

// IsFollowing reports whether followerID currently follows followingID
func (s *EdgeStore) IsFollowing(followerID, followingID uuid.UUID) bool {
	s.followsMu.RLock()
	defer s.followsMu.RUnlock()
	return slices.Contains(s.follows, Follow{FollowerID: followerID, FollowingID: followingID})
}

// FollowingIDs returns the set of users followerID follows
func (s *EdgeStore) FollowingIDs(followerID uuid.UUID) map[uuid.UUID]struct{} {
	s.followsMu.RLock()
	defer s.followsMu.RUnlock()

	ids := make(map[uuid.UUID]struct{})
	for _, f := range s.follows {
		if f.FollowerID == followerID {
			ids[f.FollowingID] = struct{}{}
		}
	}
	return ids
}

// FollowerIDs returns the set of users following followingID
func (s *EdgeStore) FollowerIDs(followingID uuid.UUID) map[uuid.UUID]struct{} {
	s.followsMu.RLock()
	defer s.followsMu.RUnlock()

	ids := make(map[uuid.UUID]struct{})
	for _, f := range s.follows {
		if f.FollowingID == followingID {
			ids[f.FollowerID] = struct{}{}
		}
	}
	return ids
}

// EdgeStats contains edge counts for both collections
type EdgeStats struct {
	Likes   int // Number of like edges
	Follows int // Number of follow edges
}

// Stats returns edge counts, each read under its own lock
func (s *EdgeStore) Stats() EdgeStats {
	s.likesMu.RLock()
	likes := len(s.likes)
	s.likesMu.RUnlock()

	s.followsMu.RLock()
	follows := len(s.follows)
	s.followsMu.RUnlock()

	return EdgeStats{Likes: likes, Follows: follows}
}
