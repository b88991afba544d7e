// Package social implements the queries and mutations of the social backend
// on top of the in-memory stores in package storage.
//
// # Operations
//
// Identity:
//   - Register, Login - return a Session with a placeholder token
//   - GetUser
//
// Content:
//   - CreatePost, GetPost, ListUserPosts (newest first)
//   - AddComment, ListComments (oldest first)
//
// Relationships:
//   - LikePost, UnlikePost, LikeCount, LikeStatus
//   - FollowUser, UnfollowUser, IsFollowing, Following, Followers
//
// Queries:
//   - Feed - posts by followed users, newest first
//   - GetStats - operation counters and collection sizes
//
// # Locking
//
// Each operation calls into one store at a time. An operation that needs
// two collections (LikePost, AddComment, FollowUser, Feed) does so in two
// phases and never holds both locks together:
//
//	LikePost:   posts.RLock → check → RUnlock
//	            likes.Lock  → add   → Unlock
//
// Without deletion support the gap between phases is harmless. If deletion
// is ever added, a like or comment may land on a post removed in between.
//
// # Errors
//
// Failures are plain errors wrapping the sentinels in package storage or
// this package. KindOf maps any error to a Kind (NotFound, Conflict,
// BadRequest, Unauthorized, Internal) for adapters to translate.
package social
