// Package storage holds the five in-memory collections behind the social
// backend: users, posts, comments, likes and follows.
//
// # Overview
//
// Every collection is owned by exactly one store and guarded by its own
// sync.RWMutex. There is no global lock. Records never point at each other;
// relationships are expressed by id, so mutating one collection can never
// invalidate data held by another.
//
//	┌─────────────────────────────────────┐
//	│        social.Service               │
//	│   (queries and mutations)           │
//	└─────────────────────────────────────┘
//	                 │
//	    ┌────────────┼────────────┐
//	    ▼            ▼            ▼
//	┌────────┐  ┌──────────┐  ┌────────┐
//	│ Users  │  │ Content  │  │ Edges  │
//	│        │  │ posts    │  │ likes  │
//	│        │  │ comments │  │follows │
//	└────────┘  └──────────┘  └────────┘
//
// # Stores
//
// UserStore: identity
//   - Register(username, credential) - unique usernames, one critical section
//   - Authenticate(username, credential) - exact match on both fields
//   - Exists(id) - pure lookup
//
// ContentStore: posts and comments (two independent locks)
//   - CreatePost / GetPost / ListPostsByAuthor (newest first)
//   - CreateComment / ListCommentsByPost (oldest first)
//
// EdgeStore: likes and follows (two independent locks)
//   - Like / Unlike, Follow / Unfollow - idempotent
//   - FollowingIDs(follower) - used for feed assembly
//
// # Concurrency and Thread Safety
//
// Locking Strategy:
//   - Read operations use shared locks (RLock)
//   - Write operations use exclusive locks (Lock)
//   - No operation ever holds two collection locks at once
//   - No I/O happens while a lock is held
//
// Consistency Guarantees:
//   - Operations on a single collection are linearizable
//   - Operations spanning collections are not atomic. A caller that checks
//     a post exists and then writes a like does so under two separate lock
//     acquisitions. Nothing is deleted today, so the window is benign.
//
// # Scaling Limits
//
// Like and follow edges are kept in unindexed slices and scanned linearly.
// Feed assembly scans every post. Both are acceptable for a small
// single-process deployment and nothing more.
//
// # Error Handling
//
// ErrUsernameTaken: Register with an existing username
// ErrInvalidCredentials: Authenticate without an exact match
// ErrUserNotFound: Get with an unknown user id
// ErrPostNotFound: GetPost or CreateComment with an unknown post id
// ErrSelfFollow: Follow where follower and following are the same user
//
// # Usage Examples
//
//	users := storage.NewUserStore()
//	content := storage.NewContentStore()
//	edges := storage.NewEdgeStore()
//
//	alice, _ := users.Register("alice", "secret")
//	bob, _ := users.Register("bob", "hunter2")
//
//	post := content.CreatePost(alice, "https://img/1.png", "hello")
//	_ = edges.Follow(bob, alice)
//
//	feed := content.PostsByAuthors(edges.FollowingIDs(bob))
//	// feed == []Post{post}
package storage
