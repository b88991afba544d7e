package storage

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slices"
)

// Post is an image post authored by a user
type Post struct {
	ID        uuid.UUID `json:"id"`
	AuthorID  uuid.UUID `json:"author_id"`
	ImageURL  string    `json:"image_url"`
	Caption   string    `json:"caption"`
	CreatedAt time.Time `json:"created_at"`
}

// Comment is a text reply attached to a post
type Comment struct {
	ID        uuid.UUID `json:"id"`
	PostID    uuid.UUID `json:"post_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// ContentStore holds posts and comments.
//
// The two collections are locked independently. Each keeps an insertion
// order slice next to its map so listings are deterministic when
// timestamps collide.
type ContentStore struct {
	postsMu   sync.RWMutex
	posts     map[uuid.UUID]Post
	postOrder []uuid.UUID

	commentsMu   sync.RWMutex
	comments     map[uuid.UUID]Comment
	commentOrder []uuid.UUID

	now func() time.Time
}

// NewContentStore creates an empty content store
func NewContentStore() *ContentStore {
	return &ContentStore{
		posts:    make(map[uuid.UUID]Post),
		comments: make(map[uuid.UUID]Comment),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// CreatePost stores a new post and returns a copy of it.
// The author id is taken as given; callers resolve the user beforehand.
func (s *ContentStore) CreatePost(authorID uuid.UUID, imageURL, caption string) Post {
	s.postsMu.Lock()
	defer s.postsMu.Unlock()

	p := Post{
		ID:        uuid.New(),
		AuthorID:  authorID,
		ImageURL:  imageURL,
		Caption:   caption,
		CreatedAt: s.now(),
	}
	s.posts[p.ID] = p
	s.postOrder = append(s.postOrder, p.ID)
	return p
}

// GetPost returns the post with the given id
// Returns ErrPostNotFound if it doesn't exist
func (s *ContentStore) GetPost(id uuid.UUID) (Post, error) {
	s.postsMu.RLock()
	defer s.postsMu.RUnlock()

	p, ok := s.posts[id]
	if !ok {
		return Post{}, ErrPostNotFound
	}
	return p, nil
}

// PostExists reports whether a post with the given id exists
func (s *ContentStore) PostExists(id uuid.UUID) bool {
	s.postsMu.RLock()
	defer s.postsMu.RUnlock()

	_, ok := s.posts[id]
	return ok
}

// ListPostsByAuthor returns every post by authorID, newest first
func (s *ContentStore) ListPostsByAuthor(authorID uuid.UUID) []Post {
	return s.collectPosts(func(p Post) bool { return p.AuthorID == authorID })
}

// PostsByAuthors returns every post whose author is in the set, newest first.
// This is the scan half of feed assembly.
func (s *ContentStore) PostsByAuthors(authors map[uuid.UUID]struct{}) []Post {
	if len(authors) == 0 {
		return []Post{}
	}
	return s.collectPosts(func(p Post) bool {
		_, ok := authors[p.AuthorID]
		return ok
	})
}

// collectPosts filters posts under a single read lock and sorts the
// result newest first. Equal timestamps keep reverse insertion order.
func (s *ContentStore) collectPosts(keep func(Post) bool) []Post {
	s.postsMu.RLock()
	result := make([]Post, 0)
	for i := len(s.postOrder) - 1; i >= 0; i-- {
		p := s.posts[s.postOrder[i]]
		if keep(p) {
			result = append(result, p)
		}
	}
	s.postsMu.RUnlock()

	slices.SortStableFunc(result, func(a, b Post) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return result
}

// CreateComment attaches a comment to an existing post.
// Returns ErrPostNotFound if the post doesn't exist.
//
// The post check and the insert run under different locks: the posts lock
// is released before the comments lock is taken. Posts are never deleted
// today, so the gap is harmless; it becomes a race window if deletion is
// ever added.
func (s *ContentStore) CreateComment(postID, authorID uuid.UUID, text string) (Comment, error) {
	if !s.PostExists(postID) {
		return Comment{}, ErrPostNotFound
	}

	s.commentsMu.Lock()
	defer s.commentsMu.Unlock()

	c := Comment{
		ID:        uuid.New(),
		PostID:    postID,
		AuthorID:  authorID,
		Text:      text,
		CreatedAt: s.now(),
	}
	s.comments[c.ID] = c
	s.commentOrder = append(s.commentOrder, c.ID)
	return c, nil
}

// ListCommentsByPost returns the comments on a post, oldest first.
// Note the order is the reverse of post listings.
func (s *ContentStore) ListCommentsByPost(postID uuid.UUID) []Comment {
	s.commentsMu.RLock()
	result := make([]Comment, 0)
	for _, id := range s.commentOrder {
		if c := s.comments[id]; c.PostID == postID {
			result = append(result, c)
		}
	}
	s.commentsMu.RUnlock()

	slices.SortStableFunc(result, func(a, b Comment) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return result
}

// PostCount returns the number of stored posts
func (s *ContentStore) PostCount() int {
	s.postsMu.RLock()
	defer s.postsMu.RUnlock()
	return len(s.posts)
}

// CommentCount returns the number of stored comments
func (s *ContentStore) CommentCount() int {
	s.commentsMu.RLock()
	defer s.commentsMu.RUnlock()
	return len(s.comments)
}
