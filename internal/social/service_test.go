package social

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreamware/snapfeed/internal/storage"
)

func mustRegister(t *testing.T, svc *Service, name string) uuid.UUID {
	t.Helper()
	sess, err := svc.Register(name, name+"-pw")
	require.NoError(t, err)
	return sess.UserID
}

// TestScenario walks through the register, post, follow, feed, like flow
func TestScenario(t *testing.T) {
	svc := NewService()

	alice := mustRegister(t, svc, "alice")
	bob := mustRegister(t, svc, "bob")

	_, err := svc.Register("alice", "other")
	assert.Equal(t, KindConflict, KindOf(err))

	p1 := svc.CreatePost(alice, "https://img/p1.png", "P1")

	require.NoError(t, svc.FollowUser(bob, alice))
	assert.Equal(t, []storage.Post{p1}, svc.Feed(bob))

	require.NoError(t, svc.UnfollowUser(bob, alice))
	assert.Empty(t, svc.Feed(bob))

	require.NoError(t, svc.LikePost(alice, p1.ID))
	require.NoError(t, svc.LikePost(alice, p1.ID))
	n, err := svc.LikeCount(p1.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = svc.GetPost(uuid.New())
	assert.Equal(t, KindNotFound, KindOf(err))
}

// TestServiceSessions tests register and login results
func TestServiceSessions(t *testing.T) {
	svc := NewService()

	reg, err := svc.Register("carol", "pw")
	require.NoError(t, err)
	assert.Equal(t, "fake-token-"+reg.UserID.String(), reg.Token)

	login, err := svc.Login("carol", "pw")
	require.NoError(t, err)
	assert.Equal(t, reg, login)

	_, err = svc.Login("carol", "wrong")
	assert.Equal(t, KindUnauthorized, KindOf(err))

	_, err = svc.Register("", "pw")
	assert.Equal(t, KindBadRequest, KindOf(err))
}

// TestServiceFollow tests follow validation order and idempotence
func TestServiceFollow(t *testing.T) {
	tests := []struct {
		name     string
		target   func(self, other uuid.UUID) uuid.UUID
		wantKind Kind
		wantErr  bool
	}{
		{
			name:   "follow existing user",
			target: func(_, other uuid.UUID) uuid.UUID { return other },
		},
		{
			name:     "follow self",
			target:   func(self, _ uuid.UUID) uuid.UUID { return self },
			wantErr:  true,
			wantKind: KindBadRequest,
		},
		{
			name:     "follow unknown user",
			target:   func(_, _ uuid.UUID) uuid.UUID { return uuid.New() },
			wantErr:  true,
			wantKind: KindNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService()
			self := mustRegister(t, svc, "self")
			other := mustRegister(t, svc, "other")
			target := tt.target(self, other)

			err := svc.FollowUser(self, target)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, KindOf(err))
				assert.Empty(t, svc.Following(self))
				return
			}
			require.NoError(t, err)
			require.NoError(t, svc.FollowUser(self, target))
			assert.Equal(t, []uuid.UUID{target}, svc.Following(self))
			assert.Equal(t, 1, svc.GetStats().Collections.Follows)
		})
	}
}

// TestServiceFollowRelations tests follower and following views of the
// same edges
func TestServiceFollowRelations(t *testing.T) {
	svc := NewService()
	alice := mustRegister(t, svc, "alice")
	bob := mustRegister(t, svc, "bob")
	carol := mustRegister(t, svc, "carol")

	require.NoError(t, svc.FollowUser(bob, alice))
	require.NoError(t, svc.FollowUser(carol, alice))

	assert.True(t, svc.IsFollowing(bob, alice))
	assert.False(t, svc.IsFollowing(alice, bob))
	assert.ElementsMatch(t, []uuid.UUID{bob, carol}, svc.Followers(alice))
	assert.Empty(t, svc.Followers(bob))

	require.NoError(t, svc.UnfollowUser(bob, alice))
	assert.False(t, svc.IsFollowing(bob, alice))
	assert.Equal(t, []uuid.UUID{carol}, svc.Followers(alice))
}

// TestServiceGetUser tests account lookup by id
func TestServiceGetUser(t *testing.T) {
	svc := NewService()
	alice := mustRegister(t, svc, "alice")

	u, err := svc.GetUser(alice)
	require.NoError(t, err)
	assert.Equal(t, alice, u.ID)
	assert.Equal(t, "alice", u.Username)

	_, err = svc.GetUser(uuid.New())
	assert.Equal(t, KindNotFound, KindOf(err))
}

// TestServiceSelfFollowUnregistered checks self-follow wins over not-found
func TestServiceSelfFollowUnregistered(t *testing.T) {
	svc := NewService()
	ghost := uuid.New()

	err := svc.FollowUser(ghost, ghost)
	assert.ErrorIs(t, err, storage.ErrSelfFollow)
}

// TestServiceLikes tests like validation and unlike idempotence
func TestServiceLikes(t *testing.T) {
	svc := NewService()
	alice := mustRegister(t, svc, "alice")
	post := svc.CreatePost(alice, "img", "")

	err := svc.LikePost(alice, uuid.New())
	assert.Equal(t, KindNotFound, KindOf(err))

	require.NoError(t, svc.LikePost(alice, post.ID))
	require.NoError(t, svc.UnlikePost(alice, post.ID))
	require.NoError(t, svc.UnlikePost(alice, post.ID))
	require.NoError(t, svc.UnlikePost(alice, uuid.New()))

	n, err := svc.LikeCount(post.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	_, err = svc.LikeCount(uuid.New())
	assert.Equal(t, KindNotFound, KindOf(err))
}

// TestServiceLikeStatus tests the per-viewer liked flag
func TestServiceLikeStatus(t *testing.T) {
	svc := NewService()
	alice := mustRegister(t, svc, "alice")
	bob := mustRegister(t, svc, "bob")
	post := svc.CreatePost(alice, "img", "")
	require.NoError(t, svc.LikePost(bob, post.ID))

	tests := []struct {
		name      string
		viewer    uuid.UUID
		wantLiked bool
	}{
		{"liker", bob, true},
		{"non liker", alice, false},
		{"anonymous", uuid.Nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, liked, err := svc.LikeStatus(post.ID, tt.viewer)
			require.NoError(t, err)
			assert.Equal(t, 1, n)
			assert.Equal(t, tt.wantLiked, liked)
		})
	}

	_, _, err := svc.LikeStatus(uuid.New(), bob)
	assert.Equal(t, KindNotFound, KindOf(err))
}

// TestServiceComments tests commenting through the service
func TestServiceComments(t *testing.T) {
	svc := NewService()
	alice := mustRegister(t, svc, "alice")
	bob := mustRegister(t, svc, "bob")
	post := svc.CreatePost(alice, "img", "")

	c1, err := svc.AddComment(post.ID, bob, "nice")
	require.NoError(t, err)
	c2, err := svc.AddComment(post.ID, alice, "thanks")
	require.NoError(t, err)

	comments := svc.ListComments(post.ID)
	require.Len(t, comments, 2)
	assert.Equal(t, c1.ID, comments[0].ID)
	assert.Equal(t, c2.ID, comments[1].ID)

	_, err = svc.AddComment(uuid.New(), bob, "lost")
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Equal(t, uint64(2), svc.GetStats().Ops.Comments)
}

// TestServiceFeed checks the feed equals exactly the posts of followed users
func TestServiceFeed(t *testing.T) {
	svc := NewService()
	viewer := mustRegister(t, svc, "viewer")
	authors := make([]uuid.UUID, 4)
	for i := range authors {
		authors[i] = mustRegister(t, svc, fmt.Sprintf("author-%d", i))
	}

	for round := 0; round < 3; round++ {
		for _, a := range authors {
			svc.CreatePost(a, "img", fmt.Sprintf("round %d", round))
		}
	}
	svc.CreatePost(viewer, "img", "own post")

	require.NoError(t, svc.FollowUser(viewer, authors[0]))
	require.NoError(t, svc.FollowUser(viewer, authors[2]))

	feed := svc.Feed(viewer)
	require.Len(t, feed, 6)
	for i, p := range feed {
		assert.Contains(t, []uuid.UUID{authors[0], authors[2]}, p.AuthorID)
		if i > 0 {
			assert.False(t, p.CreatedAt.After(feed[i-1].CreatedAt), "feed must be newest first")
		}
	}

	require.NoError(t, svc.UnfollowUser(viewer, authors[0]))
	for _, p := range svc.Feed(viewer) {
		assert.Equal(t, authors[2], p.AuthorID)
	}

	assert.Empty(t, svc.Feed(uuid.New()))
}

// TestServiceConcurrentOperations runs every operation concurrently and
// checks the invariants still hold afterwards
func TestServiceConcurrentOperations(t *testing.T) {
	svc := NewService()
	const users = 10

	ids := make([]uuid.UUID, users)
	for i := range ids {
		ids[i] = mustRegister(t, svc, fmt.Sprintf("user-%d", i))
	}

	var wg sync.WaitGroup
	for i := 0; i < users; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			me := ids[i]
			post := svc.CreatePost(me, "img", "")
			for j := 0; j < users; j++ {
				target := ids[j]
				err := svc.FollowUser(me, target)
				if j == i {
					assert.True(t, errors.Is(err, storage.ErrSelfFollow))
				} else {
					assert.NoError(t, err)
				}
				assert.NoError(t, svc.LikePost(target, post.ID))
				svc.Feed(me)
			}
		}(i)
	}
	wg.Wait()

	stats := svc.GetStats()
	assert.Equal(t, users, stats.Collections.Users)
	assert.Equal(t, users, stats.Collections.Posts)
	assert.Equal(t, users*(users-1), stats.Collections.Follows)
	assert.Equal(t, users*users, stats.Collections.Likes)
	for _, id := range ids {
		assert.Len(t, svc.Feed(id), users-1)
	}
}

// TestKindOf tests error classification
func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		want Kind
	}{
		{storage.ErrPostNotFound, KindNotFound},
		{storage.ErrUserNotFound, KindNotFound},
		{storage.ErrUsernameTaken, KindConflict},
		{storage.ErrSelfFollow, KindBadRequest},
		{fmt.Errorf("wrapped: %w", ErrInvalidInput), KindBadRequest},
		{storage.ErrInvalidCredentials, KindUnauthorized},
		{ErrUnauthorized, KindUnauthorized},
		{errors.New("boom"), KindInternal},
		{nil, KindInternal},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v", tt.err), func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
	assert.Equal(t, "not_found", KindNotFound.String())
	assert.Equal(t, "internal", Kind(99).String())
}
