package repositories

import (
	"context"
	"testing"

	"github.com/anonto42/class-forum/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runStorageSuite checks the Storage contract. newStorage must return an empty store.
func runStorageSuite(t *testing.T, newStorage func(t *testing.T) Storage) {
	t.Run("IDsStrictlyIncrease", func(t *testing.T) { testIDsStrictlyIncrease(t, newStorage(t)) })
	t.Run("VerifiedUsername", func(t *testing.T) { testVerifiedUsername(t, newStorage(t)) })
	t.Run("UserLookups", func(t *testing.T) { testUserLookups(t, newStorage(t)) })
	t.Run("UpdateUser", func(t *testing.T) { testUpdateUser(t, newStorage(t)) })
	t.Run("PrivacyFiltering", func(t *testing.T) { testPrivacyFiltering(t, newStorage(t)) })
	t.Run("PostsByCategory", func(t *testing.T) { testPostsByCategory(t, newStorage(t)) })
	t.Run("SearchIsCaseInsensitive", func(t *testing.T) { testSearchIsCaseInsensitive(t, newStorage(t)) })
	t.Run("FeedComposition", func(t *testing.T) { testFeedComposition(t, newStorage(t)) })
	t.Run("FollowIdempotence", func(t *testing.T) { testFollowIdempotence(t, newStorage(t)) })
	t.Run("SelfFollow", func(t *testing.T) { testSelfFollow(t, newStorage(t)) })
	t.Run("FollowListsInEdgeOrder", func(t *testing.T) { testFollowListsInEdgeOrder(t, newStorage(t)) })
	t.Run("Ordering", func(t *testing.T) { testOrdering(t, newStorage(t)) })
	t.Run("EmptyResults", func(t *testing.T) { testEmptyResults(t, newStorage(t)) })
}

func createUser(t *testing.T, s Storage, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Password: "hash", DisplayName: username}
	require.NoError(t, s.CreateUser(context.Background(), user))
	return user
}

func createPost(t *testing.T, s Storage, authorID uint, title, category, privacy string) *models.Post {
	t.Helper()
	post := &models.Post{
		AuthorID:    authorID,
		Title:       title,
		Content:     "content of " + title,
		Category:    category,
		Privacy:     privacy,
		Attachments: []string{},
	}
	require.NoError(t, s.CreatePost(context.Background(), post))
	return post
}

func postIDs(posts []models.Post) []uint {
	ids := make([]uint, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	return ids
}

func userIDs(users []models.User) []uint {
	ids := make([]uint, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	return ids
}

func testIDsStrictlyIncrease(t *testing.T, s Storage) {
	ctx := context.Background()
	var last uint
	for i := 0; i < 5; i++ {
		u := createUser(t, s, "user")
		assert.Greater(t, u.ID, last)
		last = u.ID
	}

	last = 0
	for i := 0; i < 5; i++ {
		p := createPost(t, s, 1, "post", models.CategoryGeneral, models.PrivacyPublic)
		assert.Greater(t, p.ID, last)
		assert.False(t, p.CreatedAt.IsZero())
		last = p.ID
	}

	last = 0
	for i := 0; i < 5; i++ {
		c := &models.Comment{PostID: 1, AuthorID: 1, Content: "hi"}
		require.NoError(t, s.CreateComment(ctx, c))
		assert.Greater(t, c.ID, last)
		assert.False(t, c.CreatedAt.IsZero())
		last = c.ID
	}
}

func testVerifiedUsername(t *testing.T, s Storage) {
	verified := createUser(t, s, models.VerifiedUsername)
	assert.True(t, verified.IsVerified)

	other := &models.User{Username: "alice", IsVerified: true}
	require.NoError(t, s.CreateUser(context.Background(), other))
	assert.False(t, other.IsVerified, "callers cannot mark themselves verified")

	stored, err := s.GetUser(context.Background(), other.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsVerified)
}

func testUserLookups(t *testing.T, s Storage) {
	ctx := context.Background()
	first := createUser(t, s, "dup")
	createUser(t, s, "dup")

	got, err := s.GetUserByUsername(ctx, "dup")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID, "lookup returns the earliest account")

	_, err = s.GetUser(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.GetUserByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.GetUserByFirebaseUID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.GetPostByID(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	uid := "firebase-123"
	linked := &models.User{Username: "fb", FirebaseUID: &uid}
	require.NoError(t, s.CreateUser(ctx, linked))
	got, err = s.GetUserByFirebaseUID(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, linked.ID, got.ID)
}

func testUpdateUser(t *testing.T, s Storage) {
	ctx := context.Background()
	user := createUser(t, s, "bob")

	_, err := s.UpdateUser(ctx, user.ID+100, models.UserUpdate{})
	assert.ErrorIs(t, err, ErrNotFound)

	bio := "CS 101 student"
	updated, err := s.UpdateUser(ctx, user.ID, models.UserUpdate{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, user.ID, updated.ID)
	assert.Equal(t, "bob", updated.Username)
	assert.Equal(t, "bob", updated.DisplayName, "unset fields are left untouched")
	assert.Equal(t, bio, updated.Bio)

	stored, err := s.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, bio, stored.Bio)
	assert.Equal(t, "hash", stored.Password)
}

func testPrivacyFiltering(t *testing.T, s Storage) {
	ctx := context.Background()
	author := createUser(t, s, "author")
	public := createPost(t, s, author.ID, "Shared notes", models.CategoryResources, models.PrivacyPublic)
	private := createPost(t, s, author.ID, "Shared diary", models.CategoryResources, models.PrivacyPrivate)

	posts, err := s.GetPosts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uint{public.ID}, postIDs(posts))

	posts, err = s.SearchPosts(ctx, "shared")
	require.NoError(t, err)
	assert.Equal(t, []uint{public.ID}, postIDs(posts))

	posts, err = s.GetPostsByCategory(ctx, models.CategoryResources)
	require.NoError(t, err)
	assert.Equal(t, []uint{public.ID}, postIDs(posts))

	posts, err = s.GetPostsByUser(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{private.ID, public.ID}, postIDs(posts))

	got, err := s.GetPostByID(ctx, private.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PrivacyPrivate, got.Privacy)
}

func testPostsByCategory(t *testing.T, s Storage) {
	ctx := context.Background()
	hw := createPost(t, s, 1, "Problem set 3", models.CategoryHomework, models.PrivacyPublic)
	createPost(t, s, 1, "Exam moved", models.CategoryAnnouncements, models.PrivacyPublic)

	posts, err := s.GetPostsByCategory(ctx, models.CategoryHomework)
	require.NoError(t, err)
	assert.Equal(t, []uint{hw.ID}, postIDs(posts))

	posts, err = s.GetPostsByCategory(ctx, "homework")
	require.NoError(t, err)
	assert.Empty(t, posts, "category match is exact")
}

func testSearchIsCaseInsensitive(t *testing.T, s Storage) {
	ctx := context.Background()
	post := createPost(t, s, 1, "Homework Help", models.CategoryQuestions, models.PrivacyPublic)

	for _, q := range []string{"homework", "HELP", "work he", "Content Of"} {
		posts, err := s.SearchPosts(ctx, q)
		require.NoError(t, err)
		assert.Equal(t, []uint{post.ID}, postIDs(posts), "query %q", q)
	}

	for _, q := range []string{"calculus", "100%", "_"} {
		posts, err := s.SearchPosts(ctx, q)
		require.NoError(t, err)
		assert.Empty(t, posts, "query %q", q)
	}
}

func testFeedComposition(t *testing.T, s Storage) {
	ctx := context.Background()
	a := createUser(t, s, "a")
	b := createUser(t, s, "b")
	c := createUser(t, s, "c")
	require.NoError(t, s.FollowUser(ctx, a.ID, b.ID))

	bPost := createPost(t, s, b.ID, "from b", models.CategoryGeneral, models.PrivacyPublic)
	createPost(t, s, b.ID, "b private", models.CategoryGeneral, models.PrivacyPrivate)
	createPost(t, s, c.ID, "from c", models.CategoryGeneral, models.PrivacyPublic)
	aPost := createPost(t, s, a.ID, "from a", models.CategoryGeneral, models.PrivacyPublic)
	createPost(t, s, a.ID, "a private", models.CategoryGeneral, models.PrivacyPrivate)

	feed, err := s.GetFeedPosts(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{aPost.ID, bPost.ID}, postIDs(feed))
}

func testFollowIdempotence(t *testing.T, s Storage) {
	ctx := context.Background()
	a := createUser(t, s, "a")
	b := createUser(t, s, "b")

	require.NoError(t, s.FollowUser(ctx, a.ID, b.ID))
	require.NoError(t, s.FollowUser(ctx, a.ID, b.ID))

	following, err := s.GetFollowing(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{b.ID}, userIDs(following))

	followers, err := s.GetFollowers(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{a.ID}, userIDs(followers))

	ok, err := s.IsFollowing(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = s.IsFollowing(ctx, b.ID, a.ID)
	require.NoError(t, err)
	assert.False(t, ok, "edges are directed")

	require.NoError(t, s.UnfollowUser(ctx, a.ID, b.ID))
	require.NoError(t, s.UnfollowUser(ctx, a.ID, b.ID))

	following, err = s.GetFollowing(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, following)
	ok, err = s.IsFollowing(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func testSelfFollow(t *testing.T, s Storage) {
	ctx := context.Background()
	a := createUser(t, s, "a")

	require.NoError(t, s.FollowUser(ctx, a.ID, a.ID))

	ok, err := s.IsFollowing(ctx, a.ID, a.ID)
	require.NoError(t, err)
	assert.False(t, ok)
	followers, err := s.GetFollowers(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, followers)
}

func testFollowListsInEdgeOrder(t *testing.T, s Storage) {
	ctx := context.Background()
	a := createUser(t, s, "a")
	b := createUser(t, s, "b")
	c := createUser(t, s, "c")
	d := createUser(t, s, "d")

	require.NoError(t, s.FollowUser(ctx, a.ID, d.ID))
	require.NoError(t, s.FollowUser(ctx, a.ID, b.ID))
	require.NoError(t, s.FollowUser(ctx, c.ID, b.ID))
	require.NoError(t, s.FollowUser(ctx, a.ID, c.ID))

	following, err := s.GetFollowing(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{d.ID, b.ID, c.ID}, userIDs(following))

	followers, err := s.GetFollowers(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{a.ID, c.ID}, userIDs(followers))
}

func testOrdering(t *testing.T, s Storage) {
	ctx := context.Background()
	first := createPost(t, s, 1, "first", models.CategoryGeneral, models.PrivacyPublic)
	second := createPost(t, s, 1, "second", models.CategoryGeneral, models.PrivacyPublic)
	third := createPost(t, s, 1, "third", models.CategoryGeneral, models.PrivacyPublic)

	posts, err := s.GetPosts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uint{third.ID, second.ID, first.ID}, postIDs(posts))

	var want []uint
	for _, text := range []string{"one", "two", "three"} {
		c := &models.Comment{PostID: first.ID, AuthorID: 1, Content: text}
		require.NoError(t, s.CreateComment(ctx, c))
		want = append(want, c.ID)
	}
	require.NoError(t, s.CreateComment(ctx, &models.Comment{PostID: second.ID, AuthorID: 1, Content: "elsewhere"}))

	comments, err := s.GetCommentsByPostID(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, comments, 3)
	for i, c := range comments {
		assert.Equal(t, want[i], c.ID)
	}
	assert.Equal(t, "one", comments[0].Content)
}

func testEmptyResults(t *testing.T, s Storage) {
	ctx := context.Background()

	posts, err := s.GetPosts(ctx)
	require.NoError(t, err)
	assert.NotNil(t, posts)
	assert.Empty(t, posts)

	feed, err := s.GetFeedPosts(ctx, 1)
	require.NoError(t, err)
	assert.NotNil(t, feed)

	comments, err := s.GetCommentsByPostID(ctx, 1)
	require.NoError(t, err)
	assert.NotNil(t, comments)

	followers, err := s.GetFollowers(ctx, 1)
	require.NoError(t, err)
	assert.NotNil(t, followers)
}
