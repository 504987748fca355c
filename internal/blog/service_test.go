package blog_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yatube/yatube/internal/blog"
	"github.com/yatube/yatube/internal/db"
	"github.com/yatube/yatube/internal/db/dbtest"
	"github.com/yatube/yatube/internal/models"
)

type env struct {
	svc  *blog.Service
	repo *db.Repository
}

func newEnv(t *testing.T, pageSize int) *env {
	repo := db.NewRepository(dbtest.New(t).DB)
	return &env{svc: blog.NewService(repo, pageSize), repo: repo}
}

func (e *env) user(t *testing.T, name string) blog.Identity {
	u := &models.User{Username: name, PasswordHash: "x"}
	require.NoError(t, db.NewUserRepository(e.repo).Create(context.Background(), u))
	return blog.Identity{UserID: u.ID, Username: u.Username}
}

func (e *env) group(t *testing.T, slug string) *models.Group {
	g, err := e.svc.CreateGroup(context.Background(), blog.GroupInput{Title: "Group " + slug, Slug: slug})
	require.NoError(t, err)
	return g
}

func (e *env) post(t *testing.T, author blog.Identity, text string) *models.Post {
	_, p, err := e.svc.CreatePost(context.Background(), author, blog.PostInput{Text: text})
	require.NoError(t, err)
	return p
}

func (e *env) countPosts(t *testing.T) int64 {
	n, err := db.NewPostRepository(e.repo).Count(context.Background(), db.PostFilter{})
	require.NoError(t, err)
	return n
}

func (e *env) pendingEvents(t *testing.T) []models.OutboxEvent {
	evs, err := db.NewOutboxRepository(e.repo).ListPending(context.Background(), 100)
	require.NoError(t, err)
	return evs
}

func strPtr(s string) *string { return &s }

func TestCreatePost(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, 10)
	leo := e.user(t, "leo")
	cats := e.group(t, "cats")

	out, post, err := e.svc.CreatePost(ctx, leo, blog.PostInput{Text: "  hello  ", GroupSlug: "cats"})
	require.NoError(t, err)
	assert.Equal(t, blog.Applied, out.Result)
	assert.Equal(t, blog.ProfileView("leo"), out.Redirect)
	assert.Equal(t, "hello", post.Text)
	assert.Equal(t, leo.UserID, post.AuthorID)
	require.NotNil(t, post.GroupID)
	assert.Equal(t, cats.ID, *post.GroupID)
	assert.False(t, post.CreatedAt.IsZero())

	evs := e.pendingEvents(t)
	require.Len(t, evs, 1)
	assert.Equal(t, models.EventPost, evs[0].Type)
}

func TestCreatePostRejectsInput(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, 10)
	leo := e.user(t, "leo")

	tests := []struct {
		name  string
		id    blog.Identity
		in    blog.PostInput
		field string
		err   error
	}{
		{name: "empty text", id: leo, in: blog.PostInput{Text: ""}, field: "text"},
		{name: "blank text", id: leo, in: blog.PostInput{Text: " \n\t"}, field: "text"},
		{name: "unknown group", id: leo, in: blog.PostInput{Text: "hi", GroupSlug: "nope"}, field: "group"},
		{name: "anonymous", id: blog.Anonymous(), in: blog.PostInput{Text: "hi"}, err: blog.ErrUnauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, post, err := e.svc.CreatePost(ctx, tt.id, tt.in)
			require.Error(t, err)
			assert.Nil(t, post)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
			} else {
				ve, ok := blog.IsValidation(err)
				require.True(t, ok, "want ValidationError, got %v", err)
				assert.Contains(t, ve.Fields, tt.field)
			}
			assert.Zero(t, e.countPosts(t))
			assert.Empty(t, e.pendingEvents(t))
		})
	}
}

func TestEditPostByAuthor(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, 10)
	leo := e.user(t, "leo")
	e.group(t, "cats")
	post := e.post(t, leo, "draft")

	out, edited, err := e.svc.EditPost(ctx, leo, post.ID, blog.PostChanges{
		Text:      strPtr("final"),
		GroupSlug: strPtr("cats"),
	})
	require.NoError(t, err)
	assert.Equal(t, blog.Applied, out.Result)
	assert.Equal(t, blog.PostDetailView(post.ID), out.Redirect)
	assert.Equal(t, "final", edited.Text)
	require.NotNil(t, edited.Group)
	assert.Equal(t, "cats", edited.Group.Slug)

	// only supplied fields change
	_, edited, err = e.svc.EditPost(ctx, leo, post.ID, blog.PostChanges{Image: strPtr("posts/cat.png")})
	require.NoError(t, err)
	assert.Equal(t, "final", edited.Text)
	assert.Equal(t, "posts/cat.png", edited.Image)
	assert.NotNil(t, edited.GroupID)

	_, edited, err = e.svc.EditPost(ctx, leo, post.ID, blog.PostChanges{GroupSlug: strPtr("")})
	require.NoError(t, err)
	assert.Nil(t, edited.GroupID)

	assert.Equal(t, leo.UserID, edited.AuthorID)
	assert.True(t, edited.CreatedAt.Equal(post.CreatedAt))
}

func TestEditPostByNonAuthorIsDenied(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, 10)
	leo := e.user(t, "leo")
	intruder := e.user(t, "intruder")
	post := e.post(t, leo, "original")

	inputs := []blog.PostChanges{
		{Text: strPtr("hacked")},
		{Text: strPtr("")},
		{Image: strPtr("posts/evil.png")},
		{GroupSlug: strPtr("missing")},
		{},
	}
	for i, changes := range inputs {
		t.Run(fmt.Sprintf("input %d", i), func(t *testing.T) {
			out, _, err := e.svc.EditPost(ctx, intruder, post.ID, changes)
			require.NoError(t, err)
			assert.Equal(t, blog.Denied, out.Result)
			assert.Equal(t, blog.PostDetailView(post.ID), out.Redirect)

			detail, err := e.svc.PostDetail(ctx, post.ID)
			require.NoError(t, err)
			assert.Equal(t, "original", detail.Post.Text)
			assert.Equal(t, "", detail.Post.Image)
			assert.Equal(t, leo.UserID, detail.Post.AuthorID)
		})
	}
}

func TestEditPostErrors(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, 10)
	leo := e.user(t, "leo")
	post := e.post(t, leo, "text")

	_, _, err := e.svc.EditPost(ctx, leo, post.ID+100, blog.PostChanges{Text: strPtr("x")})
	assert.ErrorIs(t, err, blog.ErrNotFound)

	_, _, err = e.svc.EditPost(ctx, blog.Anonymous(), post.ID, blog.PostChanges{Text: strPtr("x")})
	assert.ErrorIs(t, err, blog.ErrUnauthenticated)

	_, _, err = e.svc.EditPost(ctx, leo, post.ID, blog.PostChanges{GroupSlug: strPtr("missing")})
	_, ok := blog.IsValidation(err)
	assert.True(t, ok)
}

func TestCreateComment(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, 10)
	leo := e.user(t, "leo")
	reader := e.user(t, "reader")
	post := e.post(t, leo, "text")

	out, comment, err := e.svc.CreateComment(ctx, reader, post.ID, "first!")
	require.NoError(t, err)
	assert.Equal(t, blog.Applied, out.Result)
	assert.Equal(t, blog.PostDetailView(post.ID), out.Redirect)
	assert.Equal(t, reader.UserID, comment.AuthorID)

	_, _, err = e.svc.CreateComment(ctx, reader, post.ID, "second")
	require.NoError(t, err)

	_, _, err = e.svc.CreateComment(ctx, reader, post.ID, "   ")
	_, ok := blog.IsValidation(err)
	assert.True(t, ok)

	_, _, err = e.svc.CreateComment(ctx, reader, post.ID+100, "lost")
	assert.ErrorIs(t, err, blog.ErrNotFound)

	_, _, err = e.svc.CreateComment(ctx, blog.Anonymous(), post.ID, "hi")
	assert.ErrorIs(t, err, blog.ErrUnauthenticated)

	detail, err := e.svc.PostDetail(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, detail.Comments, 2)
	assert.Equal(t, "second", detail.Comments[0].Text)
	assert.Equal(t, "first!", detail.Comments[1].Text)
	assert.Equal(t, "reader", detail.Comments[0].Author.Username)
	assert.Equal(t, int64(1), detail.AuthorPosts)
}

func TestFollowIsIdempotent(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, 10)
	fan := e.user(t, "fan")
	star := e.user(t, "star")

	out, err := e.svc.Follow(ctx, fan, "star")
	require.NoError(t, err)
	assert.Equal(t, blog.Applied, out.Result)
	assert.Equal(t, blog.ProfileView("star"), out.Redirect)

	out, err = e.svc.Follow(ctx, fan, "star")
	require.NoError(t, err)
	assert.Equal(t, blog.NoOp, out.Result)
	assert.Equal(t, blog.ProfileView("star"), out.Redirect)

	n, err := db.NewFollowRepository(e.repo).CountEdges(ctx, fan.UserID, star.UserID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	evs := e.pendingEvents(t)
	require.Len(t, evs, 1)
	assert.Equal(t, models.EventFollow, evs[0].Type)
}

func TestFollowSelfNeverCreatesEdge(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, 10)
	narcissus := e.user(t, "narcissus")

	for i := 0; i < 2; i++ {
		out, err := e.svc.Follow(ctx, narcissus, "narcissus")
		require.NoError(t, err)
		assert.Equal(t, blog.NoOp, out.Result)
	}

	n, err := db.NewFollowRepository(e.repo).CountEdges(ctx, narcissus.UserID, narcissus.UserID)
	require.NoError(t, err)
	assert.Zero(t, n)

	profile, err := e.svc.Profile(ctx, narcissus, "narcissus", 1)
	require.NoError(t, err)
	assert.False(t, profile.Following)
}

func TestFollowErrors(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, 10)
	fan := e.user(t, "fan")
	e.user(t, "star")

	_, err := e.svc.Follow(ctx, fan, "ghost")
	assert.ErrorIs(t, err, blog.ErrNotFound)

	_, err = e.svc.Follow(ctx, blog.Anonymous(), "star")
	assert.ErrorIs(t, err, blog.ErrUnauthenticated)
}

func TestUnfollow(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, 10)
	fan := e.user(t, "fan")
	e.user(t, "star")

	_, err := e.svc.Unfollow(ctx, fan, "star")
	assert.ErrorIs(t, err, blog.ErrNotFound, "unfollowing a non-followed author fails")

	_, err = e.svc.Unfollow(ctx, fan, "fan")
	assert.ErrorIs(t, err, blog.ErrNotFound, "self-unfollow resolves to not found")

	_, err = e.svc.Follow(ctx, fan, "star")
	require.NoError(t, err)

	out, err := e.svc.Unfollow(ctx, fan, "star")
	require.NoError(t, err)
	assert.Equal(t, blog.Applied, out.Result)
	assert.Equal(t, blog.ProfileView("star"), out.Redirect)

	_, err = e.svc.Unfollow(ctx, fan, "star")
	assert.ErrorIs(t, err, blog.ErrNotFound)

	evs := e.pendingEvents(t)
	require.Len(t, evs, 2)
	assert.Equal(t, models.EventUnfollow, evs[1].Type)
}

func TestFeed(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, 10)
	author := e.user(t, "author")
	other := e.user(t, "other")
	follower := e.user(t, "follower")

	var want []int64
	for i := 0; i < 3; i++ {
		want = append([]int64{e.post(t, author, fmt.Sprintf("post %d", i)).ID}, want...)
		e.post(t, other, "noise")
	}

	page, err := e.svc.Feed(ctx, follower, 1)
	require.NoError(t, err)
	assert.Empty(t, page.Posts)

	_, err = e.svc.Follow(ctx, follower, "author")
	require.NoError(t, err)

	page, err = e.svc.Feed(ctx, follower, 1)
	require.NoError(t, err)
	var got []int64
	for _, p := range page.Posts {
		got = append(got, p.ID)
	}
	assert.Equal(t, want, got, "exactly the followed author's posts, newest first")

	profile, err := e.svc.Profile(ctx, follower, "author", 1)
	require.NoError(t, err)
	assert.True(t, profile.Following)

	_, err = e.svc.Unfollow(ctx, follower, "author")
	require.NoError(t, err)

	page, err = e.svc.Feed(ctx, follower, 1)
	require.NoError(t, err)
	assert.Empty(t, page.Posts)

	_, err = e.svc.Feed(ctx, blog.Anonymous(), 1)
	assert.ErrorIs(t, err, blog.ErrUnauthenticated)
}

func TestListPostsPagination(t *testing.T) {
	ctx := context.Background()
	const size = 4
	e := newEnv(t, size)
	leo := e.user(t, "leo")

	for i := 0; i < size+3; i++ {
		e.post(t, leo, fmt.Sprintf("post %d", i))
	}

	scopes := []blog.Scope{blog.AllPosts(), blog.AuthorPosts("leo")}
	for _, scope := range scopes {
		t.Run(scope.String(), func(t *testing.T) {
			first, err := e.svc.ListPosts(ctx, scope, 1)
			require.NoError(t, err)
			assert.Len(t, first.Posts, size)
			assert.Equal(t, 2, first.NumPages)
			assert.Equal(t, "post 6", first.Posts[0].Text)

			second, err := e.svc.ListPosts(ctx, scope, 2)
			require.NoError(t, err)
			assert.Len(t, second.Posts, 3)
			assert.Equal(t, "post 0", second.Posts[2].Text)

			clamped, err := e.svc.ListPosts(ctx, scope, 99)
			require.NoError(t, err)
			assert.Equal(t, 2, clamped.Number)
			assert.Equal(t, second.Posts, clamped.Posts)
		})
	}
}

func TestListPostsUnknownScope(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, 10)

	_, err := e.svc.ListPosts(ctx, blog.GroupPosts("missing"), 1)
	assert.ErrorIs(t, err, blog.ErrNotFound)

	_, err = e.svc.ListPosts(ctx, blog.AuthorPosts("missing"), 1)
	assert.ErrorIs(t, err, blog.ErrNotFound)

	_, err = e.svc.GroupPage(ctx, "missing", 1)
	assert.ErrorIs(t, err, blog.ErrNotFound)

	_, err = e.svc.Profile(ctx, blog.Anonymous(), "missing", 1)
	assert.ErrorIs(t, err, blog.ErrNotFound)

	_, err = e.svc.PostDetail(ctx, 12345)
	assert.ErrorIs(t, err, blog.ErrNotFound)
}

func TestGroupPage(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, 10)
	leo := e.user(t, "leo")
	e.group(t, "cats")
	e.group(t, "dogs")

	_, _, err := e.svc.CreatePost(ctx, leo, blog.PostInput{Text: "meow", GroupSlug: "cats"})
	require.NoError(t, err)
	_, _, err = e.svc.CreatePost(ctx, leo, blog.PostInput{Text: "woof", GroupSlug: "dogs"})
	require.NoError(t, err)

	page, err := e.svc.GroupPage(ctx, "cats", 1)
	require.NoError(t, err)
	assert.Equal(t, "cats", page.Group.Slug)
	require.Len(t, page.Page.Posts, 1)
	assert.Equal(t, "meow", page.Page.Posts[0].Text)
}

func TestCreateGroup(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, 10)
	e.group(t, "cats")

	tests := []struct {
		name  string
		in    blog.GroupInput
		field string
	}{
		{"missing title", blog.GroupInput{Slug: "a"}, "title"},
		{"missing slug", blog.GroupInput{Title: "A"}, "slug"},
		{"bad slug", blog.GroupInput{Title: "A", Slug: "no spaces"}, "slug"},
		{"duplicate slug", blog.GroupInput{Title: "Cats again", Slug: "cats"}, "slug"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.svc.CreateGroup(ctx, tt.in)
			ve, ok := blog.IsValidation(err)
			require.True(t, ok, "want ValidationError, got %v", err)
			assert.Contains(t, ve.Fields, tt.field)
		})
	}

	groups, err := e.svc.ListGroups(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "Group cats", groups[0].Title)
}
