package service

import (
	"context"
	"testing"
	"time"

	"github.com/BloggingApp/bloghub/internal/dto"
	"github.com/BloggingApp/bloghub/internal/rabbitmq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestCommentAndReply(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.user(t, "alice")
	b := env.user(t, "bob")
	post := env.post(t, a, "discussed")

	comment, err := env.svc.Comment.Create(ctx, a, post.ID, dto.CreateCommentRequest{Content: "  nice "})
	require.NoError(t, err)
	assert.Equal(t, "nice", comment.Content)
	assert.NotNil(t, comment.Replies)
	assert.Empty(t, comment.Replies)

	reply, err := env.svc.Comment.Reply(ctx, b, post.ID, comment.ID, dto.CreateCommentRequest{Content: "thanks"})
	require.NoError(t, err)
	assert.Equal(t, "bob", reply.AuthorName)

	got, err := env.svc.Article.FindByID(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, got.Comments, 1)
	assert.Equal(t, "nice", got.Comments[0].Content)
	require.Len(t, got.Comments[0].Replies, 1)
	assert.Equal(t, "thanks", got.Comments[0].Replies[0].Content)

	assert.Equal(t, []string{
		rabbitmq.POST_CREATED_KEY,
		rabbitmq.COMMENT_CREATED_KEY,
		rabbitmq.REPLY_CREATED_KEY,
	}, env.publisher.Events())
}

func TestCommentValidationAndLookup(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.user(t, "alice")
	post := env.post(t, a, "quiet")

	_, err := env.svc.Comment.Create(ctx, a, post.ID, dto.CreateCommentRequest{Content: "   "})
	requireKind(t, err, KindValidation)

	_, err = env.svc.Comment.Create(ctx, a, bson.NewObjectID(), dto.CreateCommentRequest{Content: "hi"})
	requireKind(t, err, KindNotFound)

	_, err = env.svc.Comment.Reply(ctx, a, post.ID, bson.NewObjectID(), dto.CreateCommentRequest{Content: "hi"})
	requireKind(t, err, KindNotFound)

	_, err = env.svc.Comment.Reply(ctx, a, post.ID, bson.NewObjectID(), dto.CreateCommentRequest{Content: ""})
	requireKind(t, err, KindValidation)

	got, err := env.svc.Article.FindByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Comments)
}

func TestDeleteCommentRemovesReplies(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "alice")
	commenter := env.user(t, "bob")
	post := env.post(t, owner, "moderated")

	comment, err := env.svc.Comment.Create(ctx, commenter, post.ID, dto.CreateCommentRequest{Content: "first"})
	require.NoError(t, err)
	_, err = env.svc.Comment.Reply(ctx, commenter, post.ID, comment.ID, dto.CreateCommentRequest{Content: "second"})
	require.NoError(t, err)

	// The comment author is not the post author.
	err = env.svc.Comment.Delete(ctx, commenter, post.ID, comment.ID)
	requireKind(t, err, KindForbidden)

	require.NoError(t, env.svc.Comment.Delete(ctx, owner, post.ID, comment.ID))

	got, err := env.svc.Article.FindByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Comments)

	err = env.svc.Comment.Delete(ctx, owner, post.ID, comment.ID)
	requireKind(t, err, KindNotFound)

	_, err = env.svc.Comment.Reply(ctx, commenter, post.ID, comment.ID, dto.CreateCommentRequest{Content: "late"})
	requireKind(t, err, KindNotFound)
}

func TestDeleteReplyOwnedByPostAuthor(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "alice")
	replier := env.user(t, "bob")
	post := env.post(t, owner, "threads")

	comment, err := env.svc.Comment.Create(ctx, owner, post.ID, dto.CreateCommentRequest{Content: "question"})
	require.NoError(t, err)
	keep, err := env.svc.Comment.Reply(ctx, replier, post.ID, comment.ID, dto.CreateCommentRequest{Content: "keep"})
	require.NoError(t, err)
	drop, err := env.svc.Comment.Reply(ctx, replier, post.ID, comment.ID, dto.CreateCommentRequest{Content: "drop"})
	require.NoError(t, err)

	err = env.svc.Comment.DeleteReply(ctx, replier, post.ID, comment.ID, drop.ID)
	requireKind(t, err, KindForbidden)

	err = env.svc.Comment.DeleteReply(ctx, owner, post.ID, bson.NewObjectID(), drop.ID)
	requireKind(t, err, KindNotFound)

	err = env.svc.Comment.DeleteReply(ctx, owner, post.ID, comment.ID, bson.NewObjectID())
	requireKind(t, err, KindNotFound)

	require.NoError(t, env.svc.Comment.DeleteReply(ctx, owner, post.ID, comment.ID, drop.ID))

	got, err := env.svc.Article.FindByID(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, got.Comments[0].Replies, 1)
	assert.Equal(t, keep.ID, got.Comments[0].Replies[0].ID)
}

func TestAdminCommentsFlattenedNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.user(t, "alice")
	post := env.post(t, a, "busy")

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	env.svc.Comment.(*commentService).now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	c1, err := env.svc.Comment.Create(ctx, a, post.ID, dto.CreateCommentRequest{Content: "one"})
	require.NoError(t, err)
	r1, err := env.svc.Comment.Reply(ctx, a, post.ID, c1.ID, dto.CreateCommentRequest{Content: "two"})
	require.NoError(t, err)
	c2, err := env.svc.Comment.Create(ctx, a, post.ID, dto.CreateCommentRequest{Content: "three"})
	require.NoError(t, err)

	all, err := env.svc.Comment.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)

	assert.Equal(t, c2.ID, all[0].ID)
	assert.Equal(t, r1.ID, all[1].ID)
	require.NotNil(t, all[1].ParentID)
	assert.Equal(t, c1.ID, *all[1].ParentID)
	assert.Equal(t, c1.ID, all[2].ID)
	assert.Nil(t, all[2].ParentID)
	assert.Equal(t, "busy", all[0].PostTitle)
	assert.Equal(t, post.ID, all[0].PostID)
}
