package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func testUser(name string) *User {
	return NewUser(name, name+"@example.com", "hash", time.Now())
}

func TestToggleLikeRoundTrip(t *testing.T) {
	author := testUser("author")
	post := NewPost(author, "Hello", "World", "", nil, time.Now())
	liker := bson.NewObjectID()

	liked, count := post.ToggleLike(liker)
	assert.True(t, liked)
	assert.Equal(t, 1, count)
	assert.True(t, post.HasLike(liker))

	liked, count = post.ToggleLike(liker)
	assert.False(t, liked)
	assert.Equal(t, 0, count)
	assert.Empty(t, post.Likes)
}

func TestToggleLikeKeepsSetSemantics(t *testing.T) {
	post := NewPost(testUser("author"), "t", "c", "", nil, time.Now())
	a, b := bson.NewObjectID(), bson.NewObjectID()

	post.ToggleLike(a)
	post.ToggleLike(b)
	post.ToggleLike(a)
	post.ToggleLike(a)

	assert.ElementsMatch(t, []bson.ObjectID{a, b}, post.Likes)
}

func TestCommentsAndReplies(t *testing.T) {
	commenter := testUser("alice")
	replier := testUser("bob")
	post := NewPost(testUser("author"), "t", "c", "", nil, time.Now())

	comment := NewComment(commenter, "nice", time.Now())
	post.AddComment(comment)

	require.Len(t, post.Comments, 1)
	assert.Equal(t, "nice", post.Comments[0].Content)
	assert.Equal(t, "alice", post.Comments[0].AuthorName)
	assert.NotNil(t, post.Comments[0].Replies)
	assert.Empty(t, post.Comments[0].Replies)

	found := post.Comment(comment.ID)
	require.NotNil(t, found)
	reply := NewReply(replier, "thanks", time.Now())
	found.AddReply(reply)

	require.Len(t, post.Comments[0].Replies, 1)
	assert.Equal(t, "thanks", post.Comments[0].Replies[0].Content)
	assert.Same(t, reply, post.Comments[0].Reply(reply.ID))

	assert.False(t, found.RemoveReply(bson.NewObjectID()))
	assert.True(t, found.RemoveReply(reply.ID))
	assert.Empty(t, found.Replies)
}

func TestRemoveCommentDropsReplies(t *testing.T) {
	post := NewPost(testUser("author"), "t", "c", "", nil, time.Now())
	first := NewComment(testUser("a"), "first", time.Now())
	second := NewComment(testUser("b"), "second", time.Now())
	post.AddComment(first)
	post.AddComment(second)
	first.AddReply(NewReply(testUser("c"), "r", time.Now()))

	assert.True(t, post.RemoveComment(first.ID))
	assert.Nil(t, post.Comment(first.ID))
	require.Len(t, post.Comments, 1)
	assert.Equal(t, second.ID, post.Comments[0].ID)

	assert.False(t, post.RemoveComment(first.ID))
}

func TestEditKeepsImageWhenEmpty(t *testing.T) {
	post := NewPost(testUser("author"), "t", "c", "cover.png", []string{"go"}, time.Now())

	post.Edit("t2", "c2", "", nil)
	assert.Equal(t, "cover.png", post.Image)
	assert.Equal(t, "t2", post.Title)
	assert.Equal(t, []string{}, post.Tags)

	post.Edit("t3", "c3", "new.png", []string{"a"})
	assert.Equal(t, "new.png", post.Image)
	assert.Equal(t, []string{"a"}, post.Tags)
}

func TestAuthorSnapshot(t *testing.T) {
	author := testUser("")
	author.Avatar = "a.png"
	post := NewPost(author, "t", "c", "", nil, time.Now())

	assert.Equal(t, "User", post.AuthorName)
	assert.Equal(t, "a.png", post.AuthorAvatar)

	author.Name = "renamed"
	assert.Equal(t, "User", post.AuthorName)
}

func TestCloneIsDeep(t *testing.T) {
	post := NewPost(testUser("author"), "t", "c", "", []string{"x"}, time.Now())
	comment := NewComment(testUser("a"), "c", time.Now())
	post.AddComment(comment)

	clone := post.Clone()
	clone.Comments[0].AddReply(NewReply(testUser("b"), "r", time.Now()))
	clone.ToggleLike(bson.NewObjectID())
	clone.Tags[0] = "y"

	assert.Empty(t, post.Comments[0].Replies)
	assert.Empty(t, post.Likes)
	assert.Equal(t, "x", post.Tags[0])
}

func TestNormalize(t *testing.T) {
	post := &Post{Comments: []*Comment{{}}}
	post.Normalize()

	assert.NotNil(t, post.Tags)
	assert.NotNil(t, post.Likes)
	assert.NotNil(t, post.Comments[0].Replies)
}
