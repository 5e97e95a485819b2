package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Comment struct {
	ID           bson.ObjectID `json:"_id" bson:"_id"`
	Content      string        `json:"content" bson:"content"`
	AuthorID     bson.ObjectID `json:"author" bson:"author"`
	AuthorName   string        `json:"authorName" bson:"authorName"`
	AuthorAvatar string        `json:"authorAvatar" bson:"authorAvatar"`
	CreatedAt    time.Time     `json:"createdAt" bson:"createdAt"`
	Likes        int64         `json:"likes" bson:"likes"`
	Replies      []*Reply      `json:"replies" bson:"replies"`
}

// Reply is a comment one level down. Replies do not nest further.
type Reply struct {
	ID           bson.ObjectID `json:"_id" bson:"_id"`
	Content      string        `json:"content" bson:"content"`
	AuthorID     bson.ObjectID `json:"author" bson:"author"`
	AuthorName   string        `json:"authorName" bson:"authorName"`
	AuthorAvatar string        `json:"authorAvatar" bson:"authorAvatar"`
	CreatedAt    time.Time     `json:"createdAt" bson:"createdAt"`
	Likes        int64         `json:"likes" bson:"likes"`
}

func NewComment(author *User, content string, now time.Time) *Comment {
	return &Comment{
		ID:           bson.NewObjectID(),
		Content:      content,
		AuthorID:     author.ID,
		AuthorName:   author.DisplayName(),
		AuthorAvatar: author.Avatar,
		CreatedAt:    now,
		Replies:      []*Reply{},
	}
}

func NewReply(author *User, content string, now time.Time) *Reply {
	return &Reply{
		ID:           bson.NewObjectID(),
		Content:      content,
		AuthorID:     author.ID,
		AuthorName:   author.DisplayName(),
		AuthorAvatar: author.Avatar,
		CreatedAt:    now,
	}
}

func (c *Comment) AddReply(reply *Reply) {
	c.Replies = append(c.Replies, reply)
}

func (c *Comment) Reply(id bson.ObjectID) *Reply {
	if i := c.replyIndex(id); i != -1 {
		return c.Replies[i]
	}
	return nil
}

func (c *Comment) RemoveReply(id bson.ObjectID) bool {
	i := c.replyIndex(id)
	if i == -1 {
		return false
	}

	c.Replies = append(c.Replies[:i], c.Replies[i+1:]...)
	return true
}

func (c *Comment) replyIndex(id bson.ObjectID) int {
	for i, r := range c.Replies {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func (c *Comment) Clone() *Comment {
	clone := *c
	clone.Replies = make([]*Reply, 0, len(c.Replies))
	for _, r := range c.Replies {
		reply := *r
		clone.Replies = append(clone.Replies, &reply)
	}
	return &clone
}
