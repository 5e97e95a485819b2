package dto

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type MQPostCreatedMsg struct {
	PostID    bson.ObjectID `json:"post_id"`
	UserID    bson.ObjectID `json:"user_id"`
	PostTitle string        `json:"post_title"`
	CreatedAt time.Time     `json:"created_at"`
}

// MQCommentCreatedMsg covers both comments and replies; ParentID is set for replies.
type MQCommentCreatedMsg struct {
	PostID       bson.ObjectID  `json:"post_id"`
	PostAuthorID bson.ObjectID  `json:"post_author_id"`
	CommentID    bson.ObjectID  `json:"comment_id"`
	ParentID     *bson.ObjectID `json:"parent_id,omitempty"`
	UserID       bson.ObjectID  `json:"user_id"`
	CreatedAt    time.Time      `json:"created_at"`
}

type MQUserFollowedMsg struct {
	FollowerID bson.ObjectID `json:"follower_id"`
	FolloweeID bson.ObjectID `json:"followee_id"`
	Following  bool          `json:"following"`
	CreatedAt  time.Time     `json:"created_at"`
}
