package dto

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// AdminComment is a comment or reply flattened out of its post for the
// moderation dashboard. ParentID is set for replies only.
type AdminComment struct {
	ID           bson.ObjectID  `json:"_id"`
	Content      string         `json:"content"`
	AuthorID     bson.ObjectID  `json:"author"`
	AuthorName   string         `json:"authorName"`
	AuthorAvatar string         `json:"authorAvatar"`
	CreatedAt    time.Time      `json:"createdAt"`
	Likes        int64          `json:"likes"`
	PostID       bson.ObjectID  `json:"postId"`
	PostTitle    string         `json:"postTitle"`
	ParentID     *bson.ObjectID `json:"parentId,omitempty"`
}
