package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Post struct {
	ID           bson.ObjectID   `json:"_id" bson:"_id"`
	Title        string          `json:"title" bson:"title"`
	Content      string          `json:"content" bson:"content"`
	Image        string          `json:"image" bson:"image"`
	Tags         []string        `json:"tags" bson:"tags"`
	AuthorID     bson.ObjectID   `json:"author" bson:"author"`
	AuthorName   string          `json:"authorName" bson:"authorName"`
	AuthorAvatar string          `json:"authorAvatar" bson:"authorAvatar"`
	Likes        []bson.ObjectID `json:"likes" bson:"likes"`
	Comments     []*Comment      `json:"comments" bson:"comments"`
	CreatedAt    time.Time       `json:"createdAt" bson:"createdAt"`
	// Version is bumped by the store on every successful save.
	Version int64 `json:"-" bson:"version"`
}

// NewPost snapshots the author's display fields into the post. Later profile
// edits are not propagated.
func NewPost(author *User, title, content, image string, tags []string, now time.Time) *Post {
	return &Post{
		ID:           bson.NewObjectID(),
		Title:        title,
		Content:      content,
		Image:        image,
		Tags:         tags,
		AuthorID:     author.ID,
		AuthorName:   author.DisplayName(),
		AuthorAvatar: author.Avatar,
		Likes:        []bson.ObjectID{},
		Comments:     []*Comment{},
		CreatedAt:    now,
	}
}

func (p *Post) IsAuthor(userID bson.ObjectID) bool {
	return p.AuthorID == userID
}

// Edit replaces title, content and tags. An empty image keeps the current cover.
func (p *Post) Edit(title, content, image string, tags []string) {
	p.Title = title
	p.Content = content
	if image != "" {
		p.Image = image
	}
	if tags == nil {
		tags = []string{}
	}
	p.Tags = tags
}

func (p *Post) HasLike(userID bson.ObjectID) bool {
	return p.likeIndex(userID) != -1
}

// ToggleLike removes userID from the like set when present and adds it
// otherwise. It reports the new membership and the new set size.
func (p *Post) ToggleLike(userID bson.ObjectID) (bool, int) {
	if i := p.likeIndex(userID); i != -1 {
		p.Likes = append(p.Likes[:i], p.Likes[i+1:]...)
		return false, len(p.Likes)
	}

	p.Likes = append(p.Likes, userID)
	return true, len(p.Likes)
}

func (p *Post) likeIndex(userID bson.ObjectID) int {
	for i, id := range p.Likes {
		if id == userID {
			return i
		}
	}
	return -1
}

func (p *Post) AddComment(comment *Comment) {
	if comment.Replies == nil {
		comment.Replies = []*Reply{}
	}
	p.Comments = append(p.Comments, comment)
}

func (p *Post) Comment(id bson.ObjectID) *Comment {
	if i := p.commentIndex(id); i != -1 {
		return p.Comments[i]
	}
	return nil
}

// RemoveComment drops the comment together with its replies.
func (p *Post) RemoveComment(id bson.ObjectID) bool {
	i := p.commentIndex(id)
	if i == -1 {
		return false
	}

	p.Comments = append(p.Comments[:i], p.Comments[i+1:]...)
	return true
}

func (p *Post) commentIndex(id bson.ObjectID) int {
	for i, c := range p.Comments {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// Normalize replaces nil collections so that documents decoded from any
// backend serialize with empty arrays.
func (p *Post) Normalize() {
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if p.Likes == nil {
		p.Likes = []bson.ObjectID{}
	}
	if p.Comments == nil {
		p.Comments = []*Comment{}
	}
	for _, c := range p.Comments {
		if c.Replies == nil {
			c.Replies = []*Reply{}
		}
	}
}

func (p *Post) Clone() *Post {
	clone := *p
	clone.Tags = append([]string{}, p.Tags...)
	clone.Likes = append([]bson.ObjectID{}, p.Likes...)
	clone.Comments = make([]*Comment, 0, len(p.Comments))
	for _, c := range p.Comments {
		clone.Comments = append(clone.Comments, c.Clone())
	}
	return &clone
}
