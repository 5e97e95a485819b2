package dto

import "github.com/BloggingApp/bloghub/internal/model"

// PostResponse renders a post with its author reference expanded. The outer
// Author field shadows the embedded post's author id in JSON.
type PostResponse struct {
	*model.Post
	Author *model.Author `json:"author"`
}

type LikeResponse struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likesCount"`
}
