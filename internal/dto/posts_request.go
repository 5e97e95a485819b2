package dto

type CreatePostRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Image   string   `json:"image"`
	Tags    []string `json:"tags"`
}

type EditPostRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Image   string   `json:"image"`
	Tags    []string `json:"tags"`
}
