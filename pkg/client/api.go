package client

import (
	"net/http"

	"github.com/BloggingApp/bloghub/internal/dto"
	"github.com/BloggingApp/bloghub/internal/model"
)

// Register creates an account and keeps the returned token for later calls.
func (c *Client) Register(req dto.RegisterRequest) (*dto.AuthResponse, error) {
	var resp dto.AuthResponse
	if err := c.do(http.MethodPost, "/api/auth/register", req, &resp); err != nil {
		return nil, err
	}
	c.SetToken(resp.Token)
	return &resp, nil
}

// Login keeps the returned token for later calls.
func (c *Client) Login(email, password string) (*dto.AuthResponse, error) {
	var resp dto.AuthResponse
	if err := c.do(http.MethodPost, "/api/auth/login", dto.LoginRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	c.SetToken(resp.Token)
	return &resp, nil
}

func (c *Client) ListArticles() ([]*dto.PostResponse, error) {
	var posts []*dto.PostResponse
	if err := c.do(http.MethodGet, "/api/articles", nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (c *Client) MyArticles() ([]*dto.PostResponse, error) {
	var posts []*dto.PostResponse
	if err := c.do(http.MethodGet, "/api/articles/my", nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (c *Client) GetArticle(id string) (*dto.PostResponse, error) {
	var post dto.PostResponse
	if err := c.do(http.MethodGet, "/api/articles/"+id, nil, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *Client) CreateArticle(req dto.CreatePostRequest) (*dto.PostResponse, error) {
	var post dto.PostResponse
	if err := c.do(http.MethodPost, "/api/articles", req, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *Client) UpdateArticle(id string, req dto.EditPostRequest) (*dto.PostResponse, error) {
	var post dto.PostResponse
	if err := c.do(http.MethodPut, "/api/articles/"+id, req, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *Client) DeleteArticle(id string) error {
	return c.do(http.MethodDelete, "/api/articles/"+id, nil, nil)
}

func (c *Client) ToggleLike(id string) (*dto.LikeResponse, error) {
	var resp dto.LikeResponse
	if err := c.do(http.MethodPost, "/api/articles/"+id+"/like", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) AddComment(postID, content string) (*model.Comment, error) {
	var comment model.Comment
	if err := c.do(http.MethodPost, "/api/articles/"+postID+"/comments", dto.CreateCommentRequest{Content: content}, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (c *Client) AddReply(postID, commentID, content string) (*model.Reply, error) {
	var reply model.Reply
	path := "/api/articles/" + postID + "/comments/" + commentID + "/reply"
	if err := c.do(http.MethodPost, path, dto.CreateCommentRequest{Content: content}, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

func (c *Client) DeleteComment(postID, commentID string) error {
	return c.do(http.MethodDelete, "/api/articles/"+postID+"/comments/"+commentID, nil, nil)
}

func (c *Client) DeleteReply(postID, commentID, replyID string) error {
	path := "/api/articles/" + postID + "/comments/" + commentID + "/replies/" + replyID
	return c.do(http.MethodDelete, path, nil, nil)
}

func (c *Client) ToggleFollow(userID string) (*dto.FollowResponse, error) {
	var resp dto.FollowResponse
	if err := c.do(http.MethodPost, "/api/follow/"+userID, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) FollowStatus(userID string) (bool, error) {
	var resp dto.FollowStatusResponse
	if err := c.do(http.MethodGet, "/api/follow/status/"+userID, nil, &resp); err != nil {
		return false, err
	}
	return resp.Following, nil
}

func (c *Client) Me() (*dto.ProfileResponse, error) {
	var profile dto.ProfileResponse
	if err := c.do(http.MethodGet, "/api/users/me", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *Client) UpdateMe(req dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	var profile dto.ProfileResponse
	if err := c.do(http.MethodPut, "/api/users/me", req, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *Client) ListUsers() ([]*dto.AdminUserResponse, error) {
	var users []*dto.AdminUserResponse
	if err := c.do(http.MethodGet, "/api/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) GetUser(id string) (*dto.PublicProfileResponse, error) {
	var profile dto.PublicProfileResponse
	if err := c.do(http.MethodGet, "/api/users/"+id, nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *Client) SetRole(id string, role model.Role) error {
	return c.do(http.MethodPut, "/api/users/"+id+"/role", dto.SetRoleRequest{Role: role}, nil)
}

func (c *Client) DeleteUser(id string) error {
	return c.do(http.MethodDelete, "/api/users/"+id, nil, nil)
}

func (c *Client) AdminComments() ([]*dto.AdminComment, error) {
	var comments []*dto.AdminComment
	if err := c.do(http.MethodGet, "/api/admin/comments", nil, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}
