package dto

import (
	"time"

	"github.com/BloggingApp/bloghub/internal/model"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

type UpdateProfileRequest struct {
	Name   *string `json:"name"`
	Avatar *string `json:"avatar"`
	Bio    *string `json:"bio"`
}

type SetRoleRequest struct {
	Role model.Role `json:"role" binding:"required"`
}

// ProfileResponse is the caller's own profile with follow lists expanded.
type ProfileResponse struct {
	ID        bson.ObjectID  `json:"_id"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Avatar    string         `json:"avatar"`
	Bio       string         `json:"bio"`
	Role      model.Role     `json:"role"`
	IsAdmin   bool           `json:"isAdmin"`
	Following []model.Author `json:"following"`
	Followers []model.Author `json:"followers"`
	CreatedAt time.Time      `json:"createdAt"`
}

type PublicProfileResponse struct {
	ID             bson.ObjectID `json:"_id"`
	Name           string        `json:"name"`
	Avatar         string        `json:"avatar"`
	Bio            string        `json:"bio"`
	FollowerCount  int           `json:"followerCount"`
	FollowingCount int           `json:"followingCount"`
	CreatedAt      time.Time     `json:"createdAt"`
}

type AdminUserResponse struct {
	ID             bson.ObjectID `json:"_id"`
	Name           string        `json:"name"`
	Email          string        `json:"email"`
	Avatar         string        `json:"avatar"`
	Bio            string        `json:"bio"`
	Role           model.Role    `json:"role"`
	CreatedAt      time.Time     `json:"createdAt"`
	FollowerCount  int           `json:"followerCount"`
	FollowingCount int           `json:"followingCount"`
	ArticleCount   int64         `json:"articleCount"`
}
