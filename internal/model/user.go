package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Role string

const (
	RoleUser   Role = "user"
	RoleAdmin  Role = "admin"
	RoleBanned Role = "banned"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleBanned:
		return true
	}
	return false
}

// FollowList names one side of the mirrored follow relation.
type FollowList string

const (
	FollowingList FollowList = "following"
	FollowersList FollowList = "followers"
)

const defaultDisplayName = "User"

type User struct {
	ID           bson.ObjectID   `json:"_id" bson:"_id"`
	Name         string          `json:"name" bson:"name"`
	Email        string          `json:"email" bson:"email"`
	PasswordHash string          `json:"-" bson:"passwordHash"`
	Avatar       string          `json:"avatar" bson:"avatar"`
	Bio          string          `json:"bio" bson:"bio"`
	Role         Role            `json:"role" bson:"role"`
	Following    []bson.ObjectID `json:"following" bson:"following"`
	Followers    []bson.ObjectID `json:"followers" bson:"followers"`
	CreatedAt    time.Time       `json:"createdAt" bson:"createdAt"`
}

// Author is the expanded author reference rendered alongside posts.
type Author struct {
	ID     bson.ObjectID `json:"_id"`
	Name   string        `json:"name"`
	Avatar string        `json:"avatar"`
}

func NewUser(name, email, passwordHash string, now time.Time) *User {
	return &User{
		ID:           bson.NewObjectID(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         RoleUser,
		Following:    []bson.ObjectID{},
		Followers:    []bson.ObjectID{},
		CreatedAt:    now,
	}
}

func (u *User) DisplayName() string {
	if u.Name == "" {
		return defaultDisplayName
	}
	return u.Name
}

func (u *User) Author() Author {
	return Author{ID: u.ID, Name: u.Name, Avatar: u.Avatar}
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) IsBanned() bool {
	return u.Role == RoleBanned
}

func (u *User) IsFollowing(id bson.ObjectID) bool {
	return contains(u.Following, id)
}

func (u *User) HasFollower(id bson.ObjectID) bool {
	return contains(u.Followers, id)
}

func (u *User) Normalize() {
	if u.Following == nil {
		u.Following = []bson.ObjectID{}
	}
	if u.Followers == nil {
		u.Followers = []bson.ObjectID{}
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
}

func (u *User) Clone() *User {
	clone := *u
	clone.Following = append([]bson.ObjectID{}, u.Following...)
	clone.Followers = append([]bson.ObjectID{}, u.Followers...)
	return &clone
}

func contains(ids []bson.ObjectID, id bson.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
