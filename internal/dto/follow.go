package dto

import "go.mongodb.org/mongo-driver/v2/bson"

type FollowLists struct {
	ID        bson.ObjectID   `json:"_id"`
	Following []bson.ObjectID `json:"following"`
	Followers []bson.ObjectID `json:"followers"`
}

type FollowResponse struct {
	Following bool        `json:"following"`
	User      FollowLists `json:"user"`
}

type FollowStatusResponse struct {
	Following bool `json:"following"`
}
