package mongorepo

import (
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.uber.org/zap"
)

const (
	postsCollection = "posts"
	usersCollection = "users"
)

type MongoRepository struct {
	Article *articleRepo
	User    *userRepo
}

func New(db *mongo.Database, logger *zap.Logger) *MongoRepository {
	return &MongoRepository{
		Article: newArticleRepo(db.Collection(postsCollection), logger),
		User:    newUserRepo(db.Collection(usersCollection), logger),
	}
}
