package repository

import (
	"context"

	"github.com/BloggingApp/bloghub/internal/model"
	"github.com/BloggingApp/bloghub/internal/repository/redisrepo"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Article is implemented by every storage backend. Save only succeeds when the
// stored version still matches post.Version and returns model.ErrVersionConflict
// otherwise; a missing document yields model.ErrNotFound.
type Article interface {
	Migrate(ctx context.Context) error
	Create(ctx context.Context, post *model.Post) error
	FindByID(ctx context.Context, id bson.ObjectID) (*model.Post, error)
	FindAll(ctx context.Context) ([]*model.Post, error)
	FindByAuthor(ctx context.Context, authorID bson.ObjectID) ([]*model.Post, error)
	CountByAuthor(ctx context.Context, authorID bson.ObjectID) (int64, error)
	Save(ctx context.Context, post *model.Post) error
	Delete(ctx context.Context, id bson.ObjectID) error
}

type User interface {
	Migrate(ctx context.Context) error
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id bson.ObjectID) (*model.User, error)
	FindByIDs(ctx context.Context, ids []bson.ObjectID) ([]*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindAll(ctx context.Context) ([]*model.User, error)
	Update(ctx context.Context, id bson.ObjectID, updates map[string]interface{}) (*model.User, error)
	SetRole(ctx context.Context, id bson.ObjectID, role model.Role) error
	Delete(ctx context.Context, id bson.ObjectID) error
	AddToFollowList(ctx context.Context, id bson.ObjectID, list model.FollowList, otherID bson.ObjectID) error
	PullFromFollowList(ctx context.Context, id bson.ObjectID, list model.FollowList, otherID bson.ObjectID) error
}

type Repository struct {
	Article Article
	User    User
	Redis   *redisrepo.RedisRepository
}

func New(article Article, user User, redis *redisrepo.RedisRepository) *Repository {
	return &Repository{
		Article: article,
		User:    user,
		Redis:   redis,
	}
}

func (r *Repository) Migrate(ctx context.Context) error {
	if err := r.Article.Migrate(ctx); err != nil {
		return err
	}
	return r.User.Migrate(ctx)
}
