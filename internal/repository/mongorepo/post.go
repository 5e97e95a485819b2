package mongorepo

import (
	"context"
	"errors"

	"github.com/BloggingApp/bloghub/internal/model"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"
)

type articleRepo struct {
	col    *mongo.Collection
	logger *zap.Logger
}

func newArticleRepo(col *mongo.Collection, logger *zap.Logger) *articleRepo {
	return &articleRepo{
		col:    col,
		logger: logger,
	}
}

func (r *articleRepo) Migrate(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "tags", Value: 1}}},
		{Keys: bson.D{{Key: "author", Value: 1}}},
	})
	return err
}

func (r *articleRepo) Create(ctx context.Context, post *model.Post) error {
	_, err := r.col.InsertOne(ctx, post)
	return err
}

func (r *articleRepo) FindByID(ctx context.Context, id bson.ObjectID) (*model.Post, error) {
	var post model.Post
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&post); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}

	post.Normalize()
	return &post, nil
}

func (r *articleRepo) FindAll(ctx context.Context) ([]*model.Post, error) {
	return r.find(ctx, bson.M{})
}

func (r *articleRepo) FindByAuthor(ctx context.Context, authorID bson.ObjectID) ([]*model.Post, error) {
	return r.find(ctx, bson.M{"author": authorID})
}

func (r *articleRepo) CountByAuthor(ctx context.Context, authorID bson.ObjectID) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{"author": authorID})
}

// Save replaces the document only while its stored version matches. It never
// upserts, so a post deleted in between is not brought back.
func (r *articleRepo) Save(ctx context.Context, post *model.Post) error {
	loaded := post.Version

	next := *post
	next.Version = loaded + 1

	result, err := r.col.ReplaceOne(ctx, bson.M{"_id": post.ID, "version": loaded}, &next)
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		count, err := r.col.CountDocuments(ctx, bson.M{"_id": post.ID})
		if err != nil {
			return err
		}
		if count == 0 {
			return model.ErrNotFound
		}
		return model.ErrVersionConflict
	}

	post.Version = next.Version
	return nil
}

func (r *articleRepo) Delete(ctx context.Context, id bson.ObjectID) error {
	result, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *articleRepo) find(ctx context.Context, filter bson.M) ([]*model.Post, error) {
	cursor, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	posts := []*model.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		r.logger.Sugar().Errorf("failed to decode posts: %s", err.Error())
		return nil, err
	}

	for _, post := range posts {
		post.Normalize()
	}

	return posts, nil
}
