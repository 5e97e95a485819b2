package mongorepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/BloggingApp/bloghub/internal/model"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"
)

var ErrFieldsNotAllowedToUpdate = errors.New("fields not allowed to update")

var allowedUpdateFields = map[string]struct{}{
	"name":   {},
	"avatar": {},
	"bio":    {},
}

type userRepo struct {
	col    *mongo.Collection
	logger *zap.Logger
}

func newUserRepo(col *mongo.Collection, logger *zap.Logger) *userRepo {
	return &userRepo{
		col:    col,
		logger: logger,
	}
}

func (r *userRepo) Migrate(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	if _, err := r.col.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return model.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *userRepo) FindByID(ctx context.Context, id bson.ObjectID) (*model.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *userRepo) FindByIDs(ctx context.Context, ids []bson.ObjectID) ([]*model.User, error) {
	if len(ids) == 0 {
		return []*model.User{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *userRepo) FindAll(ctx context.Context) ([]*model.User, error) {
	return r.find(ctx, bson.M{})
}

func (r *userRepo) Update(ctx context.Context, id bson.ObjectID, updates map[string]interface{}) (*model.User, error) {
	if len(updates) == 0 {
		return r.FindByID(ctx, id)
	}

	set := bson.M{}
	for field, value := range updates {
		if _, ok := allowedUpdateFields[field]; !ok {
			return nil, ErrFieldsNotAllowedToUpdate
		}
		set[field] = value
	}

	var user model.User
	err := r.col.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}

	user.Normalize()
	return &user, nil
}

func (r *userRepo) SetRole(ctx context.Context, id bson.ObjectID, role model.Role) error {
	result, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"role": role}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *userRepo) Delete(ctx context.Context, id bson.ObjectID) error {
	result, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *userRepo) AddToFollowList(ctx context.Context, id bson.ObjectID, list model.FollowList, otherID bson.ObjectID) error {
	return r.updateFollowList(ctx, id, "$addToSet", list, otherID)
}

func (r *userRepo) PullFromFollowList(ctx context.Context, id bson.ObjectID, list model.FollowList, otherID bson.ObjectID) error {
	return r.updateFollowList(ctx, id, "$pull", list, otherID)
}

func (r *userRepo) updateFollowList(ctx context.Context, id bson.ObjectID, op string, list model.FollowList, otherID bson.ObjectID) error {
	if list != model.FollowingList && list != model.FollowersList {
		return fmt.Errorf("unknown follow list %q", list)
	}

	_, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{op: bson.M{string(list): otherID}})
	return err
}

func (r *userRepo) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	var user model.User
	if err := r.col.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}

	user.Normalize()
	return &user, nil
}

func (r *userRepo) find(ctx context.Context, filter bson.M) ([]*model.User, error) {
	cursor, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := []*model.User{}
	if err := cursor.All(ctx, &users); err != nil {
		r.logger.Sugar().Errorf("failed to decode users: %s", err.Error())
		return nil, err
	}

	for _, user := range users {
		user.Normalize()
	}

	return users, nil
}
