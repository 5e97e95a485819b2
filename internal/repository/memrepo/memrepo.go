// Package memrepo keeps articles and users in process memory. It backs the
// "memory" storage driver and gives tests a store with the same semantics as
// the database backends, version checks included.
package memrepo

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/BloggingApp/bloghub/internal/model"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type Store struct {
	mu    sync.RWMutex
	posts map[bson.ObjectID]*model.Post
	users map[bson.ObjectID]*model.User
}

func New() *Store {
	return &Store{
		posts: make(map[bson.ObjectID]*model.Post),
		users: make(map[bson.ObjectID]*model.User),
	}
}

func (s *Store) Articles() *ArticleRepo {
	return &ArticleRepo{s: s}
}

func (s *Store) Users() *UserRepo {
	return &UserRepo{s: s}
}

type ArticleRepo struct {
	s *Store
}

func (r *ArticleRepo) Migrate(ctx context.Context) error {
	return nil
}

func (r *ArticleRepo) Create(ctx context.Context, post *model.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.posts[post.ID]; ok {
		return fmt.Errorf("post %s already exists", post.ID.Hex())
	}
	r.s.posts[post.ID] = post.Clone()
	return nil
}

func (r *ArticleRepo) FindByID(ctx context.Context, id bson.ObjectID) (*model.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	post, ok := r.s.posts[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return post.Clone(), nil
}

func (r *ArticleRepo) FindAll(ctx context.Context) ([]*model.Post, error) {
	return r.filter(func(*model.Post) bool { return true }), nil
}

func (r *ArticleRepo) FindByAuthor(ctx context.Context, authorID bson.ObjectID) ([]*model.Post, error) {
	return r.filter(func(p *model.Post) bool { return p.AuthorID == authorID }), nil
}

func (r *ArticleRepo) CountByAuthor(ctx context.Context, authorID bson.ObjectID) (int64, error) {
	posts, _ := r.FindByAuthor(ctx, authorID)
	return int64(len(posts)), nil
}

func (r *ArticleRepo) Save(ctx context.Context, post *model.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.posts[post.ID]
	if !ok {
		return model.ErrNotFound
	}
	if stored.Version != post.Version {
		return model.ErrVersionConflict
	}

	post.Version++
	r.s.posts[post.ID] = post.Clone()
	return nil
}

func (r *ArticleRepo) Delete(ctx context.Context, id bson.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.posts[id]; !ok {
		return model.ErrNotFound
	}
	delete(r.s.posts, id)
	return nil
}

func (r *ArticleRepo) filter(keep func(*model.Post) bool) []*model.Post {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	posts := []*model.Post{}
	for _, p := range r.s.posts {
		if keep(p) {
			posts = append(posts, p.Clone())
		}
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts
}

type UserRepo struct {
	s *Store
}

func (r *UserRepo) Migrate(ctx context.Context) error {
	return nil
}

func (r *UserRepo) Create(ctx context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == user.Email {
			return model.ErrDuplicateEmail
		}
	}
	r.s.users[user.ID] = user.Clone()
	return nil
}

func (r *UserRepo) FindByID(ctx context.Context, id bson.ObjectID) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	user, ok := r.s.users[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return user.Clone(), nil
}

func (r *UserRepo) FindByIDs(ctx context.Context, ids []bson.ObjectID) ([]*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	users := []*model.User{}
	for _, id := range ids {
		if u, ok := r.s.users[id]; ok {
			users = append(users, u.Clone())
		}
	}
	return users, nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Email == email {
			return u.Clone(), nil
		}
	}
	return nil, model.ErrNotFound
}

func (r *UserRepo) FindAll(ctx context.Context) ([]*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	users := make([]*model.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		users = append(users, u.Clone())
	}

	sort.SliceStable(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	return users, nil
}

func (r *UserRepo) Update(ctx context.Context, id bson.ObjectID, updates map[string]interface{}) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.users[id]
	if !ok {
		return nil, model.ErrNotFound
	}

	user := stored.Clone()
	for field, value := range updates {
		s, isString := value.(string)
		if !isString {
			return nil, fmt.Errorf("field %s must be a string", field)
		}
		switch field {
		case "name":
			user.Name = s
		case "avatar":
			user.Avatar = s
		case "bio":
			user.Bio = s
		default:
			return nil, fmt.Errorf("field %s is not allowed to update", field)
		}
	}

	r.s.users[id] = user
	return user.Clone(), nil
}

func (r *UserRepo) SetRole(ctx context.Context, id bson.ObjectID, role model.Role) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	user, ok := r.s.users[id]
	if !ok {
		return model.ErrNotFound
	}
	user.Role = role
	return nil
}

func (r *UserRepo) Delete(ctx context.Context, id bson.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return model.ErrNotFound
	}
	delete(r.s.users, id)
	return nil
}

func (r *UserRepo) AddToFollowList(ctx context.Context, id bson.ObjectID, list model.FollowList, otherID bson.ObjectID) error {
	return r.updateFollowList(id, list, func(ids []bson.ObjectID) []bson.ObjectID {
		for _, v := range ids {
			if v == otherID {
				return ids
			}
		}
		return append(ids, otherID)
	})
}

func (r *UserRepo) PullFromFollowList(ctx context.Context, id bson.ObjectID, list model.FollowList, otherID bson.ObjectID) error {
	return r.updateFollowList(id, list, func(ids []bson.ObjectID) []bson.ObjectID {
		out := ids[:0]
		for _, v := range ids {
			if v != otherID {
				out = append(out, v)
			}
		}
		return out
	})
}

// Missing users are ignored, matching an update that matches no document.
func (r *UserRepo) updateFollowList(id bson.ObjectID, list model.FollowList, fn func([]bson.ObjectID) []bson.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	user, ok := r.s.users[id]
	if !ok {
		return nil
	}

	switch list {
	case model.FollowingList:
		user.Following = fn(user.Following)
	case model.FollowersList:
		user.Followers = fn(user.Followers)
	default:
		return fmt.Errorf("unknown follow list %q", list)
	}
	return nil
}
