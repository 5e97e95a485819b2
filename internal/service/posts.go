package service

import (
	"context"
	"errors"
	"strings"

	"github.com/BloggingApp/bloghub/internal/dto"
	"github.com/BloggingApp/bloghub/internal/model"
	"github.com/BloggingApp/bloghub/internal/repository/redisrepo"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// loadPost reads a post straight from the store. Mutations never start from
// the cache since the cached copy carries no version.
func (d *deps) loadPost(ctx context.Context, id bson.ObjectID) (*model.Post, error) {
	post, err := d.repo.Article.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		d.logger.Sugar().Errorf("failed to find post(%s): %s", id.Hex(), err.Error())
		return nil, ErrInternal
	}
	post.Normalize()
	return post, nil
}

// mutatePost runs a load-mutate-save cycle. When the save loses a race the
// post is reloaded and fn is applied again, up to MaxRetries attempts. fn must
// be safe to call more than once.
func (d *deps) mutatePost(ctx context.Context, id bson.ObjectID, fn func(post *model.Post) error) (*model.Post, error) {
	for attempt := 0; attempt < d.opts.MaxRetries; attempt++ {
		post, err := d.loadPost(ctx, id)
		if err != nil {
			return nil, err
		}

		if err := fn(post); err != nil {
			return nil, err
		}

		err = d.repo.Article.Save(ctx, post)
		switch {
		case err == nil:
			d.invalidatePost(ctx, post)
			return post, nil
		case errors.Is(err, model.ErrNotFound):
			return nil, ErrPostNotFound
		case errors.Is(err, model.ErrVersionConflict):
			d.metrics.StoreConflict()
			d.logger.Sugar().Warnf("version conflict on post(%s), attempt %d", id.Hex(), attempt+1)
		default:
			d.logger.Sugar().Errorf("failed to save post(%s): %s", id.Hex(), err.Error())
			return nil, ErrInternal
		}
	}

	return nil, ErrTooManyConflicts
}

func (d *deps) invalidatePost(ctx context.Context, post *model.Post) {
	keys := []string{
		redisrepo.PostKey(post.ID.Hex()),
		redisrepo.AllPostsKey(),
		redisrepo.AuthorPostsKey(post.AuthorID.Hex()),
	}
	if err := d.repo.Redis.Invalidate(ctx, keys...); err != nil {
		d.logger.Sugar().Errorf("failed to invalidate post(%s) in redis: %s", post.ID.Hex(), err.Error())
	}
}

// cachedPosts is a read-through lookup of a post list. Redis failures are
// logged and the store is used instead.
func (d *deps) cachedPosts(ctx context.Context, key string, find func() ([]*model.Post, error)) ([]*model.Post, error) {
	cached, err := redisrepo.LookupList[model.Post](d.repo.Redis, ctx, key)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, redisrepo.ErrMiss) {
		d.logger.Sugar().Errorf("failed to get %s from redis: %s", key, err.Error())
	}

	posts, err := find()
	if err != nil {
		return nil, err
	}

	if err := d.repo.Redis.Fill(ctx, key, posts, d.opts.CacheTTL); err != nil {
		d.logger.Sugar().Errorf("failed to set %s in redis: %s", key, err.Error())
	}

	return posts, nil
}

// render expands the author reference of every post from the live user
// records. Posts whose author no longer exists fall back to the snapshot.
func (d *deps) render(ctx context.Context, posts []*model.Post) ([]*dto.PostResponse, error) {
	seen := make(map[bson.ObjectID]struct{}, len(posts))
	ids := make([]bson.ObjectID, 0, len(posts))
	for _, p := range posts {
		if _, ok := seen[p.AuthorID]; !ok {
			seen[p.AuthorID] = struct{}{}
			ids = append(ids, p.AuthorID)
		}
	}

	authors := make(map[bson.ObjectID]model.Author, len(ids))
	if len(ids) > 0 {
		users, err := d.repo.User.FindByIDs(ctx, ids)
		if err != nil {
			d.logger.Sugar().Errorf("failed to find post authors: %s", err.Error())
			return nil, ErrInternal
		}
		for _, u := range users {
			authors[u.ID] = u.Author()
		}
	}

	result := make([]*dto.PostResponse, 0, len(posts))
	for _, p := range posts {
		p.Normalize()
		author, ok := authors[p.AuthorID]
		if !ok {
			author = model.Author{ID: p.AuthorID, Name: p.AuthorName, Avatar: p.AuthorAvatar}
		}
		result = append(result, &dto.PostResponse{Post: p, Author: &author})
	}
	return result, nil
}

func (d *deps) renderOne(ctx context.Context, post *model.Post) (*dto.PostResponse, error) {
	views, err := d.render(ctx, []*model.Post{post})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

// normalizeTags trims every tag and drops empty and repeated ones.
func normalizeTags(tags []string) []string {
	result := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		result = append(result, tag)
	}
	return result
}
