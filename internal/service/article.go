package service

import (
	"context"
	"errors"
	"strings"

	"github.com/BloggingApp/bloghub/internal/dto"
	"github.com/BloggingApp/bloghub/internal/model"
	"github.com/BloggingApp/bloghub/internal/rabbitmq"
	"github.com/BloggingApp/bloghub/internal/repository/redisrepo"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type articleService struct {
	*deps
}

func newArticleService(d *deps) Article {
	return &articleService{
		deps: d,
	}
}

func (s *articleService) Create(ctx context.Context, author *model.User, req dto.CreatePostRequest) (*dto.PostResponse, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" || strings.TrimSpace(req.Content) == "" {
		return nil, ErrEmptyPostFields
	}

	post := model.NewPost(author, title, req.Content, strings.TrimSpace(req.Image), normalizeTags(req.Tags), s.now())
	if err := s.repo.Article.Create(ctx, post); err != nil {
		s.logger.Sugar().Errorf("failed to create user(%s) post: %s", author.ID.Hex(), err.Error())
		return nil, ErrInternal
	}

	s.invalidatePost(ctx, post)

	s.publish(ctx, rabbitmq.POST_CREATED_KEY, dto.MQPostCreatedMsg{
		PostID:    post.ID,
		UserID:    author.ID,
		PostTitle: post.Title,
		CreatedAt: post.CreatedAt,
	})

	return s.renderOne(ctx, post)
}

func (s *articleService) FindAll(ctx context.Context) ([]*dto.PostResponse, error) {
	posts, err := s.cachedPosts(ctx, redisrepo.AllPostsKey(), func() ([]*model.Post, error) {
		posts, err := s.repo.Article.FindAll(ctx)
		if err != nil {
			s.logger.Sugar().Errorf("failed to find posts: %s", err.Error())
			return nil, ErrInternal
		}
		return posts, nil
	})
	if err != nil {
		return nil, err
	}

	return s.render(ctx, posts)
}

func (s *articleService) FindByAuthor(ctx context.Context, authorID bson.ObjectID) ([]*dto.PostResponse, error) {
	posts, err := s.cachedPosts(ctx, redisrepo.AuthorPostsKey(authorID.Hex()), func() ([]*model.Post, error) {
		posts, err := s.repo.Article.FindByAuthor(ctx, authorID)
		if err != nil {
			s.logger.Sugar().Errorf("failed to find author(%s) posts: %s", authorID.Hex(), err.Error())
			return nil, ErrInternal
		}
		return posts, nil
	})
	if err != nil {
		return nil, err
	}

	return s.render(ctx, posts)
}

func (s *articleService) FindByID(ctx context.Context, id bson.ObjectID) (*dto.PostResponse, error) {
	key := redisrepo.PostKey(id.Hex())

	cachedPost, err := redisrepo.Lookup[model.Post](s.repo.Redis, ctx, key)
	if err == nil {
		return s.renderOne(ctx, cachedPost)
	}
	if !errors.Is(err, redisrepo.ErrMiss) {
		s.logger.Sugar().Errorf("failed to get post(%s) from redis: %s", id.Hex(), err.Error())
	}

	post, err := s.loadPost(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Redis.Fill(ctx, key, post, s.opts.CacheTTL); err != nil {
		s.logger.Sugar().Errorf("failed to set post(%s) in redis: %s", id.Hex(), err.Error())
	}

	return s.renderOne(ctx, post)
}

func (s *articleService) Update(ctx context.Context, actor *model.User, id bson.ObjectID, req dto.EditPostRequest) (*dto.PostResponse, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" || strings.TrimSpace(req.Content) == "" {
		return nil, ErrEmptyPostFields
	}
	tags := normalizeTags(req.Tags)

	post, err := s.mutatePost(ctx, id, func(post *model.Post) error {
		if !post.IsAuthor(actor.ID) {
			return ErrNotPostAuthor
		}
		post.Edit(title, req.Content, strings.TrimSpace(req.Image), tags)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.renderOne(ctx, post)
}

func (s *articleService) Delete(ctx context.Context, actor *model.User, id bson.ObjectID) error {
	post, err := s.loadPost(ctx, id)
	if err != nil {
		return err
	}

	if !post.IsAuthor(actor.ID) {
		return ErrNotPostAuthor
	}

	if err := s.repo.Article.Delete(ctx, id); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return ErrPostNotFound
		}
		s.logger.Sugar().Errorf("failed to delete post(%s): %s", id.Hex(), err.Error())
		return ErrInternal
	}

	s.invalidatePost(ctx, post)

	return nil
}

func (s *articleService) ToggleLike(ctx context.Context, actor *model.User, id bson.ObjectID) (*dto.LikeResponse, error) {
	var resp dto.LikeResponse
	_, err := s.mutatePost(ctx, id, func(post *model.Post) error {
		resp.Liked, resp.LikesCount = post.ToggleLike(actor.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.LikeToggled(resp.Liked)

	return &resp, nil
}
