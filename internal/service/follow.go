package service

import (
	"context"
	"errors"

	"github.com/BloggingApp/bloghub/internal/dto"
	"github.com/BloggingApp/bloghub/internal/model"
	"github.com/BloggingApp/bloghub/internal/rabbitmq"
	"go.mongodb.org/mongo-driver/v2/bson"
	"golang.org/x/sync/errgroup"
)

type followService struct {
	*deps
}

func newFollowService(d *deps) Follow {
	return &followService{
		deps: d,
	}
}

// Toggle flips the follow relation from actor to target. The actor's own
// following list decides the current state; the two mirrored writes run
// concurrently and are not transactional.
func (s *followService) Toggle(ctx context.Context, actor *model.User, targetID bson.ObjectID) (*dto.FollowResponse, error) {
	if actor.ID == targetID {
		return nil, ErrSelfFollow
	}

	if _, err := s.repo.User.FindByID(ctx, targetID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Sugar().Errorf("failed to find user(%s): %s", targetID.Hex(), err.Error())
		return nil, ErrInternal
	}

	current, err := s.findUser(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	following := current.IsFollowing(targetID)

	g, gctx := errgroup.WithContext(ctx)
	if following {
		g.Go(func() error {
			return s.repo.User.PullFromFollowList(gctx, actor.ID, model.FollowingList, targetID)
		})
		g.Go(func() error {
			return s.repo.User.PullFromFollowList(gctx, targetID, model.FollowersList, actor.ID)
		})
	} else {
		g.Go(func() error {
			return s.repo.User.AddToFollowList(gctx, actor.ID, model.FollowingList, targetID)
		})
		g.Go(func() error {
			return s.repo.User.AddToFollowList(gctx, targetID, model.FollowersList, actor.ID)
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Sugar().Errorf("failed to toggle follow user(%s) -> user(%s): %s", actor.ID.Hex(), targetID.Hex(), err.Error())
		return nil, ErrInternal
	}

	s.invalidateUsers(ctx, actor.ID, targetID)

	updated, err := s.findUser(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	s.metrics.FollowToggled(!following)
	s.publish(ctx, rabbitmq.USER_FOLLOWED_KEY, dto.MQUserFollowedMsg{
		FollowerID: actor.ID,
		FolloweeID: targetID,
		Following:  !following,
		CreatedAt:  s.now(),
	})

	return &dto.FollowResponse{
		Following: !following,
		User: dto.FollowLists{
			ID:        updated.ID,
			Following: updated.Following,
			Followers: updated.Followers,
		},
	}, nil
}

func (s *followService) Status(ctx context.Context, actor *model.User, targetID bson.ObjectID) (*dto.FollowStatusResponse, error) {
	current, err := s.findUser(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	return &dto.FollowStatusResponse{
		Following: current.IsFollowing(targetID),
	}, nil
}

// findUser reads the user from the store, bypassing the cache, since follow
// lists must reflect the latest writes.
func (s *followService) findUser(ctx context.Context, id bson.ObjectID) (*model.User, error) {
	user, err := s.repo.User.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Sugar().Errorf("failed to find user(%s): %s", id.Hex(), err.Error())
		return nil, ErrInternal
	}
	user.Normalize()
	return user, nil
}
