package service

import (
	"context"
	"time"

	"github.com/BloggingApp/bloghub/internal/dto"
	"github.com/BloggingApp/bloghub/internal/metrics"
	"github.com/BloggingApp/bloghub/internal/model"
	"github.com/BloggingApp/bloghub/internal/repository"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

const (
	DEFAULT_CACHE_TTL   = time.Hour
	DEFAULT_MAX_RETRIES = 3
	DEFAULT_TOKEN_TTL   = 7 * 24 * time.Hour
)

type Article interface {
	Create(ctx context.Context, author *model.User, req dto.CreatePostRequest) (*dto.PostResponse, error)
	FindAll(ctx context.Context) ([]*dto.PostResponse, error)
	FindByAuthor(ctx context.Context, authorID bson.ObjectID) ([]*dto.PostResponse, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*dto.PostResponse, error)
	Update(ctx context.Context, actor *model.User, id bson.ObjectID, req dto.EditPostRequest) (*dto.PostResponse, error)
	Delete(ctx context.Context, actor *model.User, id bson.ObjectID) error
	ToggleLike(ctx context.Context, actor *model.User, id bson.ObjectID) (*dto.LikeResponse, error)
}

type Comment interface {
	Create(ctx context.Context, actor *model.User, postID bson.ObjectID, req dto.CreateCommentRequest) (*model.Comment, error)
	Reply(ctx context.Context, actor *model.User, postID, commentID bson.ObjectID, req dto.CreateCommentRequest) (*model.Reply, error)
	Delete(ctx context.Context, actor *model.User, postID, commentID bson.ObjectID) error
	DeleteReply(ctx context.Context, actor *model.User, postID, commentID, replyID bson.ObjectID) error
	FindAll(ctx context.Context) ([]*dto.AdminComment, error)
}

type User interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error)
	Authenticate(ctx context.Context, token string) (*model.User, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*model.User, error)
	Me(ctx context.Context, user *model.User) (*dto.ProfileResponse, error)
	UpdateMe(ctx context.Context, user *model.User, req dto.UpdateProfileRequest) (*dto.ProfileResponse, error)
	Profile(ctx context.Context, id bson.ObjectID) (*dto.PublicProfileResponse, error)
	FindAll(ctx context.Context) ([]*dto.AdminUserResponse, error)
	SetRole(ctx context.Context, actor *model.User, id bson.ObjectID, role model.Role) error
	Delete(ctx context.Context, actor *model.User, id bson.ObjectID) error
}

type Follow interface {
	Toggle(ctx context.Context, actor *model.User, targetID bson.ObjectID) (*dto.FollowResponse, error)
	Status(ctx context.Context, actor *model.User, targetID bson.ObjectID) (*dto.FollowStatusResponse, error)
}

// Publisher sends domain events. *rabbitmq.MQConn satisfies it.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, v interface{}) error
}

type nopPublisher struct{}

func (nopPublisher) Publish(ctx context.Context, routingKey string, v interface{}) error {
	return nil
}

func NopPublisher() Publisher {
	return nopPublisher{}
}

type Options struct {
	JWTSecret  string
	TokenTTL   time.Duration
	CacheTTL   time.Duration
	MaxRetries int
}

func (o *Options) setDefaults() {
	if o.TokenTTL <= 0 {
		o.TokenTTL = DEFAULT_TOKEN_TTL
	}
	if o.CacheTTL <= 0 {
		o.CacheTTL = DEFAULT_CACHE_TTL
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = DEFAULT_MAX_RETRIES
	}
}

type Service struct {
	Article
	Comment
	User
	Follow
}

// deps is shared by every service implementation.
type deps struct {
	logger    *zap.Logger
	repo      *repository.Repository
	publisher Publisher
	metrics   *metrics.Metrics
	opts      Options
	now       func() time.Time
}

func New(logger *zap.Logger, repo *repository.Repository, publisher Publisher, m *metrics.Metrics, opts Options) *Service {
	if publisher == nil {
		publisher = NopPublisher()
	}
	opts.setDefaults()

	d := &deps{
		logger:    logger,
		repo:      repo,
		publisher: publisher,
		metrics:   m,
		opts:      opts,
		now: func() time.Time {
			return time.Now().UTC()
		},
	}

	return &Service{
		Article: newArticleService(d),
		Comment: newCommentService(d),
		User:    newUserService(d),
		Follow:  newFollowService(d),
	}
}

func (d *deps) publish(ctx context.Context, routingKey string, v interface{}) {
	if err := d.publisher.Publish(ctx, routingKey, v); err != nil {
		d.logger.Sugar().Errorf("failed to publish %s event: %s", routingKey, err.Error())
	}
}
