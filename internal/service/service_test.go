package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/BloggingApp/bloghub/internal/dto"
	"github.com/BloggingApp/bloghub/internal/metrics"
	"github.com/BloggingApp/bloghub/internal/model"
	"github.com/BloggingApp/bloghub/internal/repository"
	"github.com/BloggingApp/bloghub/internal/repository/memrepo"
	"github.com/BloggingApp/bloghub/internal/repository/redisrepo"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) Publish(ctx context.Context, routingKey string, v interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, routingKey)
	return nil
}

func (p *recordingPublisher) Events() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string{}, p.events...)
}

type testEnv struct {
	store     *memrepo.Store
	repo      *repository.Repository
	publisher *recordingPublisher
	svc       *Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithCache(t, redisrepo.Disabled())
}

func newTestEnvWithCache(t *testing.T, cache *redisrepo.RedisRepository) *testEnv {
	t.Helper()

	store := memrepo.New()
	repo := repository.New(store.Articles(), store.Users(), cache)
	publisher := &recordingPublisher{}

	return &testEnv{
		store:     store,
		repo:      repo,
		publisher: publisher,
		svc: New(zap.NewNop(), repo, publisher, metrics.New(), Options{
			JWTSecret: testSecret,
		}),
	}
}

// user registers a user straight in the store. Creation times are spaced so
// that ordering is deterministic.
func (e *testEnv) user(t *testing.T, name string) *model.User {
	t.Helper()

	u := model.NewUser(name, name+"@example.com", "", time.Now().UTC())
	require.NoError(t, e.repo.User.Create(context.Background(), u))
	return u
}

func (e *testEnv) post(t *testing.T, author *model.User, title string) *dto.PostResponse {
	t.Helper()

	post, err := e.svc.Article.Create(context.Background(), author, dto.CreatePostRequest{
		Title:   title,
		Content: "body of " + title,
	})
	require.NoError(t, err)
	return post
}

func requireKind(t *testing.T, err error, kind Kind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, KindOf(err), "unexpected error: %v", err)
}
