package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BloggingApp/bloghub/internal/dto"
	"github.com/BloggingApp/bloghub/internal/metrics"
	"github.com/BloggingApp/bloghub/internal/model"
	"github.com/BloggingApp/bloghub/internal/repository"
	"github.com/BloggingApp/bloghub/internal/repository/memrepo"
	"github.com/BloggingApp/bloghub/internal/repository/redisrepo"
	"github.com/BloggingApp/bloghub/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

type testServer struct {
	router *gin.Engine
	repo   *repository.Repository
}

type session struct {
	token string
	user  *model.User
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memrepo.New()
	repo := repository.New(store.Articles(), store.Users(), redisrepo.Disabled())
	m := metrics.New()
	services := service.New(zap.NewNop(), repo, service.NopPublisher(), m, service.Options{
		JWTSecret: "handler-test-secret",
	})

	return &testServer{
		router: New(zap.NewNop(), services, m, nil).InitRoutes(),
		repo:   repo,
	}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) register(t *testing.T, name string) session {
	t.Helper()

	w := s.do(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		Name:     name,
		Email:    name + "@example.com",
		Password: "password1",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp dto.AuthResponse
	decode(t, w, &resp)
	return session{token: resp.Token, user: resp.User}
}

func (s *testServer) createPost(t *testing.T, author session, title, content string) bson.ObjectID {
	t.Helper()

	w := s.do(t, http.MethodPost, "/api/articles", author.token, dto.CreatePostRequest{Title: title, Content: content})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		ID bson.ObjectID `json:"_id"`
	}
	decode(t, w, &created)
	return created.ID
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func message(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp dto.MessageResponse
	decode(t, w, &resp)
	return resp.Message
}

func TestCreateAndGetPost(t *testing.T) {
	s := newTestServer(t)
	u := s.register(t, "alice")

	id := s.createPost(t, u, "Hello", "World")

	w := s.do(t, http.MethodGet, "/api/articles/"+id.Hex(), "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got struct {
		Title    string           `json:"title"`
		Content  string           `json:"content"`
		Likes    []string         `json:"likes"`
		Comments []*model.Comment `json:"comments"`
		Author   model.Author     `json:"author"`
	}
	decode(t, w, &got)

	assert.Equal(t, "Hello", got.Title)
	assert.Equal(t, "World", got.Content)
	assert.NotNil(t, got.Likes)
	assert.Empty(t, got.Likes)
	assert.NotNil(t, got.Comments)
	assert.Empty(t, got.Comments)
	assert.Equal(t, u.user.ID, got.Author.ID)
	assert.Equal(t, "alice", got.Author.Name)

	w = s.do(t, http.MethodGet, "/api/articles", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var all []map[string]interface{}
	decode(t, w, &all)
	assert.Len(t, all, 1)

	w = s.do(t, http.MethodGet, "/api/articles/my", u.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var mine []map[string]interface{}
	decode(t, w, &mine)
	assert.Len(t, mine, 1)
}

func TestCreatePostValidation(t *testing.T) {
	s := newTestServer(t)
	u := s.register(t, "alice")

	w := s.do(t, http.MethodPost, "/api/articles", u.token, dto.CreatePostRequest{Title: "", Content: "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotEmpty(t, message(t, w))

	w = s.do(t, http.MethodPost, "/api/articles", "", dto.CreatePostRequest{Title: "a", Content: "b"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/api/articles", "not-a-token", dto.CreatePostRequest{Title: "a", Content: "b"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLikeScenario(t *testing.T) {
	s := newTestServer(t)
	u := s.register(t, "alice")
	id := s.createPost(t, u, "t", "c")

	w := s.do(t, http.MethodPost, "/api/articles/"+id.Hex()+"/like", u.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"liked":true,"likesCount":1}`, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/articles/"+id.Hex()+"/like", u.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"liked":false,"likesCount":0}`, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/articles/"+bson.NewObjectID().Hex()+"/like", u.token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCommentReplyScenario(t *testing.T) {
	s := newTestServer(t)
	a := s.register(t, "alice")
	b := s.register(t, "bob")
	id := s.createPost(t, a, "t", "c")

	w := s.do(t, http.MethodPost, "/api/articles/"+id.Hex()+"/comments", a.token, dto.CreateCommentRequest{Content: "nice"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var comment model.Comment
	decode(t, w, &comment)

	w = s.do(t, http.MethodPost, fmt.Sprintf("/api/articles/%s/comments/%s/reply", id.Hex(), comment.ID.Hex()), b.token, dto.CreateCommentRequest{Content: "thanks"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var reply model.Reply
	decode(t, w, &reply)

	w = s.do(t, http.MethodGet, "/api/articles/"+id.Hex(), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got struct {
		Comments []*model.Comment `json:"comments"`
	}
	decode(t, w, &got)
	require.Len(t, got.Comments, 1)
	assert.Equal(t, "nice", got.Comments[0].Content)
	require.Len(t, got.Comments[0].Replies, 1)
	assert.Equal(t, "thanks", got.Comments[0].Replies[0].Content)

	// Only the post author may remove nested content.
	w = s.do(t, http.MethodDelete, fmt.Sprintf("/api/articles/%s/comments/%s/replies/%s", id.Hex(), comment.ID.Hex(), reply.ID.Hex()), b.token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodDelete, fmt.Sprintf("/api/articles/%s/comments/%s/replies/%s", id.Hex(), comment.ID.Hex(), reply.ID.Hex()), a.token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodDelete, fmt.Sprintf("/api/articles/%s/comments/%s", id.Hex(), comment.ID.Hex()), a.token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodDelete, fmt.Sprintf("/api/articles/%s/comments/%s", id.Hex(), comment.ID.Hex()), a.token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPost, "/api/articles/"+id.Hex()+"/comments", a.token, dto.CreateCommentRequest{Content: "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNonOwnerDeleteLeavesPostUnchanged(t *testing.T) {
	s := newTestServer(t)
	owner := s.register(t, "alice")
	other := s.register(t, "bob")
	id := s.createPost(t, owner, "keep", "me")

	w := s.do(t, http.MethodDelete, "/api/articles/"+id.Hex(), other.token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.NotEmpty(t, message(t, w))

	stored, err := s.repo.Article.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "keep", stored.Title)

	w = s.do(t, http.MethodPut, "/api/articles/"+id.Hex(), other.token, dto.EditPostRequest{Title: "x", Content: "y"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodDelete, "/api/articles/"+id.Hex(), owner.token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/articles/"+id.Hex(), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMalformedIDs(t *testing.T) {
	s := newTestServer(t)
	u := s.register(t, "alice")

	w := s.do(t, http.MethodGet, "/api/articles/not-an-id", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, errInvalidPostID.Error(), message(t, w))

	w = s.do(t, http.MethodPost, "/api/follow/xyz", u.token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, errInvalidUserID.Error(), message(t, w))
}

func TestFollowFlow(t *testing.T) {
	s := newTestServer(t)
	a := s.register(t, "alice")
	b := s.register(t, "bob")

	w := s.do(t, http.MethodPost, "/api/follow/"+a.user.ID.Hex(), a.token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/follow/"+b.user.ID.Hex(), a.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.FollowResponse
	decode(t, w, &resp)
	assert.True(t, resp.Following)
	assert.Equal(t, []bson.ObjectID{b.user.ID}, resp.User.Following)

	w = s.do(t, http.MethodGet, "/api/follow/status/"+b.user.ID.Hex(), a.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"following":true}`, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/users/me", b.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me dto.ProfileResponse
	decode(t, w, &me)
	require.Len(t, me.Followers, 1)
	assert.Equal(t, a.user.ID, me.Followers[0].ID)
}

func TestUsersRoutes(t *testing.T) {
	s := newTestServer(t)
	admin := s.register(t, "admin")
	u := s.register(t, "alice")
	require.NoError(t, s.repo.User.SetRole(context.Background(), admin.user.ID, model.RoleAdmin))

	w := s.do(t, http.MethodPut, "/api/users/me", u.token, map[string]string{"name": "Alice", "role": "admin"})
	require.Equal(t, http.StatusOK, w.Code)
	var me dto.ProfileResponse
	decode(t, w, &me)
	assert.Equal(t, "Alice", me.Name)
	assert.Equal(t, model.RoleUser, me.Role)

	w = s.do(t, http.MethodGet, "/api/users", u.token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var users []dto.AdminUserResponse
	decode(t, w, &users)
	assert.Len(t, users, 2)

	w = s.do(t, http.MethodGet, "/api/users/"+u.user.ID.Hex(), "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/admin/comments", u.token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodGet, "/api/admin/comments", admin.token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPut, "/api/users/"+u.user.ID.Hex()+"/role", u.token, dto.SetRoleRequest{Role: model.RoleAdmin})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPut, "/api/users/"+u.user.ID.Hex()+"/role", admin.token, dto.SetRoleRequest{Role: model.RoleBanned})
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/users/me", u.token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodDelete, "/api/users/"+u.user.ID.Hex(), admin.token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/users/"+u.user.ID.Hex(), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "alice")

	w := s.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "alice@example.com", Password: "password1"})
	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.AuthResponse
	decode(t, w, &resp)
	assert.NotEmpty(t, resp.Token)

	w = s.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "alice@example.com", Password: "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{"name": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequestIDAndMetrics(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(REQUEST_ID_HEADER, "abc-123")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "abc-123", w.Header().Get(REQUEST_ID_HEADER))

	w = s.do(t, http.MethodGet, "/api/articles", "", nil)
	assert.NotEmpty(t, w.Header().Get(REQUEST_ID_HEADER))

	w = s.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `route="/api/articles"`)
}
