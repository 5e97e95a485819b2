package service

import (
	"context"
	"errors"
	"strings"

	"github.com/BloggingApp/bloghub/internal/dto"
	"github.com/BloggingApp/bloghub/internal/model"
	"github.com/BloggingApp/bloghub/internal/repository/redisrepo"
	"github.com/BloggingApp/bloghub/pkg/utils"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const MIN_PASSWORD_LENGTH = 6

var (
	ErrShortPassword = validationError("password must be at least %d characters", MIN_PASSWORD_LENGTH)
	ErrInvalidToken  = unauthorizedError("invalid or expired token")
	ErrBanned        = forbiddenError("your account has been banned")
)

type userService struct {
	*deps
}

func newUserService(d *deps) User {
	return &userService{
		deps: d,
	}
}

func (s *userService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if len(req.Password) < MIN_PASSWORD_LENGTH {
		return nil, ErrShortPassword
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		s.logger.Sugar().Errorf("failed to hash password: %s", err.Error())
		return nil, ErrInternal
	}

	user := model.NewUser(name, normalizeEmail(req.Email), hash, s.now())
	if err := s.repo.User.Create(ctx, user); err != nil {
		if errors.Is(err, model.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		s.logger.Sugar().Errorf("failed to create user(%s): %s", user.Email, err.Error())
		return nil, ErrInternal
	}

	return s.issueToken(user)
}

func (s *userService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.repo.User.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Sugar().Errorf("failed to find user by email(%s): %s", req.Email, err.Error())
		return nil, ErrInternal
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}
	if user.IsBanned() {
		return nil, ErrBanned
	}

	return s.issueToken(user)
}

func (s *userService) issueToken(user *model.User) (*dto.AuthResponse, error) {
	token, err := utils.NewAccessToken([]byte(s.opts.JWTSecret), user.ID.Hex(), string(user.Role), s.opts.TokenTTL)
	if err != nil {
		s.logger.Sugar().Errorf("failed to sign token for user(%s): %s", user.ID.Hex(), err.Error())
		return nil, ErrInternal
	}

	user.Normalize()
	return &dto.AuthResponse{
		Token: token,
		User:  user,
	}, nil
}

// Authenticate resolves a bearer token to the live user record. The role claim
// is informational only; bans take effect on the next request.
func (s *userService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	claims, err := utils.DecodeJWT(token, []byte(s.opts.JWTSecret))
	if err != nil {
		return nil, ErrInvalidToken
	}

	idHex, ok := claims["id"].(string)
	if !ok {
		return nil, ErrInvalidToken
	}
	id, err := bson.ObjectIDFromHex(idHex)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.FindByID(ctx, id)
	if err != nil {
		if KindOf(err) == KindNotFound {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	if user.IsBanned() {
		return nil, ErrBanned
	}

	return user, nil
}

func (s *userService) FindByID(ctx context.Context, id bson.ObjectID) (*model.User, error) {
	key := redisrepo.UserKey(id.Hex())

	cachedUser, err := redisrepo.Lookup[model.User](s.repo.Redis, ctx, key)
	if err == nil {
		cachedUser.Normalize()
		return cachedUser, nil
	}
	if !errors.Is(err, redisrepo.ErrMiss) {
		s.logger.Sugar().Errorf("failed to get user(%s) from redis: %s", id.Hex(), err.Error())
	}

	user, err := s.repo.User.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Sugar().Errorf("failed to find user(%s): %s", id.Hex(), err.Error())
		return nil, ErrInternal
	}
	user.Normalize()

	if err := s.repo.Redis.Fill(ctx, key, user, s.opts.CacheTTL); err != nil {
		s.logger.Sugar().Errorf("failed to set user(%s) in redis: %s", id.Hex(), err.Error())
	}

	return user, nil
}

func (s *userService) Me(ctx context.Context, user *model.User) (*dto.ProfileResponse, error) {
	fresh, err := s.repo.User.FindByID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Sugar().Errorf("failed to find user(%s): %s", user.ID.Hex(), err.Error())
		return nil, ErrInternal
	}
	fresh.Normalize()

	return s.profile(ctx, fresh)
}

func (s *userService) UpdateMe(ctx context.Context, user *model.User, req dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	updates := make(map[string]interface{})
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrEmptyName
		}
		updates["name"] = name
	}
	if req.Avatar != nil {
		updates["avatar"] = strings.TrimSpace(*req.Avatar)
	}
	if req.Bio != nil {
		updates["bio"] = *req.Bio
	}

	if len(updates) == 0 {
		return s.Me(ctx, user)
	}

	updated, err := s.repo.User.Update(ctx, user.ID, updates)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Sugar().Errorf("failed to update user(%s): %s", user.ID.Hex(), err.Error())
		return nil, ErrInternal
	}
	updated.Normalize()

	s.invalidateUsers(ctx, user.ID)

	return s.profile(ctx, updated)
}

func (s *userService) profile(ctx context.Context, user *model.User) (*dto.ProfileResponse, error) {
	following, err := s.authors(ctx, user.Following)
	if err != nil {
		return nil, err
	}
	followers, err := s.authors(ctx, user.Followers)
	if err != nil {
		return nil, err
	}

	return &dto.ProfileResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Avatar:    user.Avatar,
		Bio:       user.Bio,
		Role:      user.Role,
		IsAdmin:   user.IsAdmin(),
		Following: following,
		Followers: followers,
		CreatedAt: user.CreatedAt,
	}, nil
}

// authors expands ids to author references, dropping users that no longer exist.
func (s *userService) authors(ctx context.Context, ids []bson.ObjectID) ([]model.Author, error) {
	result := []model.Author{}
	if len(ids) == 0 {
		return result, nil
	}

	users, err := s.repo.User.FindByIDs(ctx, ids)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find users by ids: %s", err.Error())
		return nil, ErrInternal
	}

	byID := make(map[bson.ObjectID]*model.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			result = append(result, u.Author())
		}
	}
	return result, nil
}

func (s *userService) Profile(ctx context.Context, id bson.ObjectID) (*dto.PublicProfileResponse, error) {
	user, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &dto.PublicProfileResponse{
		ID:             user.ID,
		Name:           user.Name,
		Avatar:         user.Avatar,
		Bio:            user.Bio,
		FollowerCount:  len(user.Followers),
		FollowingCount: len(user.Following),
		CreatedAt:      user.CreatedAt,
	}, nil
}

func (s *userService) FindAll(ctx context.Context) ([]*dto.AdminUserResponse, error) {
	users, err := s.repo.User.FindAll(ctx)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find users: %s", err.Error())
		return nil, ErrInternal
	}

	result := make([]*dto.AdminUserResponse, 0, len(users))
	for _, u := range users {
		u.Normalize()

		articleCount, err := s.repo.Article.CountByAuthor(ctx, u.ID)
		if err != nil {
			s.logger.Sugar().Errorf("failed to count user(%s) posts: %s", u.ID.Hex(), err.Error())
			return nil, ErrInternal
		}

		result = append(result, &dto.AdminUserResponse{
			ID:             u.ID,
			Name:           u.Name,
			Email:          u.Email,
			Avatar:         u.Avatar,
			Bio:            u.Bio,
			Role:           u.Role,
			CreatedAt:      u.CreatedAt,
			FollowerCount:  len(u.Followers),
			FollowingCount: len(u.Following),
			ArticleCount:   articleCount,
		})
	}

	return result, nil
}

func (s *userService) SetRole(ctx context.Context, actor *model.User, id bson.ObjectID, role model.Role) error {
	if !role.Valid() {
		return ErrInvalidRole
	}
	if actor.ID == id {
		return ErrOwnRole
	}

	if err := s.repo.User.SetRole(ctx, id, role); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return ErrUserNotFound
		}
		s.logger.Sugar().Errorf("failed to set user(%s) role: %s", id.Hex(), err.Error())
		return ErrInternal
	}

	s.invalidateUsers(ctx, id)

	return nil
}

// Delete removes the account only. Posts and follow references to the user are
// left in place; readers fall back to the author snapshot.
func (s *userService) Delete(ctx context.Context, actor *model.User, id bson.ObjectID) error {
	if actor.ID == id {
		return validationError("you cannot delete your own account")
	}

	if err := s.repo.User.Delete(ctx, id); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return ErrUserNotFound
		}
		s.logger.Sugar().Errorf("failed to delete user(%s): %s", id.Hex(), err.Error())
		return ErrInternal
	}

	s.invalidateUsers(ctx, id)

	return nil
}

func (d *deps) invalidateUsers(ctx context.Context, ids ...bson.ObjectID) {
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, redisrepo.UserKey(id.Hex()))
	}
	if err := d.repo.Redis.Invalidate(ctx, keys...); err != nil {
		d.logger.Sugar().Errorf("failed to invalidate users in redis: %s", err.Error())
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
