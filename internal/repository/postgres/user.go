package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/BloggingApp/bloghub/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

const usersSchema = `
CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	avatar        TEXT NOT NULL DEFAULT '',
	bio           TEXT NOT NULL DEFAULT '',
	role          TEXT NOT NULL DEFAULT 'user',
	following     TEXT[] NOT NULL DEFAULT '{}',
	followers     TEXT[] NOT NULL DEFAULT '{}',
	created_at    TIMESTAMPTZ NOT NULL
);
`

const userColumns = "u.id, u.name, u.email, u.password_hash, u.avatar, u.bio, u.role, u.following, u.followers, u.created_at"

const uniqueViolation = "23505"

var allowedUpdateFields = []string{"name", "avatar", "bio"}

type userRepo struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func newUserRepo(db *pgxpool.Pool, logger *zap.Logger) *userRepo {
	return &userRepo{
		db:     db,
		logger: logger,
	}
}

func (r *userRepo) Migrate(ctx context.Context) error {
	_, err := r.db.Exec(ctx, usersSchema)
	return err
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	_, err := r.db.Exec(
		ctx,
		"INSERT INTO users(id, name, email, password_hash, avatar, bio, role, following, followers, created_at) VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)",
		user.ID.Hex(),
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Avatar,
		user.Bio,
		string(user.Role),
		hexes(user.Following),
		hexes(user.Followers),
		user.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return model.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *userRepo) FindByID(ctx context.Context, id bson.ObjectID) (*model.User, error) {
	return r.findOne(ctx, "SELECT "+userColumns+" FROM users u WHERE u.id = $1", id.Hex())
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, "SELECT "+userColumns+" FROM users u WHERE u.email = $1", email)
}

func (r *userRepo) FindByIDs(ctx context.Context, ids []bson.ObjectID) ([]*model.User, error) {
	if len(ids) == 0 {
		return []*model.User{}, nil
	}
	return r.findMany(ctx, "SELECT "+userColumns+" FROM users u WHERE u.id = ANY($1)", hexes(ids))
}

func (r *userRepo) FindAll(ctx context.Context) ([]*model.User, error) {
	return r.findMany(ctx, "SELECT "+userColumns+" FROM users u ORDER BY u.created_at DESC")
}

func (r *userRepo) Update(ctx context.Context, id bson.ObjectID, updates map[string]interface{}) (*model.User, error) {
	if len(updates) == 0 {
		return r.FindByID(ctx, id)
	}

	allowedFieldsSet := make(map[string]struct{}, len(allowedUpdateFields))
	for _, field := range allowedUpdateFields {
		allowedFieldsSet[field] = struct{}{}
	}

	for field := range updates {
		if _, ok := allowedFieldsSet[field]; !ok {
			return nil, ErrFieldsNotAllowedToUpdate
		}
	}

	query := "UPDATE users SET "
	args := []interface{}{}
	i := 1

	for column, value := range updates {
		query += (column + " = $" + strconv.Itoa(i) + ", ")
		args = append(args, value)
		i++
	}

	query = query[:len(query)-2] + " WHERE id = $" + strconv.Itoa(i)
	args = append(args, id.Hex())

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, model.ErrNotFound
	}

	return r.FindByID(ctx, id)
}

func (r *userRepo) SetRole(ctx context.Context, id bson.ObjectID, role model.Role) error {
	tag, err := r.db.Exec(ctx, "UPDATE users SET role = $1 WHERE id = $2", string(role), id.Hex())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *userRepo) Delete(ctx context.Context, id bson.ObjectID) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM users WHERE id = $1", id.Hex())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *userRepo) AddToFollowList(ctx context.Context, id bson.ObjectID, list model.FollowList, otherID bson.ObjectID) error {
	column, err := followColumn(list)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(
		ctx,
		fmt.Sprintf("UPDATE users SET %[1]s = array_append(%[1]s, $2) WHERE id = $1 AND NOT ($2 = ANY(%[1]s))", column),
		id.Hex(),
		otherID.Hex(),
	)
	return err
}

func (r *userRepo) PullFromFollowList(ctx context.Context, id bson.ObjectID, list model.FollowList, otherID bson.ObjectID) error {
	column, err := followColumn(list)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(
		ctx,
		fmt.Sprintf("UPDATE users SET %[1]s = array_remove(%[1]s, $2) WHERE id = $1", column),
		id.Hex(),
		otherID.Hex(),
	)
	return err
}

func (r *userRepo) findOne(ctx context.Context, sql string, args ...interface{}) (*model.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *userRepo) findMany(ctx context.Context, sql string, args ...interface{}) ([]*model.User, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []*model.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

func scanUser(row pgx.Row) (*model.User, error) {
	var (
		id        string
		role      string
		following []string
		followers []string
		createdAt time.Time
		user      model.User
	)
	if err := row.Scan(
		&id,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Avatar,
		&user.Bio,
		&role,
		&following,
		&followers,
		&createdAt,
	); err != nil {
		return nil, err
	}

	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	user.ID = oid
	user.Role = model.Role(role)
	user.CreatedAt = createdAt
	if user.Following, err = objectIDs(following); err != nil {
		return nil, err
	}
	if user.Followers, err = objectIDs(followers); err != nil {
		return nil, err
	}
	user.Normalize()

	return &user, nil
}

func followColumn(list model.FollowList) (string, error) {
	switch list {
	case model.FollowingList, model.FollowersList:
		return string(list), nil
	}
	return "", fmt.Errorf("unknown follow list %q", list)
}

func hexes(ids []bson.ObjectID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.Hex())
	}
	return out
}

func objectIDs(hexes []string) ([]bson.ObjectID, error) {
	out := make([]bson.ObjectID, 0, len(hexes))
	for _, h := range hexes {
		id, err := bson.ObjectIDFromHex(h)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}
