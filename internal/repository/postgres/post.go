package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/BloggingApp/bloghub/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

// Posts are stored whole as JSONB documents; comments and replies live inside doc.
const postsSchema = `
CREATE TABLE IF NOT EXISTS posts (
	id         TEXT PRIMARY KEY,
	author_id  TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	version    BIGINT NOT NULL DEFAULT 0,
	doc        JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS posts_created_at_idx ON posts (created_at DESC);
CREATE INDEX IF NOT EXISTS posts_author_id_idx ON posts (author_id);
CREATE INDEX IF NOT EXISTS posts_tags_idx ON posts USING GIN ((doc -> 'tags'));
`

type postRepo struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func newPostRepo(db *pgxpool.Pool, logger *zap.Logger) *postRepo {
	return &postRepo{
		db:     db,
		logger: logger,
	}
}

func (r *postRepo) Migrate(ctx context.Context) error {
	_, err := r.db.Exec(ctx, postsSchema)
	return err
}

func (r *postRepo) Create(ctx context.Context, post *model.Post) error {
	doc, err := json.Marshal(post)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(
		ctx,
		"INSERT INTO posts(id, author_id, created_at, version, doc) VALUES($1, $2, $3, $4, $5)",
		post.ID.Hex(),
		post.AuthorID.Hex(),
		post.CreatedAt,
		post.Version,
		doc,
	)
	return err
}

func (r *postRepo) FindByID(ctx context.Context, id bson.ObjectID) (*model.Post, error) {
	var (
		doc     []byte
		version int64
	)
	if err := r.db.QueryRow(ctx, "SELECT p.doc, p.version FROM posts p WHERE p.id = $1", id.Hex()).Scan(&doc, &version); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}

	return decodePost(doc, version)
}

func (r *postRepo) FindAll(ctx context.Context) ([]*model.Post, error) {
	return r.query(ctx, "SELECT p.doc, p.version FROM posts p ORDER BY p.created_at DESC")
}

func (r *postRepo) FindByAuthor(ctx context.Context, authorID bson.ObjectID) ([]*model.Post, error) {
	return r.query(ctx, "SELECT p.doc, p.version FROM posts p WHERE p.author_id = $1 ORDER BY p.created_at DESC", authorID.Hex())
}

func (r *postRepo) CountByAuthor(ctx context.Context, authorID bson.ObjectID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM posts WHERE author_id = $1", authorID.Hex()).Scan(&count)
	return count, err
}

func (r *postRepo) Save(ctx context.Context, post *model.Post) error {
	doc, err := json.Marshal(post)
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(
		ctx,
		"UPDATE posts SET doc = $1, version = version + 1 WHERE id = $2 AND version = $3",
		doc,
		post.ID.Hex(),
		post.Version,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.db.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM posts WHERE id = $1)", post.ID.Hex()).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return model.ErrNotFound
		}
		return model.ErrVersionConflict
	}

	post.Version++
	return nil
}

func (r *postRepo) Delete(ctx context.Context, id bson.ObjectID) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM posts WHERE id = $1", id.Hex())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *postRepo) query(ctx context.Context, sql string, args ...interface{}) ([]*model.Post, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []*model.Post{}
	for rows.Next() {
		var (
			doc     []byte
			version int64
		)
		if err := rows.Scan(&doc, &version); err != nil {
			return nil, err
		}

		post, err := decodePost(doc, version)
		if err != nil {
			r.logger.Sugar().Errorf("failed to decode post document: %s", err.Error())
			return nil, err
		}

		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return posts, nil
}

func decodePost(doc []byte, version int64) (*model.Post, error) {
	var post model.Post
	if err := json.Unmarshal(doc, &post); err != nil {
		return nil, err
	}
	post.Version = version
	post.Normalize()
	return &post, nil
}
