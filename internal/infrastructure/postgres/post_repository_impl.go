package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/devconnector/internal/domain/entity"
	"github.com/oksasatya/devconnector/internal/domain/repository"
)

const postCols = `id::text, text, name, avatar_url, user_id::text, likes, comments, created_at`

// PostRepository keeps likes as a jsonb array of user ids and comments as a
// jsonb array of documents. Mutations are single UPDATE statements.
type PostRepository struct {
	base
}

func NewPostRepository(pool *pgxpool.Pool, timeout time.Duration) *PostRepository {
	return &PostRepository{base: newBase(pool, timeout)}
}

func (r *PostRepository) Create(ctx context.Context, p *entity.Post) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO posts (user_id, text, name, avatar_url)
		VALUES ($1, $2, $3, $4)
		RETURNING `+postCols,
		p.UserID, p.Text, p.Name, p.AvatarURL)
	out, err := scanPost(row)
	if err != nil {
		return mapErr("postgres.Posts.Create", err)
	}
	*p = *out
	return nil
}

func (r *PostRepository) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	p, err := scanPost(r.pool.QueryRow(ctx, `SELECT `+postCols+` FROM posts WHERE id = $1`, id))
	if err != nil {
		return nil, mapErr("postgres.Posts.GetByID", err)
	}
	return p, nil
}

func (r *PostRepository) List(ctx context.Context) ([]entity.Post, error) {
	const op = "postgres.Posts.List"
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.pool.Query(ctx, `SELECT `+postCols+` FROM posts ORDER BY created_at DESC`)
	if err != nil {
		return nil, mapErr(op, err)
	}
	defer rows.Close()
	out := []entity.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, mapErr(op, err)
		}
		out = append(out, *p)
	}
	return out, mapErr(op, rows.Err())
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return mapErr("postgres.Posts.Delete", err)
	}
	if tag.RowsAffected() == 0 {
		return mapErr("postgres.Posts.Delete", pgx.ErrNoRows)
	}
	return nil
}

// conditional runs a guarded UPDATE. When the guard rejects the row it reloads
// the post to tell "missing post" from "guard not met".
func (r *PostRepository) conditional(ctx context.Context, op, query string, args ...any) (*entity.Post, bool, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	p, err := scanPost(r.pool.QueryRow(ctx, query, args...))
	if err == nil {
		return p, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, mapErr(op, err)
	}
	p, err = scanPost(r.pool.QueryRow(ctx, `SELECT `+postCols+` FROM posts WHERE id = $1`, args[0]))
	if err != nil {
		return nil, false, mapErr(op, err)
	}
	return p, false, nil
}

func (r *PostRepository) AddLike(ctx context.Context, postID, userID string) (*entity.Post, bool, error) {
	return r.conditional(ctx, "postgres.Posts.AddLike", `
		UPDATE posts SET likes = likes || jsonb_build_array($2::text)
		WHERE id = $1 AND NOT likes ? $2::text
		RETURNING `+postCols, postID, userID)
}

func (r *PostRepository) RemoveLike(ctx context.Context, postID, userID string) (*entity.Post, bool, error) {
	return r.conditional(ctx, "postgres.Posts.RemoveLike", `
		UPDATE posts SET likes = likes - $2::text
		WHERE id = $1 AND likes ? $2::text
		RETURNING `+postCols, postID, userID)
}

func (r *PostRepository) PrependComment(ctx context.Context, postID string, c entity.Comment) (*entity.Post, error) {
	doc, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	p, err := scanPost(r.pool.QueryRow(ctx, `
		UPDATE posts SET comments = jsonb_build_array($2::jsonb) || comments
		WHERE id = $1
		RETURNING `+postCols, postID, string(doc)))
	if err != nil {
		return nil, mapErr("postgres.Posts.PrependComment", err)
	}
	return p, nil
}

// RemoveComment re-checks authorship inside the UPDATE so the ownership check
// and the removal cannot interleave with another writer.
func (r *PostRepository) RemoveComment(ctx context.Context, postID, commentID, authorID string) (*entity.Post, bool, error) {
	return r.conditional(ctx, "postgres.Posts.RemoveComment", `
		UPDATE posts SET comments = COALESCE((
			SELECT jsonb_agg(t.c ORDER BY t.ord)
			FROM jsonb_array_elements(comments) WITH ORDINALITY AS t(c, ord)
			WHERE t.c->>'id' <> $2::text
		), '[]'::jsonb)
		WHERE id = $1 AND EXISTS (
			SELECT 1 FROM jsonb_array_elements(comments) AS x(c)
			WHERE x.c->>'id' = $2::text AND x.c->>'userId' = $3::text
		)
		RETURNING `+postCols, postID, commentID, authorID)
}

func scanPost(row rowScanner) (*entity.Post, error) {
	p := &entity.Post{}
	if err := row.Scan(&p.ID, &p.Text, &p.Name, &p.AvatarURL, &p.UserID, &p.Likes, &p.Comments, &p.CreatedAt); err != nil {
		return nil, err
	}
	if p.Likes == nil {
		p.Likes = []string{}
	}
	if p.Comments == nil {
		p.Comments = []entity.Comment{}
	}
	return p, nil
}

var _ repository.PostRepository = (*PostRepository)(nil)
