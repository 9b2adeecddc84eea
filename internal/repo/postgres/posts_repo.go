package postgres

import (
	"context"
	"errors"

	"github.com/inkwelldev/inkwell/internal/domain/post"
	"github.com/inkwelldev/inkwell/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewPostsRepo(pool *pgxpool.Pool, prom *observability.Prom) *PostsRepo {
	return &PostsRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *PostsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *PostsRepo) Create(ctx context.Context, title, content string, authorID int64) (post.Post, error) {
	var p post.Post

	err := r.observe("posts.create", func() error {
		return r.pool.QueryRow(
			ctx,
			`INSERT INTO posts (title, content, author_id)
			 VALUES ($1, $2, $3)
			 RETURNING id, title, content, author_id, created_at, updated_at`,
			title,
			content,
			authorID,
		).Scan(
			&p.ID,
			&p.Title,
			&p.Content,
			&p.AuthorID,
			&p.CreatedAt,
			&p.UpdatedAt,
		)
	})

	if err != nil {
		return post.Post{}, err
	}

	return p, nil
}

// GetByID fetches a post with its author summary joined in one query.
func (r *PostsRepo) GetByID(ctx context.Context, id int64) (post.PostWithAuthor, error) {
	var p post.PostWithAuthor

	err := r.observe("posts.get_by_id", func() error {
		return r.pool.QueryRow(
			ctx,
			`SELECT p.id, p.title, p.content, p.author_id, p.created_at, p.updated_at,
			        u.id, u.username, u.email
			 FROM posts p
			 JOIN users u ON u.id = p.author_id
			 WHERE p.id = $1`,
			id,
		).Scan(
			&p.ID,
			&p.Title,
			&p.Content,
			&p.AuthorID,
			&p.CreatedAt,
			&p.UpdatedAt,
			&p.Author.ID,
			&p.Author.Username,
			&p.Author.Email,
		)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return post.PostWithAuthor{}, post.ErrNotFound
		}

		return post.PostWithAuthor{}, err
	}

	return p, nil
}

func (r *PostsRepo) Update(ctx context.Context, id int64, title, content string) (post.Post, error) {
	var p post.Post

	err := r.observe("posts.update", func() error {
		return r.pool.QueryRow(
			ctx,
			`UPDATE posts
				SET title = $2,
						content = $3,
						updated_at = NOW()
			WHERE id = $1
			RETURNING id, title, content, author_id, created_at, updated_at`,
			id,
			title,
			content,
		).Scan(
			&p.ID,
			&p.Title,
			&p.Content,
			&p.AuthorID,
			&p.CreatedAt,
			&p.UpdatedAt,
		)
	})

	if err != nil {
		// if there are no rows matching the id
		if errors.Is(err, pgx.ErrNoRows) {
			return post.Post{}, post.ErrNotFound
		}

		return post.Post{}, err
	}

	return p, nil
}

func (r *PostsRepo) Delete(ctx context.Context, id int64) error {
	var tag pgconn.CommandTag

	err := r.observe("posts.delete", func() error {
		t, execErr := r.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
		tag = t
		return execErr
	})

	if err != nil {
		return err
	}

	// if no rows were deleted as a result return a not found error
	if tag.RowsAffected() == 0 {
		return post.ErrNotFound
	}

	return nil
}
