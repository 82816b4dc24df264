package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"blog-api/internal/domain/entity"
	"blog-api/internal/domain/repository"
)

type PostRepository struct {
	pool *pgxpool.Pool
}

func NewPostRepository(pool *pgxpool.Pool) *PostRepository {
	return &PostRepository{pool: pool}
}

const postColumns = `p.id, p.title, p.slug, p.author_id, p.category_id, p.content,
	p.excerpt, p.image_url, p.status, p.views_count, p.created_at, p.updated_at, p.published_at`

func scanPost(row pgx.Row) (*entity.Post, error) {
	p := &entity.Post{}
	if err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.AuthorID, &p.CategoryID, &p.Content,
		&p.Excerpt, &p.ImageURL, &p.Status, &p.ViewsCount, &p.CreatedAt, &p.UpdatedAt, &p.PublishedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *PostRepository) Create(ctx context.Context, p *entity.Post) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO posts (title, slug, author_id, category_id, content, excerpt, image_url, status, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, views_count, created_at, updated_at
	`, p.Title, p.Slug, p.AuthorID, p.CategoryID, p.Content, p.Excerpt, p.ImageURL, p.Status, p.PublishedAt)
	return row.Scan(&p.ID, &p.ViewsCount, &p.CreatedAt, &p.UpdatedAt)
}

func (r *PostRepository) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	return scanPost(r.pool.QueryRow(ctx, `SELECT `+postColumns+` FROM posts p WHERE p.id = $1`, id))
}

func (r *PostRepository) GetBySlug(ctx context.Context, slug string) (*entity.Post, error) {
	return scanPost(r.pool.QueryRow(ctx, `SELECT `+postColumns+` FROM posts p WHERE p.slug = $1`, slug))
}

// List applies the filter with positional args built incrementally.
// Search joins the author row so the author's username is matched too.
func (r *PostRepository) List(ctx context.Context, f repository.PostFilter) ([]*entity.Post, int64, error) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	join := ""
	if f.Status != "" {
		conds = append(conds, "p.status = "+arg(f.Status))
	}
	if f.CategoryID != "" {
		conds = append(conds, "p.category_id = "+arg(f.CategoryID))
	}
	if f.AuthorID != "" {
		conds = append(conds, "p.author_id = "+arg(f.AuthorID))
	}
	if f.Search != "" {
		join = " JOIN users u ON u.id = p.author_id"
		pat := arg("%" + f.Search + "%")
		conds = append(conds, "(p.title ILIKE "+pat+" OR p.content ILIKE "+pat+" OR u.username ILIKE "+pat+")")
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM posts p`+join+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	order := " ORDER BY p.created_at DESC"
	if f.Ordering == "views_count" {
		order = " ORDER BY p.views_count DESC, p.created_at DESC"
	}
	q := `SELECT ` + postColumns + ` FROM posts p` + join + where + order
	if f.Limit > 0 {
		q += " LIMIT " + arg(f.Limit) + " OFFSET " + arg(f.Offset)
	}

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*entity.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

func (r *PostRepository) Update(ctx context.Context, p *entity.Post) error {
	p.UpdatedAt = time.Now()
	res, err := r.pool.Exec(ctx, `
		UPDATE posts
		SET title = $1, category_id = $2, content = $3, excerpt = $4, image_url = $5,
		    status = $6, published_at = $7, updated_at = $8
		WHERE id = $9
	`, p.Title, p.CategoryID, p.Content, p.Excerpt, p.ImageURL, p.Status, p.PublishedAt, p.UpdatedAt, p.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes the post; comments cascade at the storage layer.
func (r *PostRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PostRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM posts WHERE slug = $1)`, slug).Scan(&exists)
	return exists, err
}

// IncrementViews bumps the counter in SQL so concurrent viewers never
// lose updates to a read-modify-write race.
func (r *PostRepository) IncrementViews(ctx context.Context, id string) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `
		UPDATE posts
		SET views_count = views_count + 1
		WHERE id = $1
		RETURNING views_count
	`, id).Scan(&n)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, repository.ErrNotFound
	}
	return n, err
}

var _ repository.PostRepository = (*PostRepository)(nil)
