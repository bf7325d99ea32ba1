package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"go-blog-api/internal/model"
)

const postColumns = `p.id, p.title, p.slug, p.content, p.featured_image_url, p.featured_image_asset_id,
	p.tags, p.category_id, p.author_id, p.likes, p.is_public, p.published_at, p.created_at, p.updated_at`

type PostRepository struct {
	db DBTX
}

func NewPostRepository(db DBTX) *PostRepository {
	return &PostRepository{db: db}
}

func scanPost(row pgx.Row, extra ...any) (model.Post, error) {
	var (
		p          model.Post
		categoryID *string
	)
	dest := []any{&p.ID, &p.Title, &p.Slug, &p.Content, &p.FeaturedImageURL, &p.FeaturedImageAssetID,
		&p.Tags, &categoryID, &p.AuthorID, &p.Likes, &p.IsPublic, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return model.Post{}, err
	}
	p.CategoryID = deref(categoryID)
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return p, nil
}

func (r *PostRepository) Create(ctx context.Context, p model.Post) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO posts (id, title, slug, content, featured_image_url, featured_image_asset_id, tags,
		        category_id, author_id, is_public, published_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		p.ID, p.Title, p.Slug, p.Content, p.FeaturedImageURL, p.FeaturedImageAssetID, p.Tags,
		nullable(p.CategoryID), p.AuthorID, p.IsPublic, p.PublishedAt, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrSlugTaken
		}
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

func (r *PostRepository) FindByID(ctx context.Context, id string) (model.Post, error) {
	p, err := scanPost(r.db.QueryRow(ctx, `SELECT `+postColumns+` FROM posts p WHERE p.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Post{}, model.ErrPostNotFound
	}
	if err != nil {
		return model.Post{}, fmt.Errorf("find post by id: %w", err)
	}
	return p, nil
}

func (r *PostRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM posts WHERE slug = $1)`, slug).Scan(&exists); err != nil {
		return false, fmt.Errorf("check post slug: %w", err)
	}
	return exists, nil
}

// UpdateContent replaces the content and, when categoryID is non-empty, the category.
func (r *PostRepository) UpdateContent(ctx context.Context, id string, content string, categoryID string) (model.Post, error) {
	p, err := scanPost(r.db.QueryRow(ctx,
		`UPDATE posts p SET content = $2,
		        category_id = COALESCE($3, p.category_id),
		        updated_at = $4
		 WHERE p.id = $1
		 RETURNING `+postColumns,
		id, content, nullable(categoryID), time.Now().UTC()))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Post{}, model.ErrPostNotFound
	}
	if err != nil {
		return model.Post{}, fmt.Errorf("update post: %w", err)
	}
	return p, nil
}

// ToggleVisibility flips is_public in a single statement and stamps
// published_at the first time the post becomes public.
func (r *PostRepository) ToggleVisibility(ctx context.Context, id string) (model.Post, error) {
	now := time.Now().UTC()
	p, err := scanPost(r.db.QueryRow(ctx,
		`UPDATE posts p SET is_public = NOT p.is_public,
		        published_at = CASE WHEN NOT p.is_public AND p.published_at IS NULL THEN $2 ELSE p.published_at END,
		        updated_at = $2
		 WHERE p.id = $1
		 RETURNING `+postColumns,
		id, now))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Post{}, model.ErrPostNotFound
	}
	if err != nil {
		return model.Post{}, fmt.Errorf("toggle post visibility: %w", err)
	}
	return p, nil
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrPostNotFound
	}
	return nil
}

// ListPublic returns public posts, newest first, plus the total match count.
func (r *PostRepository) ListPublic(ctx context.Context, filter model.PostFilter, page model.Page) ([]model.Post, int, error) {
	conditions := []string{"p.is_public"}
	args := []any{}

	if author := strings.TrimSpace(filter.AuthorUsername); author != "" {
		args = append(args, author)
		conditions = append(conditions, "lower(u.username) = lower($"+strconv.Itoa(len(args))+")")
	}
	if category := strings.TrimSpace(filter.CategorySlug); category != "" {
		args = append(args, category)
		conditions = append(conditions, "c.slug = $"+strconv.Itoa(len(args)))
	}
	if tag := strings.TrimSpace(filter.Tag); tag != "" {
		args = append(args, tag)
		conditions = append(conditions, "$"+strconv.Itoa(len(args))+" = ANY(p.tags)")
	}

	from := `
		 FROM posts p
		 JOIN users u ON u.id = p.author_id
		 LEFT JOIN categories c ON c.id = p.category_id
		 WHERE ` + strings.Join(conditions, " AND ")
	filterArgs := args

	args = append(append([]any{}, filterArgs...), page.Limit, page.Offset())
	query := `SELECT ` + postColumns + `, COUNT(*) OVER()` + from + `
		 ORDER BY p.created_at DESC
		 LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	posts := make([]model.Post, 0)
	total := 0
	for rows.Next() {
		p, err := scanPost(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	rows.Close()

	total, err = totalPastEnd(ctx, r.db, page, len(posts), total, `SELECT COUNT(*)`+from, filterArgs...)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}
