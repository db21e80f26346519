package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/muslimah-travel/internal/database"
	"github.com/deppfellow/muslimah-travel/internal/model"
	"github.com/deppfellow/muslimah-travel/internal/server"
	"github.com/jackc/pgx/v5"
)

const articleColumns = `a.id, a.title, a.slug, a.category, a.cover_image_url, a.content, a.excerpt,
	a.tags, a.author_id, u.full_name AS author_name, a.is_published, a.views, a.created_at, a.updated_at`

const articleFrom = `FROM articles a LEFT JOIN users u ON u.id = a.author_id`

type ArticleRepository struct {
	server *server.Server
	q      database.Querier
}

func NewArticleRepository(s *server.Server) *ArticleRepository {
	return &ArticleRepository{server: s, q: s.DB.Pool}
}

func (r *ArticleRepository) WithTx(tx pgx.Tx) *ArticleRepository {
	return &ArticleRepository{server: r.server, q: tx}
}

func (r *ArticleRepository) List(ctx context.Context, f model.ArticleFilter, page model.PageQuery) (model.Page[model.Article], error) {
	page = page.Normalize()

	var w where
	if f.PublishedOnly {
		w.raw("a.is_published = true")
	}
	if f.Search != "" {
		w.add("(a.title ILIKE ? OR a.content ILIKE ?)", likePattern(f.Search))
	}
	if f.Category != "" {
		w.add("a.category ILIKE ?", f.Category)
	}

	order := "a.created_at DESC"
	if f.Sort == model.ArticleSortPopular {
		order = "a.views DESC, a.created_at DESC"
	}

	total, err := count(ctx, r.q, `SELECT COUNT(*) FROM articles a `+w.String(), w.args...)
	if err != nil {
		return model.Page[model.Article]{}, err
	}

	sql := fmt.Sprintf(`SELECT %s %s %s ORDER BY %s LIMIT %s OFFSET %s`,
		articleColumns, articleFrom, w.String(), order, w.next(page.Limit), w.next(page.Offset()))

	rows, err := r.q.Query(ctx, sql, w.args...)
	items, err := collectAll[model.Article](rows, err, "articles")
	if err != nil {
		return model.Page[model.Article]{}, err
	}
	return model.Page[model.Article]{Items: items, Pagination: model.NewPagination(page, total)}, nil
}

func (r *ArticleRepository) Latest(ctx context.Context, limit int) ([]model.Article, error) {
	rows, err := r.q.Query(ctx, `SELECT `+articleColumns+` `+articleFrom+`
		WHERE a.is_published = true
		ORDER BY a.created_at DESC
		LIMIT $1`, limit)
	return collectAll[model.Article](rows, err, "articles")
}

func (r *ArticleRepository) Categories(ctx context.Context) ([]model.ArticleCategory, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, slug FROM article_categories ORDER BY name`)
	return collectAll[model.ArticleCategory](rows, err, "article_categories")
}

// GetByIDOrSlug looks the article up by id when key is a UUID, by slug
// otherwise.
func (r *ArticleRepository) GetByIDOrSlug(ctx context.Context, key string, isID, publishedOnly bool) (model.Article, error) {
	cond := "a.slug = $1"
	if isID {
		cond = "a.id = $1"
	}
	rows, err := r.q.Query(ctx, `SELECT `+articleColumns+` `+articleFrom+`
		WHERE `+cond+` AND (a.is_published OR NOT $2)`, key, publishedOnly)
	return collectOne[model.Article](rows, err, "articles")
}

func (r *ArticleRepository) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM articles WHERE slug = $1 AND ($2 = '' OR id::text <> $2))`,
		slug, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check slug: %w", err)
	}
	return exists, nil
}

type CreateArticleParams struct {
	Title         string
	Slug          string
	Category      *string
	CoverImageURL *string
	Content       string
	Excerpt       *string
	Tags          []string
	AuthorID      string
	IsPublished   bool
}

func (r *ArticleRepository) Create(ctx context.Context, p CreateArticleParams) (model.Article, error) {
	var id string
	err := r.q.QueryRow(ctx, `
		INSERT INTO articles (title, slug, category, cover_image_url, content, excerpt, tags, author_id, is_published)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`,
		p.Title, p.Slug, p.Category, p.CoverImageURL, p.Content, p.Excerpt, p.Tags, p.AuthorID, p.IsPublished).Scan(&id)
	if err != nil {
		return model.Article{}, fmt.Errorf("insert article: %w", err)
	}
	return r.GetByIDOrSlug(ctx, id, true, false)
}

func (r *ArticleRepository) Update(ctx context.Context, id string, set *database.UpdateSet) (model.Article, error) {
	if _, err := database.UpdateTx[model.Article](ctx, r.q, "articles", id, set, "id"); err != nil {
		return model.Article{}, err
	}
	return r.GetByIDOrSlug(ctx, id, true, false)
}

// TogglePublish flips is_published and returns the new value.
func (r *ArticleRepository) TogglePublish(ctx context.Context, id string) (bool, error) {
	var published bool
	err := r.q.QueryRow(ctx, `
		UPDATE articles SET is_published = NOT is_published, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING is_published`, id).Scan(&published)
	if err != nil {
		return false, rowErr(err, "articles", "toggle publish")
	}
	return published, nil
}
