package service

import (
	"context"
	"fmt"

	"github.com/deppfellow/muslimah-travel/internal/database"
	"github.com/deppfellow/muslimah-travel/internal/errs"
	"github.com/deppfellow/muslimah-travel/internal/lib/content"
	"github.com/deppfellow/muslimah-travel/internal/model"
	"github.com/deppfellow/muslimah-travel/internal/repository"
)

// maxSlugAttempts bounds the numeric suffixes tried for a generated slug.
const maxSlugAttempts = 50

func (s *AdminService) Articles(ctx context.Context, f model.ArticleFilter, page model.PageQuery) (model.Page[model.Article], error) {
	f.PublishedOnly = false
	return s.repos.Article.List(ctx, f, page)
}

func (s *AdminService) Article(ctx context.Context, id string) (model.Article, error) {
	return s.repos.Article.GetByIDOrSlug(ctx, id, true, false)
}

type ArticleInput struct {
	Title         *string
	Slug          *string
	Category      *string
	CoverImageURL *string
	Content       *string
	Excerpt       *string
	Tags          []string
	IsPublished   *bool
}

// CreateArticle derives the slug from the title when none is given,
// suffixing -2, -3... until it is free. An explicit slug must be unused.
func (s *AdminService) CreateArticle(ctx context.Context, authorID string, in ArticleInput) (model.Article, error) {
	title, body := deref(in.Title), deref(in.Content)

	slug, err := s.articleSlug(ctx, in.Slug, title, "")
	if err != nil {
		return model.Article{}, err
	}

	excerpt := in.Excerpt
	if excerpt == nil {
		preview := content.Preview(body, content.PreviewLength)
		excerpt = &preview
	}

	published := false
	if in.IsPublished != nil {
		published = *in.IsPublished
	}

	return s.repos.Article.Create(ctx, repository.CreateArticleParams{
		Title:         title,
		Slug:          slug,
		Category:      in.Category,
		CoverImageURL: in.CoverImageURL,
		Content:       body,
		Excerpt:       excerpt,
		Tags:          nonNilTags(in.Tags),
		AuthorID:      authorID,
		IsPublished:   published,
	})
}

func (s *AdminService) UpdateArticle(ctx context.Context, id string, in ArticleInput) (model.Article, error) {
	set := database.NewUpdateSet()
	database.SetIfNotNil(set, "title", in.Title)
	database.SetIfNotNil(set, "category", in.Category)
	database.SetIfNotNil(set, "cover_image_url", in.CoverImageURL)
	database.SetIfNotNil(set, "content", in.Content)
	database.SetIfNotNil(set, "excerpt", in.Excerpt)
	database.SetIfNotNil(set, "is_published", in.IsPublished)
	if in.Tags != nil {
		set.Add("tags", in.Tags)
	}

	if in.Slug != nil {
		slug, err := s.articleSlug(ctx, in.Slug, "", id)
		if err != nil {
			return model.Article{}, err
		}
		set.Add("slug", slug)
	}

	return s.repos.Article.Update(ctx, id, set)
}

func (s *AdminService) DeleteArticle(ctx context.Context, id string) error {
	return s.server.DB.SafeDelete(ctx, "articles", id)
}

// TogglePublish flips the article's visibility and returns the new state.
func (s *AdminService) TogglePublish(ctx context.Context, id string) (bool, error) {
	return s.repos.Article.TogglePublish(ctx, id)
}

func (s *AdminService) articleSlug(ctx context.Context, explicit *string, title, excludeID string) (string, error) {
	if explicit != nil {
		slug := content.Slugify(*explicit)
		if slug == "" {
			return "", errs.NewFieldValidationError("slug", "must contain letters or digits")
		}
		exists, err := s.repos.Article.SlugExists(ctx, slug, excludeID)
		if err != nil {
			return "", err
		}
		if exists {
			return "", errs.NewBadRequestError("Slug is already used by another article", true, errs.Code("ARTICLE_SLUG_EXISTS"), nil, nil)
		}
		return slug, nil
	}

	base := content.Slugify(title)
	if base == "" {
		base = "article"
	}
	for i := 1; i <= maxSlugAttempts; i++ {
		candidate := base
		if i > 1 {
			candidate = fmt.Sprintf("%s-%d", base, i)
		}
		exists, err := s.repos.Article.SlugExists(ctx, candidate, excludeID)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", errs.NewConflictError("Could not generate a unique slug, please provide one", true, errs.Code("ARTICLE_SLUG_EXISTS"))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
