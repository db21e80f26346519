package service

import (
	"context"

	"github.com/deppfellow/muslimah-travel/internal/lib/content"
	"github.com/deppfellow/muslimah-travel/internal/model"
	"github.com/deppfellow/muslimah-travel/internal/repository"
	"github.com/deppfellow/muslimah-travel/internal/server"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const LatestArticlesLimit = 5

type ArticleService struct {
	server   *server.Server
	articles *repository.ArticleRepository
}

func NewArticleService(s *server.Server, repos *repository.Repositories) *ArticleService {
	return &ArticleService{server: s, articles: repos.Article}
}

func (s *ArticleService) List(ctx context.Context, f model.ArticleFilter, page model.PageQuery) (model.Page[model.ArticleCard], error) {
	f.PublishedOnly = true
	result, err := s.articles.List(ctx, f, page)
	if err != nil {
		return model.Page[model.ArticleCard]{}, err
	}
	return model.Page[model.ArticleCard]{Items: cards(result.Items), Pagination: result.Pagination}, nil
}

func (s *ArticleService) Latest(ctx context.Context) ([]model.ArticleCard, error) {
	items, err := s.articles.Latest(ctx, LatestArticlesLimit)
	if err != nil {
		return nil, err
	}
	return cards(items), nil
}

func (s *ArticleService) Categories(ctx context.Context) ([]model.ArticleCategory, error) {
	return s.articles.Categories(ctx)
}

// Detail finds a published article by id or slug and splits it on <h2>.
func (s *ArticleService) Detail(ctx context.Context, key string) (model.ArticleDetail, error) {
	_, parseErr := uuid.Parse(key)
	article, err := s.articles.GetByIDOrSlug(ctx, key, parseErr == nil, true)
	if err != nil {
		return model.ArticleDetail{}, err
	}

	sections, err := content.Sections(article.Content)
	if err != nil {
		return model.ArticleDetail{}, errors.Wrap(err, "split article sections")
	}
	return model.ArticleDetail{Article: article, Sections: sections}, nil
}

// RecordView increments the view counter and returns the new total.
func (s *ArticleService) RecordView(ctx context.Context, id string) (int64, error) {
	return s.server.DB.AtomicIncrement(ctx, "articles", id, "views", 1)
}

func cards(items []model.Article) []model.ArticleCard {
	out := make([]model.ArticleCard, len(items))
	for i, a := range items {
		out[i] = model.ArticleCard{
			ID:       a.ID,
			Slug:     a.Slug,
			Title:    a.Title,
			Date:     a.CreatedAt,
			Preview:  content.Preview(a.Content, content.PreviewLength),
			ImageURL: a.CoverImageURL,
			Category: a.Category,
			Views:    a.Views,
		}
	}
	return out
}
