package handler

import (
	"github.com/deppfellow/muslimah-travel/internal/model"
	"github.com/deppfellow/muslimah-travel/internal/server"
	"github.com/deppfellow/muslimah-travel/internal/service"
	"github.com/deppfellow/muslimah-travel/internal/validation"
	"github.com/labstack/echo/v4"
)

type ArticleHandler struct {
	Handler
	articles *service.ArticleService
}

func NewArticleHandler(s *server.Server, articles *service.ArticleService) *ArticleHandler {
	return &ArticleHandler{Handler: NewHandler(s), articles: articles}
}

type ListArticlesRequest struct {
	model.PageQuery
	Search   string `query:"search" validate:"max=100"`
	Category string `query:"category" validate:"max=100"`
	Sort     string `query:"sort"`
}

func (r *ListArticlesRequest) Validate() error {
	var f validation.Fields
	if r.Sort == "" {
		r.Sort = string(model.ArticleSortLatest)
	} else {
		sort, err := validation.Enum(r.Sort, string(model.ArticleSortLatest), string(model.ArticleSortPopular))
		f.Add("sort", err)
		r.Sort = sort
	}
	return check(r, &f)
}

func (r *ListArticlesRequest) filter() model.ArticleFilter {
	return model.ArticleFilter{Search: r.Search, Category: r.Category, Sort: model.ArticleSort(r.Sort)}
}

func (h *ArticleHandler) List(c echo.Context, req *ListArticlesRequest) (Response, error) {
	page, err := h.articles.List(c.Request().Context(), req.filter(), req.PageQuery)
	if err != nil {
		return Response{}, err
	}
	return paginated("Articles retrieved", page), nil
}

func (h *ArticleHandler) Latest(c echo.Context, _ *NoBody) (Response, error) {
	items, err := h.articles.Latest(c.Request().Context())
	if err != nil {
		return Response{}, err
	}
	return list("Latest articles retrieved", items), nil
}

func (h *ArticleHandler) Categories(c echo.Context, _ *NoBody) (Response, error) {
	items, err := h.articles.Categories(c.Request().Context())
	if err != nil {
		return Response{}, err
	}
	return list("Article categories retrieved", items), nil
}

// ArticleKeyRequest addresses an article by id or slug.
type ArticleKeyRequest struct {
	Key string `param:"id" json:"-" validate:"required,max=255"`
}

func (r *ArticleKeyRequest) Validate() error {
	return validation.Struct(r)
}

func (h *ArticleHandler) Detail(c echo.Context, req *ArticleKeyRequest) (Response, error) {
	article, err := h.articles.Detail(c.Request().Context(), req.Key)
	if err != nil {
		return Response{}, err
	}
	return respond("Article retrieved", article), nil
}

type articleViews struct {
	ID    string `json:"id"`
	Views int64  `json:"views"`
}

func (h *ArticleHandler) RecordView(c echo.Context, req *IDParam) (Response, error) {
	views, err := h.articles.RecordView(c.Request().Context(), req.ID)
	if err != nil {
		return Response{}, err
	}
	return respond("Article view recorded", articleViews{ID: req.ID, Views: views}), nil
}
