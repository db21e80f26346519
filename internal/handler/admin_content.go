package handler

import (
	"regexp"

	"github.com/deppfellow/muslimah-travel/internal/model"
	"github.com/deppfellow/muslimah-travel/internal/service"
	"github.com/deppfellow/muslimah-travel/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

var slugRegex = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// ---- articles ----

type AdminListArticlesRequest struct {
	ListArticlesRequest
}

func (h *AdminHandler) Articles(c echo.Context, req *AdminListArticlesRequest) (Response, error) {
	page, err := h.admin.Articles(c.Request().Context(), req.filter(), req.PageQuery)
	if err != nil {
		return Response{}, err
	}
	return paginated("Articles retrieved", page), nil
}

func (h *AdminHandler) Article(c echo.Context, req *IDParam) (Response, error) {
	article, err := h.admin.Article(c.Request().Context(), req.ID)
	if err != nil {
		return Response{}, err
	}
	return respond("Article retrieved", article), nil
}

// ArticleRequest is shared by create and update. On create title and
// content are required; on update at least one field must be sent.
type ArticleRequest struct {
	Title         *string  `json:"title"`
	Slug          *string  `json:"slug"`
	Category      *string  `json:"category"`
	CoverImageURL *string  `json:"cover_image_url" validate:"omitempty,url"`
	Content       *string  `json:"content"`
	Excerpt       *string  `json:"excerpt"`
	Tags          []string `json:"tags" validate:"omitempty,max=20,dive,min=1,max=50"`
	IsPublished   *bool    `json:"is_published"`
}

func (r *ArticleRequest) validate(f *validation.Fields) {
	optionalString(f, "title", &r.Title, 3, 255)
	optionalString(f, "category", &r.Category, 1, 100)
	optionalString(f, "excerpt", &r.Excerpt, 1, 500)
	if r.Content != nil {
		body, err := validation.String(*r.Content, 1, 100000, true)
		f.Add("content", err)
		r.Content = &body
	}
	if r.Slug != nil {
		slug := lowerTrim(*r.Slug)
		if !slugRegex.MatchString(slug) {
			f.Add("slug", errors.New("must contain lower-case letters, digits and single dashes"))
		}
		r.Slug = &slug
	}
}

func (r *ArticleRequest) input() service.ArticleInput {
	return service.ArticleInput{
		Title:         r.Title,
		Slug:          r.Slug,
		Category:      r.Category,
		CoverImageURL: r.CoverImageURL,
		Content:       r.Content,
		Excerpt:       r.Excerpt,
		Tags:          r.Tags,
		IsPublished:   r.IsPublished,
	}
}

type CreateArticleRequest struct {
	ArticleRequest
}

func (r *CreateArticleRequest) Validate() error {
	var f validation.Fields
	if r.Title == nil {
		f.Add("title", errors.New("is required"))
	}
	if r.Content == nil {
		f.Add("content", errors.New("is required"))
	}
	r.validate(&f)
	return check(r, &f)
}

func (h *AdminHandler) CreateArticle(c echo.Context, req *CreateArticleRequest) (Response, error) {
	article, err := h.admin.CreateArticle(c.Request().Context(), userID(c), req.input())
	if err != nil {
		return Response{}, err
	}
	return respond("Article created", article), nil
}

type UpdateArticleRequest struct {
	IDParam
	ArticleRequest
}

func (r *UpdateArticleRequest) Validate() error {
	var f validation.Fields
	r.ID = f.UUID("id", r.ID)
	atLeastOne(&f, r.Title != nil, r.Slug != nil, r.Category != nil, r.CoverImageURL != nil,
		r.Content != nil, r.Excerpt != nil, r.Tags != nil, r.IsPublished != nil)
	r.validate(&f)
	return check(r, &f)
}

func (h *AdminHandler) UpdateArticle(c echo.Context, req *UpdateArticleRequest) (Response, error) {
	article, err := h.admin.UpdateArticle(c.Request().Context(), req.ID, req.input())
	if err != nil {
		return Response{}, err
	}
	return respond("Article updated", article), nil
}

func (h *AdminHandler) DeleteArticle(c echo.Context, req *IDParam) (Response, error) {
	if err := h.admin.DeleteArticle(c.Request().Context(), req.ID); err != nil {
		return Response{}, err
	}
	return respond("Article deleted", nil), nil
}

type publishState struct {
	ID          string `json:"id"`
	IsPublished bool   `json:"is_published"`
}

func (h *AdminHandler) TogglePublish(c echo.Context, req *IDParam) (Response, error) {
	published, err := h.admin.TogglePublish(c.Request().Context(), req.ID)
	if err != nil {
		return Response{}, err
	}
	message := "Article unpublished"
	if published {
		message = "Article published"
	}
	return respond(message, publishState{ID: req.ID, IsPublished: published}), nil
}

// ---- community posts ----

var communityStatuses = []string{
	string(model.CommunityPending), string(model.CommunityApproved), string(model.CommunityRejected),
}

// ListCommunityPostsRequest filters by English month name ("March"),
// matched case-insensitively.
type ListCommunityPostsRequest struct {
	model.PageQuery
	Month  string `query:"month" validate:"max=20"`
	Status string `query:"status"`
}

func (r *ListCommunityPostsRequest) Validate() error {
	var f validation.Fields
	if r.Status != "" {
		status, err := validation.Enum(r.Status, communityStatuses...)
		f.Add("status", err)
		r.Status = status
	}
	return check(r, &f)
}

func (h *AdminHandler) CommunityPosts(c echo.Context, req *ListCommunityPostsRequest) (Response, error) {
	page, err := h.admin.CommunityPosts(c.Request().Context(), req.Month, req.Status, req.PageQuery)
	if err != nil {
		return Response{}, err
	}
	return paginated("Community posts retrieved", page), nil
}

func (h *AdminHandler) CommunityPost(c echo.Context, req *IDParam) (Response, error) {
	post, err := h.admin.CommunityPost(c.Request().Context(), req.ID)
	if err != nil {
		return Response{}, err
	}
	return respond("Community post retrieved", post), nil
}

type ModeratePostRequest struct {
	IDParam
	Status string `json:"status"`
}

func (r *ModeratePostRequest) Validate() error {
	var f validation.Fields
	r.ID = f.UUID("id", r.ID)
	status, err := validation.Enum(r.Status, communityStatuses...)
	f.Add("status", err)
	r.Status = status
	return f.Err()
}

func (h *AdminHandler) ModerateCommunityPost(c echo.Context, req *ModeratePostRequest) (Response, error) {
	post, err := h.admin.ModerateCommunityPost(c.Request().Context(), req.ID, model.CommunityPostStatus(req.Status))
	if err != nil {
		return Response{}, err
	}
	return respond("Community post status updated", post), nil
}

func (h *AdminHandler) DeleteCommunityPost(c echo.Context, req *IDParam) (Response, error) {
	if err := h.admin.DeleteCommunityPost(c.Request().Context(), req.ID); err != nil {
		return Response{}, err
	}
	return respond("Community post deleted", nil), nil
}
