package handler

import (
	"github.com/deppfellow/muslimah-travel/internal/model"
	"github.com/deppfellow/muslimah-travel/internal/server"
	"github.com/deppfellow/muslimah-travel/internal/service"
	"github.com/deppfellow/muslimah-travel/internal/validation"
	"github.com/labstack/echo/v4"
)

const (
	MaxTopicTitle   = 200
	MaxTopicContent = 10000
	MaxCommentBody  = 2000
)

type ForumHandler struct {
	Handler
	forum *service.ForumService
}

func NewForumHandler(s *server.Server, forum *service.ForumService) *ForumHandler {
	return &ForumHandler{Handler: NewHandler(s), forum: forum}
}

func (h *ForumHandler) Stats(c echo.Context, _ *NoBody) (Response, error) {
	stats, err := h.forum.Stats(c.Request().Context())
	if err != nil {
		return Response{}, err
	}
	return respond("Forum stats retrieved", stats), nil
}

type ListTopicsRequest struct {
	model.PageQuery
	Search string `query:"search" validate:"max=100"`
	Sort   string `query:"sort"`
}

func (r *ListTopicsRequest) Validate() error {
	var f validation.Fields
	if r.Sort == "" {
		r.Sort = string(model.ForumSortLatest)
	} else {
		sort, err := validation.Enum(r.Sort,
			string(model.ForumSortLatest), string(model.ForumSortPopular), string(model.ForumSortRating))
		f.Add("sort", err)
		r.Sort = sort
	}
	return check(r, &f)
}

func (h *ForumHandler) List(c echo.Context, req *ListTopicsRequest) (Response, error) {
	page, err := h.forum.List(c.Request().Context(), req.Search, model.ForumSort(req.Sort), req.PageQuery)
	if err != nil {
		return Response{}, err
	}
	return paginated("Forum topics retrieved", page), nil
}

func (h *ForumHandler) Topic(c echo.Context, req *IDParam) (Response, error) {
	topic, err := h.forum.Topic(c.Request().Context(), req.ID)
	if err != nil {
		return Response{}, err
	}
	return respond("Forum topic retrieved", topic), nil
}

type CreateTopicRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Rating  *int   `json:"rating" validate:"omitempty,min=1,max=5"`
}

func (r *CreateTopicRequest) Validate() error {
	var f validation.Fields
	title, err := validation.String(r.Title, 3, MaxTopicTitle, true)
	f.Add("title", err)
	r.Title = title
	body, err := validation.String(r.Content, 1, MaxTopicContent, true)
	f.Add("content", err)
	r.Content = body
	return check(r, &f)
}

func (h *ForumHandler) CreateTopic(c echo.Context, req *CreateTopicRequest) (Response, error) {
	topic, err := h.forum.CreateTopic(c.Request().Context(), userID(c), req.Title, req.Content, req.Rating)
	if err != nil {
		return Response{}, err
	}
	return respond("Forum topic created", topic), nil
}

type UpdateTopicRequest struct {
	IDParam
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Rating  *int    `json:"rating" validate:"omitempty,min=1,max=5"`
}

func (r *UpdateTopicRequest) Validate() error {
	var f validation.Fields
	r.ID = f.UUID("id", r.ID)
	atLeastOne(&f, r.Title != nil, r.Content != nil, r.Rating != nil)
	optionalString(&f, "title", &r.Title, 3, MaxTopicTitle)
	optionalString(&f, "content", &r.Content, 1, MaxTopicContent)
	return check(r, &f)
}

func (h *ForumHandler) UpdateTopic(c echo.Context, req *UpdateTopicRequest) (Response, error) {
	topic, err := h.forum.UpdateTopic(c.Request().Context(), actor(c), req.ID, service.UpdateTopicInput{
		Title:   req.Title,
		Content: req.Content,
		Rating:  req.Rating,
	})
	if err != nil {
		return Response{}, err
	}
	return respond("Forum topic updated", topic), nil
}

func (h *ForumHandler) DeleteTopic(c echo.Context, req *IDParam) (Response, error) {
	if err := h.forum.DeleteTopic(c.Request().Context(), actor(c), req.ID); err != nil {
		return Response{}, err
	}
	return respond("Forum topic deleted", nil), nil
}

type AddCommentRequest struct {
	IDParam
	Content string `json:"content"`
}

func (r *AddCommentRequest) Validate() error {
	var f validation.Fields
	r.ID = f.UUID("id", r.ID)
	body, err := validation.String(r.Content, 1, MaxCommentBody, true)
	f.Add("content", err)
	r.Content = body
	return f.Err()
}

func (h *ForumHandler) AddComment(c echo.Context, req *AddCommentRequest) (Response, error) {
	comment, err := h.forum.AddComment(c.Request().Context(), userID(c), req.ID, req.Content)
	if err != nil {
		return Response{}, err
	}
	return respond("Comment added", comment), nil
}

type CommentIDParam struct {
	CommentID string `param:"comment_id" json:"-"`
}

func (r *CommentIDParam) Validate() error {
	var f validation.Fields
	r.CommentID = f.UUID("comment_id", r.CommentID)
	return f.Err()
}

func (h *ForumHandler) DeleteComment(c echo.Context, req *CommentIDParam) (Response, error) {
	if err := h.forum.DeleteComment(c.Request().Context(), actor(c), req.CommentID); err != nil {
		return Response{}, err
	}
	return respond("Comment deleted", nil), nil
}
