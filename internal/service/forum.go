package service

import (
	"context"

	"github.com/deppfellow/muslimah-travel/internal/database"
	"github.com/deppfellow/muslimah-travel/internal/errs"
	"github.com/deppfellow/muslimah-travel/internal/model"
	"github.com/deppfellow/muslimah-travel/internal/repository"
	"github.com/deppfellow/muslimah-travel/internal/server"
)

// Actor is the authenticated caller. Admins may moderate content they do
// not own.
type Actor struct {
	UserID string
	Role   model.Role
}

func (a Actor) owns(userID string) bool {
	return a.UserID == userID || a.Role.IsAdmin()
}

type ForumService struct {
	server *server.Server
	forum  *repository.ForumRepository
}

func NewForumService(s *server.Server, repos *repository.Repositories) *ForumService {
	return &ForumService{server: s, forum: repos.Forum}
}

func (s *ForumService) Stats(ctx context.Context) (model.ForumStats, error) {
	return s.forum.Stats(ctx)
}

func (s *ForumService) List(ctx context.Context, search string, sort model.ForumSort, page model.PageQuery) (model.Page[model.ForumTopic], error) {
	return s.forum.List(ctx, search, sort, page)
}

// Topic returns the topic with its comments, newest first.
func (s *ForumService) Topic(ctx context.Context, id string) (model.ForumTopic, error) {
	topic, err := s.forum.GetTopic(ctx, id)
	if err != nil {
		return model.ForumTopic{}, err
	}
	topic.Comments, err = s.forum.Comments(ctx, id)
	if err != nil {
		return model.ForumTopic{}, err
	}
	return topic, nil
}

func (s *ForumService) CreateTopic(ctx context.Context, userID, title, content string, rating *int) (model.ForumTopic, error) {
	return s.forum.CreateTopic(ctx, userID, title, content, rating)
}

type UpdateTopicInput struct {
	Title   *string
	Content *string
	Rating  *int
}

func (s *ForumService) UpdateTopic(ctx context.Context, actor Actor, id string, in UpdateTopicInput) (model.ForumTopic, error) {
	if err := s.checkTopicOwner(ctx, actor, id); err != nil {
		return model.ForumTopic{}, err
	}

	set := database.NewUpdateSet()
	database.SetIfNotNil(set, "title", in.Title)
	database.SetIfNotNil(set, "content", in.Content)
	database.SetIfNotNil(set, "rating", in.Rating)
	return s.forum.UpdateTopic(ctx, id, set)
}

func (s *ForumService) DeleteTopic(ctx context.Context, actor Actor, id string) error {
	if err := s.checkTopicOwner(ctx, actor, id); err != nil {
		return err
	}
	return s.forum.DeleteTopic(ctx, id)
}

func (s *ForumService) AddComment(ctx context.Context, userID, topicID, content string) (model.ForumComment, error) {
	if _, err := s.forum.GetTopic(ctx, topicID); err != nil {
		return model.ForumComment{}, err
	}
	return s.forum.AddComment(ctx, topicID, userID, content)
}

func (s *ForumService) DeleteComment(ctx context.Context, actor Actor, commentID string) error {
	owner, err := s.forum.CommentOwner(ctx, commentID)
	if err != nil {
		return err
	}
	if !actor.owns(owner) {
		return errs.NewForbiddenError("You can only delete your own comments", true)
	}
	return s.forum.DeleteComment(ctx, commentID)
}

func (s *ForumService) checkTopicOwner(ctx context.Context, actor Actor, id string) error {
	topic, err := s.forum.GetTopic(ctx, id)
	if err != nil {
		return err
	}
	if !actor.owns(topic.UserID) {
		return errs.NewForbiddenError("You can only change your own topics", true)
	}
	return nil
}
