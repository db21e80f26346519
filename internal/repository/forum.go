package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/muslimah-travel/internal/database"
	"github.com/deppfellow/muslimah-travel/internal/model"
	"github.com/deppfellow/muslimah-travel/internal/server"
)

const topicColumns = `f.id, f.user_id, u.full_name AS author_name, u.avatar_url AS author_avatar, f.title,
	f.content, f.rating, f.created_at, f.updated_at,
	(SELECT COUNT(*) FROM forum_comments c WHERE c.topic_id = f.id) AS comment_count`

const topicFrom = `FROM forum_topics f JOIN users u ON u.id = f.user_id`

type ForumRepository struct {
	server *server.Server
	q      database.Querier
}

func NewForumRepository(s *server.Server) *ForumRepository {
	return &ForumRepository{server: s, q: s.DB.Pool}
}

// Stats summarises the forum. response_rate is the share of comments
// written in the last 7 days, as a whole percentage.
func (r *ForumRepository) Stats(ctx context.Context) (model.ForumStats, error) {
	rows, err := r.q.Query(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users WHERE role = 'user') AS total_members,
			(SELECT COUNT(*) FROM forum_topics) AS total_topics,
			(SELECT COALESCE(ROUND(AVG(rating)::numeric, 1), 0) FROM forum_topics WHERE rating IS NOT NULL) AS avg_rating,
			(SELECT COALESCE(ROUND(COUNT(*) FILTER (WHERE created_at > NOW() - INTERVAL '7 days')::numeric
				/ NULLIF(COUNT(*), 0) * 100, 0), 0) FROM forum_comments) AS response_rate`)
	return collectOne[model.ForumStats](rows, err, "forum_topics")
}

func (r *ForumRepository) List(ctx context.Context, search string, sort model.ForumSort, page model.PageQuery) (model.Page[model.ForumTopic], error) {
	page = page.Normalize()

	var w where
	if search != "" {
		w.add("(f.title ILIKE ? OR f.content ILIKE ?)", likePattern(search))
	}

	order := "f.created_at DESC"
	switch sort {
	case model.ForumSortPopular:
		order = "comment_count DESC, f.created_at DESC"
	case model.ForumSortRating:
		order = "f.rating DESC NULLS LAST, f.created_at DESC"
	}

	total, err := count(ctx, r.q, `SELECT COUNT(*) FROM forum_topics f `+w.String(), w.args...)
	if err != nil {
		return model.Page[model.ForumTopic]{}, err
	}

	sql := fmt.Sprintf(`SELECT %s %s %s ORDER BY %s LIMIT %s OFFSET %s`,
		topicColumns, topicFrom, w.String(), order, w.next(page.Limit), w.next(page.Offset()))

	rows, err := r.q.Query(ctx, sql, w.args...)
	items, err := collectAll[model.ForumTopic](rows, err, "forum_topics")
	if err != nil {
		return model.Page[model.ForumTopic]{}, err
	}
	return model.Page[model.ForumTopic]{Items: items, Pagination: model.NewPagination(page, total)}, nil
}

func (r *ForumRepository) GetTopic(ctx context.Context, id string) (model.ForumTopic, error) {
	rows, err := r.q.Query(ctx, `SELECT `+topicColumns+` `+topicFrom+` WHERE f.id = $1`, id)
	return collectOne[model.ForumTopic](rows, err, "forum_topics")
}

func (r *ForumRepository) Comments(ctx context.Context, topicID string) ([]model.ForumComment, error) {
	rows, err := r.q.Query(ctx, `
		SELECT c.id, c.topic_id, c.user_id, u.full_name AS author_name, u.avatar_url AS author_avatar,
			c.content, c.created_at
		FROM forum_comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.topic_id = $1
		ORDER BY c.created_at DESC`, topicID)
	return collectAll[model.ForumComment](rows, err, "forum_comments")
}

func (r *ForumRepository) CreateTopic(ctx context.Context, userID, title, content string, rating *int) (model.ForumTopic, error) {
	var id string
	err := r.q.QueryRow(ctx, `
		INSERT INTO forum_topics (user_id, title, content, rating)
		VALUES ($1, $2, $3, $4)
		RETURNING id`, userID, title, content, rating).Scan(&id)
	if err != nil {
		return model.ForumTopic{}, fmt.Errorf("insert topic: %w", err)
	}
	return r.GetTopic(ctx, id)
}

func (r *ForumRepository) UpdateTopic(ctx context.Context, id string, set *database.UpdateSet) (model.ForumTopic, error) {
	if _, err := database.UpdateWithValidation[model.ForumTopic](ctx, r.server.DB, "forum_topics", id, set, "id"); err != nil {
		return model.ForumTopic{}, err
	}
	return r.GetTopic(ctx, id)
}

// DeleteTopic removes the topic together with its comments.
func (r *ForumRepository) DeleteTopic(ctx context.Context, id string) error {
	return r.server.DB.DeleteWithCascade(ctx, "forum_topics", id,
		database.Dependency{Table: "forum_comments", ForeignKey: "topic_id"})
}

func (r *ForumRepository) AddComment(ctx context.Context, topicID, userID, content string) (model.ForumComment, error) {
	rows, err := r.q.Query(ctx, `
		WITH inserted AS (
			INSERT INTO forum_comments (topic_id, user_id, content)
			VALUES ($1, $2, $3)
			RETURNING id, topic_id, user_id, content, created_at
		)
		SELECT i.id, i.topic_id, i.user_id, u.full_name AS author_name, u.avatar_url AS author_avatar,
			i.content, i.created_at
		FROM inserted i JOIN users u ON u.id = i.user_id`, topicID, userID, content)
	return collectOne[model.ForumComment](rows, err, "forum_comments")
}

func (r *ForumRepository) CommentOwner(ctx context.Context, commentID string) (string, error) {
	var owner string
	if err := r.q.QueryRow(ctx, `SELECT user_id FROM forum_comments WHERE id = $1`, commentID).Scan(&owner); err != nil {
		return "", rowErr(err, "forum_comments", "get comment owner")
	}
	return owner, nil
}

func (r *ForumRepository) DeleteComment(ctx context.Context, commentID string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM forum_comments WHERE id = $1`, commentID)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("forum_comments")
	}
	return nil
}
