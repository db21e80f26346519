package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type ForumTopic struct {
	ID           string         `json:"id" db:"id"`
	UserID       string         `json:"user_id" db:"user_id"`
	AuthorName   string         `json:"author_name" db:"author_name"`
	AuthorAvatar *string        `json:"author_avatar" db:"author_avatar"`
	Title        string         `json:"title" db:"title"`
	Content      string         `json:"content" db:"content"`
	Rating       *int           `json:"rating" db:"rating"`
	CommentCount int64          `json:"comment_count" db:"comment_count"`
	Comments     []ForumComment `json:"comments,omitempty" db:"-"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" db:"updated_at"`
}

type ForumComment struct {
	ID           string    `json:"id" db:"id"`
	TopicID      string    `json:"topic_id" db:"topic_id"`
	UserID       string    `json:"user_id" db:"user_id"`
	AuthorName   string    `json:"author_name" db:"author_name"`
	AuthorAvatar *string   `json:"author_avatar" db:"author_avatar"`
	Content      string    `json:"content" db:"content"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

type ForumSort string

const (
	ForumSortLatest  ForumSort = "latest"
	ForumSortPopular ForumSort = "popular"
	ForumSortRating  ForumSort = "rating"
)

type ForumStats struct {
	TotalMembers int64           `json:"total_members" db:"total_members"`
	TotalTopics  int64           `json:"total_topics" db:"total_topics"`
	AvgRating    decimal.Decimal `json:"avg_rating" db:"avg_rating"`
	ResponseRate decimal.Decimal `json:"response_rate" db:"response_rate"`
}
