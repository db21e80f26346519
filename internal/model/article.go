package model

import "time"

type Article struct {
	ID            string    `json:"id" db:"id"`
	Title         string    `json:"title" db:"title"`
	Slug          string    `json:"slug" db:"slug"`
	Category      *string   `json:"category" db:"category"`
	CoverImageURL *string   `json:"cover_image_url" db:"cover_image_url"`
	Content       string    `json:"content" db:"content"`
	Excerpt       *string   `json:"excerpt" db:"excerpt"`
	Tags          []string  `json:"tags" db:"tags"`
	AuthorID      *string   `json:"author_id" db:"author_id"`
	AuthorName    *string   `json:"author_name" db:"author_name"`
	IsPublished   bool      `json:"is_published" db:"is_published"`
	Views         int64     `json:"views" db:"views"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// ArticleCard is the list projection of an article.
type ArticleCard struct {
	ID       string    `json:"id"`
	Slug     string    `json:"slug"`
	Title    string    `json:"title"`
	Date     time.Time `json:"date"`
	Preview  string    `json:"preview"`
	ImageURL *string   `json:"image_url"`
	Category *string   `json:"category"`
	Views    int64     `json:"views"`
}

type ArticleSection struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

// ArticleDetail is a published article split into its sections.
type ArticleDetail struct {
	Article
	Sections []ArticleSection `json:"sections"`
}

type ArticleCategory struct {
	ID   string `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
	Slug string `json:"slug" db:"slug"`
}

type ArticleSort string

const (
	ArticleSortLatest  ArticleSort = "latest"
	ArticleSortPopular ArticleSort = "popular"
)

type ArticleFilter struct {
	Search        string
	Category      string
	Sort          ArticleSort
	PublishedOnly bool
}
