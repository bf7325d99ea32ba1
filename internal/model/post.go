package model

import "time"

type Post struct {
	ID                   string     `json:"id"`
	Title                string     `json:"title"`
	Slug                 string     `json:"slug"`
	Content              string     `json:"content"`
	FeaturedImageURL     string     `json:"featuredImage,omitempty"`
	FeaturedImageAssetID string     `json:"-"`
	Tags                 []string   `json:"tags"`
	CategoryID           string     `json:"category,omitempty"`
	AuthorID             string     `json:"author"`
	Likes                int        `json:"likes"`
	IsPublic             bool       `json:"isPublic"`
	PublishedAt          *time.Time `json:"publishedAt,omitempty"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`
}

type PostFilter struct {
	AuthorUsername string
	CategorySlug   string
	Tag            string
}
