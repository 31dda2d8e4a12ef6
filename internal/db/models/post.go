package models

import "time"

// Post represents a blog post.
// Slug is derived from Title at creation and regenerated on title change;
// it is unique across all posts at all times.
type Post struct {
	// ID is the unique identifier for the post.
	ID uint64 `gorm:"primaryKey" json:"id"`
	// Title is the post title.
	Title string `gorm:"size:255;not null" json:"title"`
	// Slug is the unique URL identifier derived from the title.
	Slug string `gorm:"unique;size:255;not null" json:"slug"`
	// Content is the post body.
	Content string `gorm:"type:text;not null" json:"content"`
	// Excerpt is an optional short summary.
	Excerpt string `gorm:"size:500" json:"excerpt,omitempty"`
	// FeaturedImage is an optional image URL.
	FeaturedImage string `gorm:"size:255" json:"featuredImage,omitempty"`
	// MetaTitle is an optional SEO title.
	MetaTitle string `gorm:"size:255" json:"metaTitle,omitempty"`
	// MetaDescription is an optional SEO description.
	MetaDescription string `gorm:"size:500" json:"metaDescription,omitempty"`
	// Tags is the ordered set of post tags, stored as JSON.
	Tags []string `gorm:"serializer:json" json:"tags"`
	// Published controls public visibility.
	Published bool `gorm:"index" json:"published"`
	// Views counts public reads, incremented with a single-statement update.
	Views uint64 `json:"views"`
	// CreatedAt is the timestamp when the post was created (managed by GORM).
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is the timestamp when the post was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updatedAt"`
	// PublishedAt is set the first time the post is published.
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
}
