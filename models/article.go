package models

import "time"

// Article is a normalized CMS post. Immutable once constructed; identity is
// Slug, unique within a category ("blog" and "legal" are disjoint namespaces).
type Article struct {
	ID          int64     `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	PublishedAt time.Time `json:"pubDate"`
	ModifiedAt  time.Time `json:"modifiedDate"`
	Content     string    `json:"content"`
	ImageURL    string    `json:"imageUrl,omitempty"`
}
