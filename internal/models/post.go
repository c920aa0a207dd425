package models

import (
	"slices"
	"time"
)

// Post categories offered by the forum.
const (
	CategoryGeneral       = "General"
	CategoryQuestions     = "Questions"
	CategoryHomework      = "Homework"
	CategoryAnnouncements = "Announcements"
	CategoryResources     = "Resources"
)

// Post privacy values.
const (
	PrivacyPublic  = "public"
	PrivacyPrivate = "private"
)

// Categories lists every valid post category.
var Categories = []string{
	CategoryGeneral,
	CategoryQuestions,
	CategoryHomework,
	CategoryAnnouncements,
	CategoryResources,
}

// IsValidCategory reports whether category is one of Categories.
func IsValidCategory(category string) bool {
	return slices.Contains(Categories, category)
}

// Post represents a forum post
type Post struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	AuthorID    uint      `json:"author_id" gorm:"index"`
	Title       string    `json:"title" gorm:"size:200"`
	Content     string    `json:"content"`
	Category    string    `json:"category" gorm:"size:30;index"`
	Privacy     string    `json:"privacy" gorm:"size:10;index"`
	Attachments []string  `json:"attachments" gorm:"serializer:json;type:text"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
}

// IsPublic reports whether the post shows up in discovery queries.
func (p Post) IsPublic() bool {
	return p.Privacy == PrivacyPublic
}

// Clone returns a copy of the post with its own attachments slice.
func (p Post) Clone() Post {
	p.Attachments = slices.Clone(p.Attachments)
	return p
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Title       string   `json:"title" validate:"required,min=1,max=200"`
	Content     string   `json:"content" validate:"required,min=1,max=5000"`
	Category    string   `json:"category" validate:"required,oneof=General Questions Homework Announcements Resources"`
	Privacy     string   `json:"privacy" validate:"required,oneof=public private"`
	Attachments []string `json:"attachments,omitempty" validate:"omitempty,max=10,dive,url"`
}
