package models

import "time"

const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

type User struct {
	ID           uint      `gorm:"primary_key;autoIncrement" json:"id"`
	Email        string    `gorm:"unique;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"` // json:"-" prevents the hash from being exposed in API responses
	CreatedAt    time.Time `json:"createdAt"`
}

type Post struct {
	ID         uint      `gorm:"primary_key;autoIncrement" json:"id"`
	Title      string    `gorm:"not null" json:"title"`
	Slug       string    `gorm:"uniqueIndex;not null" json:"slug"` // unique index is the final arbiter for slug collisions
	Content    string    `gorm:"type:text" json:"content"`
	Excerpt    string    `gorm:"type:text" json:"excerpt"`
	CoverImage string    `json:"coverImage"`
	Category   string    `gorm:"index" json:"category"`
	Tags       []string  `gorm:"serializer:json" json:"tags"`
	Status     string    `gorm:"default:'draft';index" json:"status"` // draft or published
	Views      int64     `gorm:"default:0" json:"views"`
	CreatedAt  time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (p *Post) Published() bool {
	return p.Status == StatusPublished
}
