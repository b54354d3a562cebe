// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data. The `json:"..."` tags control
// the API shape and the `gorm:"..."` tags control the table schema that
// AutoMigrate creates.
package model

import "time"

// Book is a draft or published book written by one User.
//
// DEFAULTS:
// Published and ViewCount carry database defaults. GORM leaves zero-valued
// fields with a default tag out of the INSERT, so a new book starts as an
// unpublished draft with zero views.
//
// AuthorID is set once at creation and never changed by any route.
// Author is only populated when a query asks for it (Preload).
type Book struct {
	ID          int64     `json:"id"               gorm:"primaryKey"`
	Title       string    `json:"title"            gorm:"not null"`
	Page        int       `json:"page"             gorm:"not null"`
	Description *string   `json:"description"`
	Published   bool      `json:"published"        gorm:"not null;default:false"`
	ViewCount   int64     `json:"viewCount"        gorm:"not null;default:0"`
	AuthorID    int64     `json:"authorId"         gorm:"not null;index"`
	Author      *User     `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"        gorm:"index"`
}
