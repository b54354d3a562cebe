// Package model defines the data structures used throughout the application.
package model

// User is an account that authors books.
//
// Password is stored exactly as the PasswordEncoder returned it. With the
// default plain encoder that is the raw sign-up value.
type User struct {
	ID       int64    `json:"id"                gorm:"primaryKey"`
	Username string   `json:"username"          gorm:"not null"`
	Password string   `json:"password"          gorm:"not null"`
	Email    string   `json:"email"             gorm:"uniqueIndex;not null"`
	Books    []Book   `json:"books,omitempty"   gorm:"foreignKey:AuthorID"`
	Profile  *Profile `json:"profile,omitempty" gorm:"foreignKey:UserID"`
}

// Profile holds the one-per-user biography.
type Profile struct {
	ID     int64  `json:"id"     gorm:"primaryKey"`
	Bio    string `json:"bio"    gorm:"not null"`
	UserID int64  `json:"userId" gorm:"uniqueIndex;not null"`
}
