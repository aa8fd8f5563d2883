package models

import (
	"time"
)

// User represents an account on the platform
type User struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	IsAdmin      bool      `json:"isAdmin" db:"is_admin"`
	IsBanned     bool      `json:"isBanned" db:"is_banned"`
	Bio          string    `json:"bio" db:"bio"`
	AvatarURL    string    `json:"avatarUrl" db:"avatar_url"`
	CoverURL     string    `json:"coverUrl" db:"cover_url"`
	Website      string    `json:"website" db:"website"`
	Location     string    `json:"location" db:"location"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// Profile is a user as shown to other users
type Profile struct {
	*User
	Followers   int  `json:"followers"`
	Following   int  `json:"following"`
	Articles    int  `json:"articles"`
	IsFollowing bool `json:"isFollowing"`
}

// ProfileInput holds the editable profile fields
type ProfileInput struct {
	Name      *string `json:"name"`
	Bio       *string `json:"bio"`
	AvatarURL *string `json:"avatarUrl"`
	CoverURL  *string `json:"coverUrl"`
	Website   *string `json:"website"`
	Location  *string `json:"location"`
}

// FollowResult is returned by a follow toggle
type FollowResult struct {
	Following bool `json:"following"`
	Followers int  `json:"followers"`
}

// UserPage is one page of the admin user listing
type UserPage struct {
	Users []*User `json:"users"`
	Total int     `json:"total"`
	Page  int     `json:"page"`
	Limit int     `json:"limit"`
}
