package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

const DefaultImageURL = "https://images.unsplash.com/photo-1499750310107-5fef28a66643?w=800"

// Account is a registered user. PasswordHash never leaves the process:
// it is excluded from JSON and from PublicAccount.
type Account struct {
	ID           string    `gorm:"primaryKey;size:36"    json:"id"`
	Username     string    `gorm:"uniqueIndex;not null"  json:"username"`
	Email        string    `gorm:"uniqueIndex;not null"  json:"email"`
	PasswordHash string    `gorm:"not null"              json:"-"`
	Role         string    `gorm:"not null;default:user" json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (a *Account) BeforeCreate(_ *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

func (a *Account) IsAdmin() bool { return a.Role == RoleAdmin }

type PublicAccount struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

func (a *Account) Public() PublicAccount {
	return PublicAccount{
		ID:       a.ID,
		Username: a.Username,
		Email:    a.Email,
		Role:     a.Role,
	}
}

type AuthorView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

type Post struct {
	ID        string      `gorm:"primaryKey;size:36"          json:"id"`
	Title     string      `gorm:"not null"                    json:"title"`
	Content   string      `gorm:"not null"                    json:"content"`
	Excerpt   string      `gorm:"size:200"                    json:"excerpt"`
	Tags      []string    `gorm:"serializer:json;type:text"   json:"tags"`
	ImageURL  string      `json:"imageUrl"`
	Published bool        `gorm:"not null;index"              json:"published"`
	AuthorID  string      `gorm:"index;not null;size:36"      json:"authorId"`
	Author    *AuthorView `gorm:"-"                           json:"author,omitempty"`
	CreatedAt time.Time   `gorm:"index"                       json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

func (p *Post) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
