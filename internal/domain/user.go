package domain

import "context"

// User is a registered writer.
type User struct {
	BaseModel
	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Bio          string `gorm:"size:500" json:"bio"`
	PasswordHash string `gorm:"size:255" json:"-"`
}

// Writer is a user together with the number of articles they have published.
type Writer struct {
	User
	PublishedCount int64 `json:"published_count"`
}

// UserRepository defines the data access interface for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uint) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
	ListWriters(ctx context.Context, req PageRequest) (*PageResult[Writer], error)
}

// UserService defines the business logic interface for users.
type UserService interface {
	GetUser(ctx context.Context, id uint) (*User, error)
	UpdateProfile(ctx context.Context, id uint, name, bio string) (*User, error)
	ListWriters(ctx context.Context, req PageRequest) (*PageResult[Writer], error)
}
