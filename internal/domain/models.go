package domain

import "time"

type Car struct {
	ID        int64     `json:"id"`
	Brand     string    `json:"brand" validate:"required,max=100"`
	Model     string    `json:"model" validate:"required,max=100"`
	Year      int       `json:"year" validate:"required,gt=0"`
	Price     *Price    `json:"price" validate:"required,price"`
	OwnerID   *int64    `json:"owner"`
	CreatedAt time.Time `json:"created_at"`
}

type Category struct {
	ID       int64  `json:"id"`
	Name     string `json:"name" validate:"required,max=255"`
	Slug     string `json:"slug" validate:"required,max=50,slug"`
	ParentID *int64 `json:"parent"`
}

// Product is written with either CategoryID or CategorySlug and read back with
// the nested Category and its Images.
type Product struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name" validate:"required,max=255"`
	Slug         string    `json:"slug" validate:"required,max=50,slug"`
	CategoryID   int64     `json:"category_id"`
	CategorySlug string    `json:"category_slug,omitempty"`
	Category     *Category `json:"category"`
	Price        *Price    `json:"price" validate:"required,price"`
	Description  string    `json:"description"`
	OwnerID      *int64    `json:"owner"`
	CreatedAt    time.Time `json:"created_at"`
	Images       []Image   `json:"images"`
}

type Image struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"product"`
	Image     string `json:"image"` // path relative to the media root
	URL       string `json:"url"`
}

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

type Token struct {
	Key       string    `json:"token"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
