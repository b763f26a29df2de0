package domain

import "context"

type UserRepository interface {
	CreateUser(ctx context.Context, user *User) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	GetUserByID(ctx context.Context, id int64) (*User, error)
}

type TokenRepository interface {
	CreateToken(ctx context.Context, token *Token) (*Token, error)
	GetTokenByKey(ctx context.Context, key string) (*Token, error)
	DeleteToken(ctx context.Context, key string) error
}
