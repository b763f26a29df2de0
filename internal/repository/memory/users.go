package memory

import (
	"context"
	"fmt"

	"catalog_service/internal/domain"
)

func (s *Store) CreateUser(_ context.Context, user *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == user.Username {
			return nil, fmt.Errorf("user with username '%s' %w", user.Username, domain.ErrConflict)
		}
	}
	created := *user
	created.ID = s.next("users")
	created.CreatedAt = s.now()
	s.users[created.ID] = created
	return &created, nil
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Username == username {
			return &user, nil
		}
	}
	return nil, fmt.Errorf("user %s %w", username, domain.ErrNotFound)
}

func (s *Store) GetUserByID(_ context.Context, id int64) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %d %w", id, domain.ErrNotFound)
	}
	return &user, nil
}

func (s *Store) CreateToken(_ context.Context, token *domain.Token) (*domain.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[token.UserID]; !ok {
		return nil, fmt.Errorf("user %d %w", token.UserID, domain.ErrNotFound)
	}
	created := *token
	created.CreatedAt = s.now()
	s.tokens[created.Key] = created
	return &created, nil
}

func (s *Store) GetTokenByKey(_ context.Context, key string) (*domain.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	token, ok := s.tokens[key]
	if !ok {
		return nil, fmt.Errorf("token %w", domain.ErrNotFound)
	}
	return &token, nil
}

func (s *Store) DeleteToken(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tokens[key]; !ok {
		return fmt.Errorf("token %w", domain.ErrNotFound)
	}
	delete(s.tokens, key)
	return nil
}
