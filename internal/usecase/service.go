package usecase

import (
	"context"
	"io"

	"catalog_service/internal/domain"
)

// Service is the CRUD surface shared by the cached resources. Update loads the
// current record from the store, checks permissions, lets apply mutate a copy
// and then persists it; fields the client may not set are restored after
// apply runs.
type Service[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id int64) (*T, error)
	Create(ctx context.Context, in *T, actor *domain.User) (*T, error)
	Update(ctx context.Context, id int64, actor *domain.User, apply func(*T) error) (*T, error)
	Delete(ctx context.Context, id int64, actor *domain.User) error
}

// FileStore keeps uploaded image files.
type FileStore interface {
	Save(filename string, r io.Reader) (string, error)
	Remove(name string) error
	URL(name string) string
}

func ownerOf(actor *domain.User) *int64 {
	if actor == nil {
		return nil
	}
	id := actor.ID
	return &id
}

// clone copies the value behind p so a record being edited shares no memory
// with the one it was read from.
func clone[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
