package usecase

import (
	"fmt"
	"time"

	"catalog_service/internal/domain"
)

const DefaultUpdateWindow = 4 * time.Hour

const msgNotOwner = "You do not own this object."

// UpdatePolicy gates updates of a record by its age and, optionally, by who
// owns it. Only the Update path of a service consults it; reads and deletes
// never do.
type UpdatePolicy struct {
	Window           time.Duration
	EnforceOwnership bool
	Now              func() time.Time
}

func NewUpdatePolicy(window time.Duration, enforceOwnership bool) UpdatePolicy {
	return UpdatePolicy{
		Window:           window,
		EnforceOwnership: enforceOwnership,
		Now:              time.Now,
	}
}

func (p UpdatePolicy) CheckUpdate(createdAt time.Time, ownerID *int64, actor *domain.User) error {
	if p.EnforceOwnership {
		if actor == nil || ownerID == nil || *ownerID != actor.ID {
			return fmt.Errorf("%w: %s", domain.ErrPermissionDenied, msgNotOwner)
		}
	}

	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	window := p.Window
	if window == 0 {
		window = DefaultUpdateWindow
	}
	if now().After(createdAt.Add(window)) {
		return fmt.Errorf("%w: You can update this object only within %s of creation.",
			domain.ErrPermissionDenied, formatWindow(window))
	}
	return nil
}

func formatWindow(d time.Duration) string {
	switch {
	case d == time.Hour:
		return "1 hour"
	case d%time.Hour == 0:
		return fmt.Sprintf("%d hours", d/time.Hour)
	}
	return d.String()
}
