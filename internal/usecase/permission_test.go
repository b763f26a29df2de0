package usecase

import (
	"testing"
	"time"

	"catalog_service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedPolicy(now time.Time, enforce bool) UpdatePolicy {
	p := NewUpdatePolicy(4*time.Hour, enforce)
	p.Now = func() time.Time { return now }
	return p
}

func TestUpdatePolicy_WindowBoundary(t *testing.T) {
	created := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		elapsed time.Duration
		allowed bool
	}{
		{"just created", 0, true},
		{"three hours", 3 * time.Hour, true},
		{"exactly four hours", 4 * time.Hour, true},
		{"one nanosecond late", 4*time.Hour + time.Nanosecond, false},
		{"a day later", 24 * time.Hour, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy := fixedPolicy(created.Add(tt.elapsed), false)
			err := policy.CheckUpdate(created, nil, nil)
			if tt.allowed {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, domain.ErrPermissionDenied)
			assert.Contains(t, err.Error(), "You can update this object only within 4 hours of creation.")
		})
	}
}

func TestUpdatePolicy_Ownership(t *testing.T) {
	created := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	owner := int64(7)
	alice := &domain.User{ID: 7, Username: "alice"}
	bob := &domain.User{ID: 8, Username: "bob"}

	t.Run("ignored when not enforced", func(t *testing.T) {
		policy := fixedPolicy(created, false)
		assert.NoError(t, policy.CheckUpdate(created, &owner, bob))
		assert.NoError(t, policy.CheckUpdate(created, nil, nil))
	})

	t.Run("owner may update", func(t *testing.T) {
		policy := fixedPolicy(created.Add(time.Hour), true)
		assert.NoError(t, policy.CheckUpdate(created, &owner, alice))
	})

	t.Run("other user is denied", func(t *testing.T) {
		policy := fixedPolicy(created.Add(time.Hour), true)
		err := policy.CheckUpdate(created, &owner, bob)
		require.ErrorIs(t, err, domain.ErrPermissionDenied)
		assert.Contains(t, err.Error(), "You do not own this object.")
	})

	t.Run("ownerless record is denied", func(t *testing.T) {
		policy := fixedPolicy(created, true)
		assert.ErrorIs(t, policy.CheckUpdate(created, nil, alice), domain.ErrPermissionDenied)
	})

	t.Run("owner still bound by the window", func(t *testing.T) {
		policy := fixedPolicy(created.Add(5*time.Hour), true)
		err := policy.CheckUpdate(created, &owner, alice)
		require.ErrorIs(t, err, domain.ErrPermissionDenied)
		assert.Contains(t, err.Error(), "within 4 hours")
	})
}

func TestUpdatePolicy_ZeroWindowUsesDefault(t *testing.T) {
	created := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	policy := UpdatePolicy{Now: func() time.Time { return created.Add(3 * time.Hour) }}
	assert.NoError(t, policy.CheckUpdate(created, nil, nil))
}

func TestFormatWindow(t *testing.T) {
	assert.Equal(t, "1 hour", formatWindow(time.Hour))
	assert.Equal(t, "4 hours", formatWindow(4*time.Hour))
	assert.Equal(t, "1h30m0s", formatWindow(90*time.Minute))
}
