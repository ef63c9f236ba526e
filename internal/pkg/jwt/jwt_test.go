package jwt_test

import (
	"testing"
	"time"

	"rental-booking/internal/pkg/config"
	"rental-booking/internal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager() *jwt.Manager {
	return jwt.NewManager(config.JWTConfig{Secret: "test-secret"})
}

func TestManager_Validate(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		m := newManager()
		userID := uuid.New()

		token, err := m.Generate(userID, jwt.RoleService, time.Hour)
		require.NoError(t, err)

		claims, err := m.Validate(token)

		require.NoError(t, err)
		assert.Equal(t, userID, claims.UserID)
		assert.Equal(t, jwt.RoleService, claims.Role)
	})

	t.Run("expired token", func(t *testing.T) {
		m := newManager()

		token, err := m.Generate(uuid.New(), jwt.RoleTenant, -time.Minute)
		require.NoError(t, err)

		_, err = m.Validate(token)

		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := jwt.NewManager(config.JWTConfig{Secret: "another-secret"})
		token, err := other.Generate(uuid.New(), jwt.RoleTenant, time.Hour)
		require.NoError(t, err)

		_, err = newManager().Validate(token)

		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := newManager().Validate("not.a.token")
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})
}
