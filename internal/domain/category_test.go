package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/bookclubapp/bookclub-server/internal/errors"
)

func TestBookCategory_State(t *testing.T) {
	tests := []struct {
		name      string
		isActive  bool
		wasPicked bool
		want      CategoryState
	}{
		{"never selected", false, false, CategoryDormant},
		{"currently active", true, true, CategoryActive},
		{"previously active", false, true, CategoryPicked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &BookCategory{IsActive: tt.isActive, WasPicked: tt.wasPicked}
			assert.Equal(t, tt.want, c.State())
		})
	}
}

func TestBookCategory_Lifecycle(t *testing.T) {
	c := &BookCategory{Slug: "horror"}
	require.Equal(t, CategoryDormant, c.State())

	require.NoError(t, c.Activate())
	assert.Equal(t, CategoryActive, c.State())
	assert.True(t, c.WasPicked)

	require.NoError(t, c.Deactivate())
	assert.Equal(t, CategoryPicked, c.State())
	assert.True(t, c.WasPicked, "deactivation keeps the picked flag")

	// Picked categories may be activated again but never return to dormant.
	require.NoError(t, c.Activate())
	assert.Equal(t, CategoryActive, c.State())
	require.NoError(t, c.Deactivate())
	assert.NotEqual(t, CategoryDormant, c.State())
}

func TestBookCategory_InvalidTransitions(t *testing.T) {
	t.Run("activate twice", func(t *testing.T) {
		c := &BookCategory{Slug: "horror", IsActive: true, WasPicked: true}
		err := c.Activate()
		assert.ErrorIs(t, err, domainerrors.ErrConflict)
		assert.True(t, c.IsActive)
	})

	t.Run("deactivate dormant", func(t *testing.T) {
		c := &BookCategory{Slug: "horror"}
		err := c.Deactivate()
		assert.ErrorIs(t, err, domainerrors.ErrConflict)
		assert.False(t, c.WasPicked)
	})
}
