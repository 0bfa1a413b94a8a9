package badge_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voxpop/backend/internal/badge"
	"voxpop/backend/internal/storage"
)

// TestAdd_DuplicateIsNoOp verifies the set semantics: granting a badge the
// owner already holds does not create a second entry.
func TestAdd_DuplicateIsNoOp(t *testing.T) {
	// Arrange
	registry := badge.NewRegistry(storage.NewMemory())

	// Act
	require.NoError(t, registry.Add("b1", "gluten"))
	require.NoError(t, registry.Add("b1", "gluten"))

	// Assert
	badges, err := registry.List("b1")
	require.NoError(t, err)
	assert.Len(t, badges, 1)
	assert.Equal(t, "gluten", badges[0].Name)
}

// TestRemove_AbsentIsNoOp verifies revoking a badge the owner never held is
// not an error.
func TestRemove_AbsentIsNoOp(t *testing.T) {
	registry := badge.NewRegistry(storage.NewMemory())

	assert.NoError(t, registry.Remove("b1", "gluten"))
}

// TestRemove_RevokesHeldBadge verifies removal and that other badges stay.
func TestRemove_RevokesHeldBadge(t *testing.T) {
	registry := badge.NewRegistry(storage.NewMemory())
	require.NoError(t, registry.Add("b1", "gluten"))
	require.NoError(t, registry.Add("b1", "nuts"))

	require.NoError(t, registry.Remove("b1", "gluten"))

	has, err := registry.Has("b1", "gluten")
	require.NoError(t, err)
	assert.False(t, has)
	has, err = registry.Has("b1", "nuts")
	require.NoError(t, err)
	assert.True(t, has)
}

// TestList_EmptySetIsNotNil verifies an owner with no badges gets an empty
// collection, never nil.
func TestList_EmptySetIsNotNil(t *testing.T) {
	registry := badge.NewRegistry(storage.NewMemory())

	badges, err := registry.List("b1")

	require.NoError(t, err)
	assert.NotNil(t, badges)
	assert.Empty(t, badges)
}
