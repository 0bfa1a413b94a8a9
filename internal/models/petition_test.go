package models_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"voxpop/backend/internal/models"
)

// TestPetitionBeforeCreate_GeneratesUUID verifies that the BeforeCreate hook
// generates a valid UUID.
func TestPetitionBeforeCreate_GeneratesUUID(t *testing.T) {
	// Arrange
	petition := &models.Petition{
		Title:     "Gluten free buns",
		Problem:   "No gluten-free options on the menu",
		Solution:  "Add gluten-free buns",
		Topic:     "gluten",
		Target:    "business-1",
		Creator:   "alice",
		Threshold: 2,
	}
	assert.Empty(t, petition.ID, "Petition ID should be empty before BeforeCreate")

	// Act
	err := petition.BeforeCreate(nil) // nil *gorm.DB is acceptable for this hook

	// Assert
	assert.NoError(t, err)
	assert.NotEmpty(t, petition.ID)
	parsed, parseErr := uuid.Parse(petition.ID)
	assert.NoError(t, parseErr, "Petition ID must be a valid UUID string")
	assert.NotEqual(t, uuid.Nil, parsed)
}

// TestPetitionBeforeCreate_PreservesExistingID verifies the hook does not
// overwrite an existing ID.
func TestPetitionBeforeCreate_PreservesExistingID(t *testing.T) {
	// Arrange
	existingID := uuid.New().String()
	petition := &models.Petition{ID: existingID, Title: "t", Threshold: 1}

	// Act
	err := petition.BeforeCreate(nil)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, existingID, petition.ID)
}

// TestBusinessBeforeCreate_IssuesToken verifies that registration gets both
// an id and a distinct access token.
func TestBusinessBeforeCreate_IssuesToken(t *testing.T) {
	// Arrange
	business := &models.Business{Name: "McDonald's", Email: "contact@mcd.example"}

	// Act
	err := business.BeforeCreate(nil)

	// Assert
	assert.NoError(t, err)
	assert.NotEmpty(t, business.ID)
	assert.NotEmpty(t, business.Token)
	assert.NotEqual(t, business.ID, business.Token, "id and token must differ")
}

// TestBusinessHasUser covers the membership check.
func TestBusinessHasUser(t *testing.T) {
	business := &models.Business{Users: []string{"u1", "u2"}}

	assert.True(t, business.HasUser("u1"))
	assert.False(t, business.HasUser("u3"))
}

// TestResponseTypeValid verifies the closed enum.
func TestResponseTypeValid(t *testing.T) {
	assert.True(t, models.ResponseFormal.Valid())
	assert.True(t, models.ResponseInformal.Valid())
	assert.True(t, models.ResponseRejection.Valid())
	assert.False(t, models.ResponseType("7").Valid())
}

// TestEvaluationStateTerminal verifies only the evaluated states are
// terminal.
func TestEvaluationStateTerminal(t *testing.T) {
	assert.False(t, models.StateCollecting.Terminal())
	assert.True(t, models.StateAccepted.Terminal())
	assert.True(t, models.StateRejected.Terminal())
}
