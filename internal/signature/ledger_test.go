package signature_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voxpop/backend/internal/signature"
	"voxpop/backend/internal/storage"
)

// TestAdd_Idempotent verifies that signing the same petition twice by the
// same user yields a count of 1, not 2.
func TestAdd_Idempotent(t *testing.T) {
	// Arrange
	ledger := signature.NewLedger(storage.NewMemory())

	// Act
	first, err := ledger.Add("p1", "alice")
	require.NoError(t, err)
	second, err := ledger.Add("p1", "alice")
	require.NoError(t, err)

	// Assert
	assert.Equal(t, 1, first)
	assert.Equal(t, 1, second, "re-signing must not double-count")
}

// TestAdd_CountsDistinctSigners verifies the count follows distinct signers.
func TestAdd_CountsDistinctSigners(t *testing.T) {
	ledger := signature.NewLedger(storage.NewMemory())

	count, err := ledger.Add("p1", "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = ledger.Add("p1", "bob")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// A different petition keeps its own count.
	count, err = ledger.Add("p2", "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

// TestRemove_Idempotent verifies unsigning twice is a no-op, not an error.
func TestRemove_Idempotent(t *testing.T) {
	ledger := signature.NewLedger(storage.NewMemory())
	_, err := ledger.Add("p1", "alice")
	require.NoError(t, err)

	require.NoError(t, ledger.Remove("p1", "alice"))
	require.NoError(t, ledger.Remove("p1", "alice"))

	count, err := ledger.Count("p1")
	require.NoError(t, err)
	assert.Zero(t, count)
}

// TestSigners_ReturnsSignerSet verifies membership queries.
func TestSigners_ReturnsSignerSet(t *testing.T) {
	ledger := signature.NewLedger(storage.NewMemory())
	_, err := ledger.Add("p1", "alice")
	require.NoError(t, err)
	_, err = ledger.Add("p1", "bob")
	require.NoError(t, err)

	signers, err := ledger.Signers("p1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alice", "bob"}, signers)

	signing, err := ledger.IsSigning("p1", "alice")
	require.NoError(t, err)
	assert.True(t, signing)

	signing, err = ledger.IsSigning("p1", "carol")
	require.NoError(t, err)
	assert.False(t, signing)
}
