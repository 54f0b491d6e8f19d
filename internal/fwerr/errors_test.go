package fwerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindClassification(t *testing.T) {
	err := Input("winding angle %g out of range", 95.0)
	assert.True(t, IsInput(err))
	assert.False(t, IsNumerical(err))
	assert.Equal(t, KindInput, KindOf(err))
	assert.Contains(t, err.Error(), "95")
	assert.NotEmpty(t, err.ID)
}

func TestWrapKeepsChain(t *testing.T) {
	cause := fmt.Errorf("matrix singular or near-singular")
	err := Wrap(KindNumerical, cause, "extensional matrix not invertible")

	require.True(t, IsNumerical(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "not invertible")
	assert.Contains(t, err.Error(), "singular")
}

func TestIsMatchesOnKind(t *testing.T) {
	err := Config("material %q not found", "XYZ")
	assert.True(t, errors.Is(err, &Error{Kind: KindConfig}))
	assert.False(t, errors.Is(err, &Error{Kind: KindInput}))
}

func TestKindOfForeignError(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
	assert.False(t, IsInput(nil))
}

func TestErrorIDsUnique(t *testing.T) {
	a := Input("a")
	b := Input("a")
	assert.NotEqual(t, a.ID, b.ID)
}
