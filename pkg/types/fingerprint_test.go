package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPairValidate(t *testing.T) {
	assert.NoError(t, Pair{Hash: "ab12CD", Offset: 0}.Validate())
	assert.NoError(t, Pair{Hash: "0", Offset: 999}.Validate())

	assert.ErrorIs(t, Pair{Hash: "", Offset: 0}.Validate(), ErrInvalidHash)
	assert.ErrorIs(t, Pair{Hash: "xyz", Offset: 0}.Validate(), ErrInvalidHash)
	assert.ErrorIs(t, Pair{Hash: "ab 12", Offset: 0}.Validate(), ErrInvalidHash)
	assert.ErrorIs(t, Pair{Hash: "ab12", Offset: -1}.Validate(), ErrInvalidOffset)
}

func TestPairNormalize(t *testing.T) {
	norm, err := Pair{Hash: "AB12cd", Offset: 5}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, Pair{Hash: "ab12cd", Offset: 5}, norm)

	_, err = Pair{Hash: "nope", Offset: 5}.Normalize()
	assert.ErrorIs(t, err, ErrInvalidHash)
}
