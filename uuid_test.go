package btleplug

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUUID(t *testing.T) {
	u, err := ParseUUID("180f")
	require.NoError(t, err)
	assert.Equal(t, 2, u.Len())
	assert.Equal(t, "180f", u.String())
	assert.True(t, u.Equal(UUID16(0x180f)))

	long, err := ParseUUID("0000180f-0000-1000-8000-00805f9b34fb")
	require.NoError(t, err)
	assert.Equal(t, 16, long.Len())
	assert.Equal(t, "0000180f00001000800000805f9b34fb", long.String())
}

func TestParseUUIDInvalid(t *testing.T) {
	_, err := ParseUUID("18")
	assert.Error(t, err)
	_, err = ParseUUID("xxxx")
	assert.Error(t, err)
}
