package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBase58RoundTrip(t *testing.T) {
	raw := []byte{0x01, 0x02, 0xfe, 0xff}
	encoded := EncodeBytesToBase58(raw)

	decoded, err := DecodeBase58ToBytes(encoded)
	require.NoError(t, err)
	assert.Equal(t, raw, decoded)
	assert.True(t, IsValidBase58(encoded))
}

func TestParseAddress(t *testing.T) {
	addr, err := ParseAddress("5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY")
	require.NoError(t, err)
	assert.Equal(t, "5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY", addr)

	_, err = ParseAddress("")
	assert.Error(t, err)

	// 0, O, I and l are outside the alphabet
	_, err = ParseAddress("alice0")
	assert.Error(t, err)
}
