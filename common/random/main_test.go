package random

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetUUID(t *testing.T) {
	id := GetUUID()
	assert.Len(t, id, 32)
	assert.NotContains(t, id, "-")
	assert.NotEqual(t, id, GetUUID())
}

func TestGetRandomString(t *testing.T) {
	s := GetRandomString(16)
	assert.Len(t, s, 16)
	assert.NotEqual(t, s, GetRandomString(16))
}

func TestGetRandomNumberString(t *testing.T) {
	s := GetRandomNumberString(10)
	assert.Len(t, s, 10)
	for _, r := range s {
		assert.True(t, r >= '0' && r <= '9', "unexpected rune %q", r)
	}
}

func TestBytesSeeded(t *testing.T) {
	seed := int64(42)
	first := Bytes(64, &seed)
	second := Bytes(64, &seed)
	assert.Len(t, first, 64)
	assert.Equal(t, first, second)

	other := int64(43)
	assert.NotEqual(t, first, Bytes(64, &other))
}

func TestBytesUnseeded(t *testing.T) {
	assert.Len(t, Bytes(16, nil), 16)
	assert.Empty(t, Bytes(0, nil))
}
