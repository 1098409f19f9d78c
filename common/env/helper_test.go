package env

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBool(t *testing.T) {
	assert.True(t, Bool("ECHOBIN_TEST_UNSET", true))
	t.Setenv("ECHOBIN_TEST_BOOL", "true")
	assert.True(t, Bool("ECHOBIN_TEST_BOOL", false))
	t.Setenv("ECHOBIN_TEST_BOOL", "false")
	assert.False(t, Bool("ECHOBIN_TEST_BOOL", true))
}

func TestInt(t *testing.T) {
	assert.Equal(t, 7, Int("ECHOBIN_TEST_UNSET", 7))
	t.Setenv("ECHOBIN_TEST_INT", "42")
	assert.Equal(t, 42, Int("ECHOBIN_TEST_INT", 7))
	t.Setenv("ECHOBIN_TEST_INT", "not-a-number")
	assert.Equal(t, 7, Int("ECHOBIN_TEST_INT", 7))
}

func TestFloat64(t *testing.T) {
	assert.Equal(t, 1.5, Float64("ECHOBIN_TEST_UNSET", 1.5))
	t.Setenv("ECHOBIN_TEST_FLOAT", "2.25")
	assert.Equal(t, 2.25, Float64("ECHOBIN_TEST_FLOAT", 1.5))
}

func TestString(t *testing.T) {
	assert.Equal(t, "fallback", String("ECHOBIN_TEST_UNSET", "fallback"))
	t.Setenv("ECHOBIN_TEST_STRING", "value")
	assert.Equal(t, "value", String("ECHOBIN_TEST_STRING", "fallback"))
}
