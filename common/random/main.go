package random

import (
	"crypto/rand"
	"math/big"
	mrand "math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GetUUID generates a UUID and returns it as a string without hyphens.
// It uses github.com/google/uuid for UUID generation.
func GetUUID() string {
	code := uuid.New().String()
	code = strings.Replace(code, "-", "", -1)
	return code
}

const keyChars = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
const keyNumbers = "0123456789"

// GetRandomString generates a random string of the specified length
// using a mix of numbers and letters (both uppercase and lowercase).
// It uses crypto/rand for secure random number generation.
func GetRandomString(length int) string {
	key := make([]byte, length)
	for i := range length {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(keyChars))))
		if err != nil {
			// This is unlikely to result in an error, especially on Linux, so it's safe to keep as is.
			panic(err)
		}
		key[i] = keyChars[n.Int64()]
	}
	return string(key)
}

// GetRandomNumberString generates a random string of the specified length
// using only numeric characters (0-9). It uses crypto/rand for secure
// random number generation.
func GetRandomNumberString(length int) string {
	key := make([]byte, length)
	for i := range length {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(keyNumbers))))
		if err != nil {
			// This is unlikely to result in an error, especially on Linux, so it's safe to keep as is.
			panic(err)
		}
		key[i] = keyNumbers[n.Int64()]
	}
	return string(key)
}

// Bytes returns n pseudo-random bytes. A non-nil seed makes the stream
// deterministic, so repeated requests with the same seed get identical
// payloads. The generator is intentionally math/rand: these bytes are test
// fixtures, not secrets.
func Bytes(n int, seed *int64) []byte {
	s := time.Now().UnixNano()
	if seed != nil {
		s = *seed
	}
	r := mrand.New(mrand.NewSource(s))
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(r.Intn(256))
	}
	return b
}
