/*
Package randx provides generators for unique identifiers used across the server.

Connection and message identifiers are standard UUID v4 strings; short
crypto-random suffixes back generated display names.
*/
package randx

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

const (
	// base62Chars is the character set used for short random suffixes.
	base62Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	base62Len = int64(len(base62Chars))
)

// ConnectionID generates a unique identifier for a newly accepted connection.
func ConnectionID() string {
	return uuid.New().String()
}

// MessageID generates a unique identifier for a broadcast message.
func MessageID() string {
	return uuid.New().String()
}

// Suffix generates n cryptographically random Base62 characters.
func Suffix(n int) (string, error) {
	result := make([]byte, n)

	for i := range n {
		num, err := rand.Int(rand.Reader, big.NewInt(base62Len))
		if err != nil {
			return "", fmt.Errorf("failed to generate random suffix: %v", err)
		}
		result[i] = base62Chars[num.Int64()]
	}

	return string(result), nil
}
