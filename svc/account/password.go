package account

import (
	"crypto/rand"
	"errors"
)

const (
	joinPasswordLength   = 10
	joinPasswordAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

var errJoinPasswordRand = errors.New("failed to generate join password")

// GenerateJoinPassword returns a random 10-character alphanumeric password.
func GenerateJoinPassword() (string, error) {
	// Bytes at or above limit are rejected so every symbol is equally likely.
	limit := byte(256 - 256%len(joinPasswordAlphabet))

	out := make([]byte, 0, joinPasswordLength)
	buf := make([]byte, joinPasswordLength*2)
	for len(out) < joinPasswordLength {
		if _, err := rand.Read(buf); err != nil {
			return "", errors.Join(errJoinPasswordRand, err)
		}
		for _, b := range buf {
			if b >= limit {
				continue
			}
			out = append(out, joinPasswordAlphabet[int(b)%len(joinPasswordAlphabet)])
			if len(out) == joinPasswordLength {
				break
			}
		}
	}
	return string(out), nil
}
