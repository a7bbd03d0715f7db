/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package relay

import (
	"crypto/rand"

	"github.com/google/uuid"
)

const (
	codeLength  = 6
	codeLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// randomCode returns a crypto-random uppercase alphanumeric string of
// length n, using rejection sampling to avoid modulo bias.
func randomCode(n int) string {
	const max = byte(255 - (256 % len(codeLetters)))

	out := make([]byte, 0, n)
	buf := make([]byte, n*2)

	for len(out) < n {
		if _, err := rand.Read(buf); err != nil {
			panic("crypto/rand failure: " + err.Error())
		}

		for _, b := range buf {
			if b <= max {
				out = append(out, codeLetters[int(b)%len(codeLetters)])
				if len(out) == n {
					return string(out)
				}
			}
		}
	}

	return string(out)
}

// newRoomCode generates room codes until taken reports one as free.
func newRoomCode(taken func(code string) bool) string {
	for {
		code := randomCode(codeLength)
		if !taken(code) {
			return code
		}
	}
}

// NewID returns a random opaque identifier for players and connections.
func NewID() string {
	return uuid.NewString()
}
