package auth

import "crypto/rand"

const tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// TokenLength is the fixed size of confirmation and password-reset codes.
const TokenLength = 6

// GenerateToken returns a 6-character alphanumeric code drawn from
// crypto/rand, used as the single-use email-confirmation and
// password-reset credential.
func GenerateToken() string {
	buf := make([]byte, TokenLength)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}
	for i, b := range buf {
		buf[i] = tokenAlphabet[int(b)%len(tokenAlphabet)]
	}
	return string(buf)
}
