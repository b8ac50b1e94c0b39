package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueVerifyRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret")

	for _, id := range []int64{1, 42, 987654321} {
		token, err := tm.Issue(id)
		require.NoError(t, err)
		require.NotEmpty(t, token)

		got, err := tm.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, id, got)
	}
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	tm := NewTokenManager("test-secret")

	token, err := tm.Issue(7)
	require.NoError(t, err)

	// Flip a character in the payload segment.
	mutated := []byte(token)
	mid := len(mutated) / 2
	if mutated[mid] == 'a' {
		mutated[mid] = 'b'
	} else {
		mutated[mid] = 'a'
	}

	_, err = tm.Verify(string(mutated))
	assert.Error(t, err)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := NewTokenManager("secret-one").Issue(7)
	require.NoError(t, err)

	_, err = NewTokenManager("secret-two").Verify(token)
	assert.Error(t, err)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	tm := NewTokenManager("test-secret")
	tm.ttl = -time.Minute

	token, err := tm.Issue(7)
	require.NoError(t, err)

	_, err = tm.Verify(token)
	assert.Error(t, err)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	tm := NewTokenManager("test-secret")

	for _, bad := range []string{"", "not-a-token", "a.b.c"} {
		_, err := tm.Verify(bad)
		assert.Error(t, err, "token %q should not verify", bad)
	}
}
