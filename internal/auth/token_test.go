package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := IssueToken("secret", 1001, "ada", "customer")
	require.NoError(t, err)

	claims, err := ParseToken("secret", token)
	require.NoError(t, err)
	assert.EqualValues(t, 1001, claims.UserID)
	assert.Equal(t, "ada", claims.Username)
	assert.Equal(t, "customer", claims.Role)
	assert.Equal(t, "wolfcafe", claims.Issuer)
	assert.Equal(t, "ada", claims.Subject)
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := IssueToken("secret", 1001, "ada", "customer")
	require.NoError(t, err)

	_, err = ParseToken("other-secret", token)
	assert.Error(t, err)
}

func TestTokenGarbage(t *testing.T) {
	_, err := ParseToken("secret", "not.a.token")
	assert.Error(t, err)
}
