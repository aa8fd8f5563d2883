package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)

	token, err := issuer.Issue("user-1")
	require.NoError(t, err)

	userID, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestTokenIssuer_Expired(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	issued := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	issuer.now = func() time.Time { return issued }

	token, err := issuer.Issue("user-1")
	require.NoError(t, err)

	issuer.now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = issuer.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_WrongSecretOrMethod(t *testing.T) {
	token, err := NewTokenIssuer("one", time.Hour).Issue("user-1")
	require.NoError(t, err)

	_, err = NewTokenIssuer("two", time.Hour).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "user-1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = NewTokenIssuer("one", time.Hour).Parse(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewTokenIssuer("one", time.Hour).Parse("not a token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestHashAndCheckSecret(t *testing.T) {
	hash, err := HashSecret("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)

	assert.True(t, CheckSecret("hunter22", hash))
	assert.False(t, CheckSecret("hunter23", hash))
	assert.False(t, CheckSecret("anything", ""))
}

func TestGenerateOTP(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		code, err := GenerateOTP()
		require.NoError(t, err)
		require.Len(t, code, 6)
		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9', "non-digit in %q", code)
		}
		seen[code] = true
	}
	assert.Greater(t, len(seen), 1)
}

func TestGoogleVerifier(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("id_token") {
		case "good":
			w.Write([]byte(`{"email":"ada@example.com","email_verified":"true","name":"Ada","picture":"https://img/ada.png","aud":"client-1"}`))
		case "other-app":
			w.Write([]byte(`{"email":"ada@example.com","email_verified":"true","aud":"client-2"}`))
		case "unverified":
			w.Write([]byte(`{"email":"ada@example.com","email_verified":"false","aud":"client-1"}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	defer server.Close()

	verifier := NewGoogleVerifier("client-1").WithEndpoint(server.URL)
	ctx := context.Background()

	identity, err := verifier.Verify(ctx, "good")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", identity.Email)
	assert.Equal(t, "Ada", identity.Name)
	assert.Equal(t, "https://img/ada.png", identity.AvatarURL)

	for _, token := range []string{"other-app", "unverified", "garbage"} {
		_, err := verifier.Verify(ctx, token)
		assert.ErrorIs(t, err, ErrSocialToken, token)
	}
}
