package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/testutil"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestVerifier(t *testing.T) (*IdentityVerifier, *testutil.IdentityProvider) {
	idp := testutil.NewIdentityProvider(t)
	return NewIdentityVerifier(idp.JWKSURL(), testutil.ProjectID, testutil.Issuer), idp
}

func verify(ctx context.Context, v *IdentityVerifier, raw string) (*Principal, error) {
	token, err := jwt.Parse(raw, v.Keyfunc(ctx), jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenRejected, err)
	}
	return v.Principal(token)
}

func TestVerify_ValidToken(t *testing.T) {
	v, idp := newTestVerifier(t)

	p, err := verify(context.Background(), v, idp.Token(t, "Ada@X.com"))
	require.NoError(t, err)
	assert.Equal(t, "ada@x.com", p.Email)
	assert.Equal(t, "uid-Ada@X.com", p.UID)
}

func TestVerify_Rejections(t *testing.T) {
	v, idp := newTestVerifier(t)

	tests := []struct {
		name  string
		token func() string
	}{
		{"wrong issuer", func() string {
			c := idp.Claims("a@x.com")
			c["iss"] = "https://evil.example.com"
			return idp.Sign(t, c, testutil.KeyID)
		}},
		{"wrong audience", func() string {
			c := idp.Claims("a@x.com")
			c["aud"] = "other-project"
			return idp.Sign(t, c, testutil.KeyID)
		}},
		{"expired", func() string {
			c := idp.Claims("a@x.com")
			c["exp"] = time.Now().Add(-time.Minute).Unix()
			return idp.Sign(t, c, testutil.KeyID)
		}},
		{"missing email", func() string {
			c := idp.Claims("a@x.com")
			delete(c, "email")
			return idp.Sign(t, c, testutil.KeyID)
		}},
		{"unknown kid", func() string {
			return idp.Sign(t, idp.Claims("a@x.com"), "rotated-away")
		}},
		{"hs256", func() string {
			tok := jwt.NewWithClaims(jwt.SigningMethodHS256, idp.Claims("a@x.com"))
			tok.Header["kid"] = testutil.KeyID
			raw, err := tok.SignedString([]byte("secret"))
			require.NoError(t, err)
			return raw
		}},
		{"garbage", func() string { return "not.a.jwt" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := verify(context.Background(), v, tc.token())
			assert.ErrorIs(t, err, ErrTokenRejected)
		})
	}
}

func TestPublicKey_CachesKeys(t *testing.T) {
	v, idp := newTestVerifier(t)

	_, err := verify(context.Background(), v, idp.Token(t, "a@x.com"))
	require.NoError(t, err)

	idp.Server.Close()
	_, err = verify(context.Background(), v, idp.Token(t, "b@x.com"))
	assert.NoError(t, err)
}

func TestPublicKey_UnknownKidRefetchIsThrottled(t *testing.T) {
	v, idp := newTestVerifier(t)
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	v.now = func() time.Time { return now }
	ctx := context.Background()

	_, err := verify(ctx, v, idp.Token(t, "a@x.com"))
	require.NoError(t, err)
	require.Equal(t, int64(1), idp.Fetches())

	for i := 0; i < 5; i++ {
		_, err := v.PublicKey(ctx, "rotated-away")
		assert.ErrorIs(t, err, ErrUnknownKey)
	}
	assert.Equal(t, int64(1), idp.Fetches())

	now = now.Add(jwksMinRefetch)
	_, err = v.PublicKey(ctx, "rotated-away")
	assert.ErrorIs(t, err, ErrUnknownKey)
	assert.Equal(t, int64(2), idp.Fetches())
}

func TestPublicKey_FetchUsesCallerContext(t *testing.T) {
	v, idp := newTestVerifier(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := v.PublicKey(ctx, testutil.KeyID)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int64(0), idp.Fetches())
}
