// Package testutil provides a local identity provider for tests.
package testutil

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	ProjectID = "apporbit-test"
	Issuer    = "https://securetoken.google.com/" + ProjectID
	KeyID     = "test-key"
)

// IdentityProvider serves a JWKS document and mints RS256 ID tokens signed
// with the matching private key.
type IdentityProvider struct {
	Server  *httptest.Server
	key     *rsa.PrivateKey
	fetches atomic.Int64
}

func NewIdentityProvider(t *testing.T) *IdentityProvider {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	jwks := map[string]interface{}{
		"keys": []map[string]string{{
			"kty": "RSA",
			"kid": KeyID,
			"use": "sig",
			"alg": "RS256",
			"n":   base64.RawURLEncoding.EncodeToString(key.N.Bytes()),
			"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.E)).Bytes()),
		}},
	}
	p := &IdentityProvider{key: key}
	p.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		p.fetches.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(jwks)
	}))
	t.Cleanup(p.Server.Close)

	return p
}

// Fetches counts JWKS requests served so far.
func (p *IdentityProvider) Fetches() int64 {
	return p.fetches.Load()
}

func (p *IdentityProvider) JWKSURL() string {
	return p.Server.URL
}

// Claims returns valid ID token claims for email.
func (p *IdentityProvider) Claims(email string) jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"iss":   Issuer,
		"aud":   ProjectID,
		"sub":   "uid-" + email,
		"email": email,
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
	}
}

// Sign signs claims with the provider key under kid.
func (p *IdentityProvider) Sign(t *testing.T, claims jwt.MapClaims, kid string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = kid
	raw, err := token.SignedString(p.key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return raw
}

// Token mints a valid ID token for email.
func (p *IdentityProvider) Token(t *testing.T, email string) string {
	return p.Sign(t, p.Claims(email), KeyID)
}
