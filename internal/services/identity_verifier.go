package services

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	jwksCacheTTL = time.Hour
	// jwksMinRefetch bounds how often an unknown kid can trigger a fetch.
	jwksMinRefetch = time.Minute
)

var (
	ErrTokenRejected = errors.New("identity token rejected")
	ErrUnknownKey    = errors.New("unknown signing key")
)

type jwkSet struct {
	Keys []jwk `json:"keys"`
}

type jwk struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	Use string `json:"use"`
	Alg string `json:"alg"`
	N   string `json:"n"`
	E   string `json:"e"`
}

type jwksCache struct {
	keys        map[string]*rsa.PublicKey
	expiresAt   time.Time
	lastAttempt time.Time
	mu          sync.RWMutex
	fetchMu     sync.Mutex
}

// Principal is the identity established from a verified token.
type Principal struct {
	UID   string
	Email string
}

// IdentityVerifier checks RS256 ID tokens against the identity provider's
// published keys, issuer and audience.
type IdentityVerifier struct {
	cache      *jwksCache
	httpClient *http.Client
	jwksURL    string
	projectID  string
	issuer     string
	now        func() time.Time
}

func NewIdentityVerifier(jwksURL, projectID, issuer string) *IdentityVerifier {
	return &IdentityVerifier{
		cache: &jwksCache{
			keys: make(map[string]*rsa.PublicKey),
		},
		httpClient: &http.Client{Timeout: 10 * time.Second},
		jwksURL:    jwksURL,
		projectID:  projectID,
		issuer:     issuer,
		now:        time.Now,
	}
}

func (v *IdentityVerifier) fetchKeys(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.jwksURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build JWKS request: %w", err)
	}
	resp, err := v.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch JWKS: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("JWKS endpoint returned status %d", resp.StatusCode)
	}

	var set jwkSet
	if err := json.NewDecoder(resp.Body).Decode(&set); err != nil {
		return fmt.Errorf("failed to decode JWKS: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(set.Keys))
	for _, k := range set.Keys {
		if k.Kty != "RSA" {
			continue
		}
		pubKey, err := parseRSAPublicKey(k.N, k.E)
		if err != nil {
			continue
		}
		keys[k.Kid] = pubKey
	}

	v.cache.mu.Lock()
	v.cache.keys = keys
	v.cache.expiresAt = v.now().Add(jwksCacheTTL)
	v.cache.mu.Unlock()
	return nil
}

func parseRSAPublicKey(nStr, eStr string) (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(nStr)
	if err != nil {
		return nil, fmt.Errorf("failed to decode modulus: %w", err)
	}

	eBytes, err := base64.RawURLEncoding.DecodeString(eStr)
	if err != nil {
		return nil, fmt.Errorf("failed to decode exponent: %w", err)
	}

	var e int
	for _, b := range eBytes {
		e = e<<8 | int(b)
	}

	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(nBytes),
		E: e,
	}, nil
}

// lookup reports the cached key for kid and whether a fetch may run now.
// Fetches run at most once per jwksMinRefetch; a stale key is served until
// the next attempt is allowed.
func (v *IdentityVerifier) lookup(kid string) (*rsa.PublicKey, bool) {
	v.cache.mu.RLock()
	defer v.cache.mu.RUnlock()
	now := v.now()
	key, ok := v.cache.keys[kid]
	if ok && now.Before(v.cache.expiresAt) {
		return key, false
	}
	mayFetch := now.Sub(v.cache.lastAttempt) >= jwksMinRefetch
	if ok && !mayFetch {
		return key, false
	}
	return nil, mayFetch
}

// PublicKey returns the signing key for kid, refreshing the key set when it
// is stale or the kid is unknown.
func (v *IdentityVerifier) PublicKey(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	key, mayFetch := v.lookup(kid)
	if key != nil {
		return key, nil
	}
	if !mayFetch {
		return nil, fmt.Errorf("%w: kid %s", ErrUnknownKey, kid)
	}

	v.cache.fetchMu.Lock()
	defer v.cache.fetchMu.Unlock()
	// Another request may have refreshed the set while we waited.
	if key, mayFetch = v.lookup(kid); key != nil {
		return key, nil
	}
	if mayFetch {
		v.cache.mu.Lock()
		v.cache.lastAttempt = v.now()
		v.cache.mu.Unlock()
		if err := v.fetchKeys(ctx); err != nil {
			return nil, err
		}
	}

	v.cache.mu.RLock()
	defer v.cache.mu.RUnlock()
	if key, ok := v.cache.keys[kid]; ok {
		return key, nil
	}
	return nil, fmt.Errorf("%w: kid %s", ErrUnknownKey, kid)
}

// Keyfunc resolves verification keys for tokens presented within ctx. Only
// RS256 with a kid header is accepted.
func (v *IdentityVerifier) Keyfunc(ctx context.Context) jwt.Keyfunc {
	return func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodRS256.Alg() {
			return nil, fmt.Errorf("unsupported algorithm: %s", token.Method.Alg())
		}
		kid, _ := token.Header["kid"].(string)
		if kid == "" {
			return nil, errors.New("missing kid header")
		}
		return v.PublicKey(ctx, kid)
	}
}

// Principal validates the claims of a signature-verified token and returns
// the caller's identity.
func (v *IdentityVerifier) Principal(token *jwt.Token) (*Principal, error) {
	if token == nil || !token.Valid {
		return nil, ErrTokenRejected
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("%w: invalid claims", ErrTokenRejected)
	}

	if iss, _ := claims.GetIssuer(); iss != v.issuer {
		return nil, fmt.Errorf("%w: invalid issuer %s", ErrTokenRejected, iss)
	}
	aud, _ := claims.GetAudience()
	if !containsString(aud, v.projectID) {
		return nil, fmt.Errorf("%w: invalid audience", ErrTokenRejected)
	}
	exp, _ := claims.GetExpirationTime()
	if exp == nil {
		return nil, fmt.Errorf("%w: missing expiry", ErrTokenRejected)
	}
	sub, _ := claims.GetSubject()
	if sub == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrTokenRejected)
	}
	email, _ := claims["email"].(string)
	email = normalizeEmail(email)
	if email == "" {
		return nil, fmt.Errorf("%w: missing email", ErrTokenRejected)
	}

	return &Principal{UID: sub, Email: email}, nil
}

func containsString(list []string, val string) bool {
	for _, item := range list {
		if item == val {
			return true
		}
	}
	return false
}
