package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travela/internal/adapters/auth"
	redisad "travela/internal/adapters/redis"
	"travela/internal/domain"
)

var testOpts = auth.Options{Secret: []byte("s3cret"), Issuer: "travela", Audience: "travela-web"}

func mint(t *testing.T, o auth.Options, id domain.Identity) string {
	t.Helper()
	iss, err := auth.NewIssuer(o, time.Hour)
	require.NoError(t, err)
	tok, err := iss.Issue(id)
	require.NoError(t, err)
	return tok
}

func TestVerifier_RoundTrip(t *testing.T) {
	v, err := auth.NewVerifier(testOpts)
	require.NoError(t, err)

	tok := mint(t, testOpts, domain.Identity{UID: "u1", Email: "ana@example.com", Name: "Ana", PhotoURL: "https://p/x.jpg"})
	id, err := v.Verify(context.Background(), tok)
	require.NoError(t, err)

	assert.Equal(t, "u1", id.UID)
	assert.Equal(t, "ana@example.com", id.Email)
	assert.Equal(t, "Ana", id.Name)
	assert.Equal(t, "https://p/x.jpg", id.PhotoURL)
	assert.NotEmpty(t, id.TokenID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), id.ExpiresAt, 5*time.Second)
}

func TestVerifier_Rejects(t *testing.T) {
	v, err := auth.NewVerifier(testOpts)
	require.NoError(t, err)

	wrongSecret := mint(t, auth.Options{Secret: []byte("other"), Issuer: "travela", Audience: "travela-web"}, domain.Identity{UID: "u1"})
	wrongIssuer := mint(t, auth.Options{Secret: testOpts.Secret, Issuer: "elsewhere", Audience: "travela-web"}, domain.Identity{UID: "u1"})
	wrongAud := mint(t, auth.Options{Secret: testOpts.Secret, Issuer: "travela", Audience: "mobile"}, domain.Identity{UID: "u1"})

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "u1",
		Issuer:    "travela",
		Audience:  jwt.ClaimStrings{"travela-web"},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}}).SignedString(testOpts.Secret)
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, auth.Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, tok := range map[string]string{
		"empty":        "",
		"garbage":      "not.a.jwt",
		"wrong secret": wrongSecret,
		"wrong issuer": wrongIssuer,
		"wrong aud":    wrongAud,
		"expired":      expired,
		"alg none":     none,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := v.Verify(context.Background(), tok)
			assert.ErrorIs(t, err, domain.ErrUnauthorized)
		})
	}
}

func TestSessions_SignOutRevokesAndNotifies(t *testing.T) {
	mr := miniredis.RunT(t)
	store := redisad.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = store.Close() })

	v, err := auth.NewVerifier(testOpts)
	require.NoError(t, err)
	sessions := auth.NewSessions(v, store)

	var dropped []string
	sessions.OnSignOut(func(uid string) { dropped = append(dropped, uid) })

	ctx := context.Background()
	tok := mint(t, testOpts, domain.Identity{UID: "u1"})
	id, err := sessions.Authenticate(ctx, tok)
	require.NoError(t, err)

	require.NoError(t, sessions.SignOut(ctx, id))
	assert.Equal(t, []string{"u1"}, dropped)

	_, err = sessions.Authenticate(ctx, tok)
	assert.True(t, errors.Is(err, domain.ErrRevoked))
	assert.True(t, auth.IsAuthError(err))

	// a fresh sign-in is unaffected
	_, err = sessions.Authenticate(ctx, mint(t, testOpts, domain.Identity{UID: "u1"}))
	assert.NoError(t, err)
}

type brokenStore struct{}

func (brokenStore) Revoke(context.Context, string, time.Duration) error { return errors.New("down") }
func (brokenStore) IsRevoked(context.Context, string) (bool, error)     { return false, errors.New("down") }

func TestSessions_StoreFailures(t *testing.T) {
	v, err := auth.NewVerifier(testOpts)
	require.NoError(t, err)
	sessions := auth.NewSessions(v, brokenStore{})

	notified := false
	sessions.OnSignOut(func(string) { notified = true })

	tok := mint(t, testOpts, domain.Identity{UID: "u1"})
	_, err = sessions.Authenticate(context.Background(), tok)
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "lookup failure must fail closed")

	err = sessions.SignOut(context.Background(), domain.Identity{UID: "u1", TokenID: "j", ExpiresAt: time.Now().Add(time.Hour)})
	assert.Error(t, err)
	assert.True(t, notified, "subscribers run even when revocation fails")
}
