package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"travela/internal/domain"
)

// Claims is the session token payload. Subject carries the user id and ID
// the token id used for revocation.
type Claims struct {
	Email   string `json:"email,omitempty"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

// Options shared by Issuer and Verifier. Empty Issuer/Audience skip the check.
type Options struct {
	Secret   []byte
	Issuer   string
	Audience string
}

// Verifier checks HS256 tokens and implements domain.IdentityVerifier.
type Verifier struct {
	opts Options
	now  func() time.Time
}

func NewVerifier(o Options) (*Verifier, error) {
	if len(o.Secret) == 0 {
		return nil, errors.New("auth: secret required")
	}
	return &Verifier{opts: o, now: time.Now}, nil
}

func (v *Verifier) Verify(_ context.Context, token string) (domain.Identity, error) {
	if token == "" {
		return domain.Identity{}, domain.ErrUnauthorized
	}
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	}
	if v.opts.Issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(v.opts.Issuer))
	}
	if v.opts.Audience != "" {
		parserOpts = append(parserOpts, jwt.WithAudience(v.opts.Audience))
	}

	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.opts.Secret, nil
	}, parserOpts...)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	}
	if !tok.Valid || claims.Subject == "" {
		return domain.Identity{}, fmt.Errorf("%w: invalid token", domain.ErrUnauthorized)
	}

	id := domain.Identity{
		UID:      claims.Subject,
		Email:    claims.Email,
		Name:     claims.Name,
		PhotoURL: claims.Picture,
		TokenID:  claims.ID,
	}
	if claims.ExpiresAt != nil {
		id.ExpiresAt = claims.ExpiresAt.Time
	}
	return id, nil
}

// Issuer mints session tokens. The API only verifies; the CLI and tests mint.
type Issuer struct {
	opts Options
	ttl  time.Duration
	now  func() time.Time
}

func NewIssuer(o Options, ttl time.Duration) (*Issuer, error) {
	if len(o.Secret) == 0 {
		return nil, errors.New("auth: secret required")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Issuer{opts: o, ttl: ttl, now: time.Now}, nil
}

func (i *Issuer) Issue(id domain.Identity) (string, error) {
	if id.UID == "" {
		return "", errors.New("auth: uid required")
	}
	now := i.now()
	claims := Claims{
		Email:   id.Email,
		Name:    id.Name,
		Picture: id.PhotoURL,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UID,
			Issuer:    i.opts.Issuer,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	if i.opts.Audience != "" {
		claims.Audience = jwt.ClaimStrings{i.opts.Audience}
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.opts.Secret)
}
