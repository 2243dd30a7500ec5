package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"travela/internal/domain"
)

// Sessions gates requests on a verified, unrevoked identity and fans
// sign-out out to subscribers.
type Sessions struct {
	verifier domain.IdentityVerifier
	revoked  domain.RevocationStore
	now      func() time.Time

	mu   sync.RWMutex
	subs []func(uid string)
}

// NewSessions accepts a nil store, in which case tokens stay valid until
// they expire and SignOut only notifies subscribers.
func NewSessions(v domain.IdentityVerifier, r domain.RevocationStore) *Sessions {
	return &Sessions{verifier: v, revoked: r, now: time.Now}
}

// OnSignOut registers fn to run synchronously on every sign-out.
func (s *Sessions) OnSignOut(fn func(uid string)) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

func (s *Sessions) Authenticate(ctx context.Context, token string) (domain.Identity, error) {
	id, err := s.verifier.Verify(ctx, token)
	if err != nil {
		return domain.Identity{}, err
	}
	if s.revoked == nil || id.TokenID == "" {
		return id, nil
	}
	revoked, err := s.revoked.IsRevoked(ctx, id.TokenID)
	if err != nil {
		// fail closed
		return domain.Identity{}, fmt.Errorf("%w: revocation lookup: %w", domain.ErrUnauthorized, err)
	}
	if revoked {
		return domain.Identity{}, fmt.Errorf("%w: %w", domain.ErrUnauthorized, domain.ErrRevoked)
	}
	return id, nil
}

// SignOut revokes the token for the rest of its lifetime, then notifies
// subscribers. Subscribers run even if revocation fails.
func (s *Sessions) SignOut(ctx context.Context, id domain.Identity) error {
	var err error
	if s.revoked != nil && id.TokenID != "" {
		ttl := id.ExpiresAt.Sub(s.now())
		if rerr := s.revoked.Revoke(ctx, id.TokenID, ttl); rerr != nil {
			err = fmt.Errorf("revoke %s: %w", id.TokenID, rerr)
			log.Error().Err(rerr).Str("uid", id.UID).Msg("sign-out revoke failed")
		}
	}

	s.mu.RLock()
	subs := append([]func(string){}, s.subs...)
	s.mu.RUnlock()
	for _, fn := range subs {
		fn(id.UID)
	}
	log.Info().Str("uid", id.UID).Msg("signed out")
	return err
}

// IsAuthError reports whether err should surface as 401.
func IsAuthError(err error) bool {
	return errors.Is(err, domain.ErrUnauthorized) || errors.Is(err, domain.ErrRevoked)
}
