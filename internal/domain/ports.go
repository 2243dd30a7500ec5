package domain

import (
	"context"
	"time"
)

// Generator turns a prompt into raw completion text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type PhotoSearcher interface {
	SearchPhotos(ctx context.Context, query string, perPage int) ([]string, error)
}

type IdentityVerifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

// RevocationStore remembers signed-out tokens until they would have expired anyway.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type ProfileRepository interface {
	// Write paths
	CreateProfile(ctx context.Context, p Profile) error
	UpdateProfile(ctx context.Context, p Profile) error
	InsertContactMessage(ctx context.Context, m ContactMessage) error

	// Read paths
	GetProfile(ctx context.Context, uid string) (Profile, error)
}
