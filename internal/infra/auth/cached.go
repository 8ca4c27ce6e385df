package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jcmexdev/backoffice-api/internal/core/ports"
	"github.com/jcmexdev/backoffice-api/internal/pkg/cache"
)

// verifyTTL bounds how long a resolved actor may be served from cache.
// A revoked token stays usable for at most this long.
const verifyTTL = 5 * time.Minute

var _ ports.TokenVerifier = (*CachedVerifier)(nil)

// CachedVerifier decorates another verifier with a cache keyed by token.
// Cache failures degrade to a direct verify, never to a rejected request.
type CachedVerifier struct {
	inner ports.TokenVerifier
	cache cache.Cache
}

func NewCachedVerifier(inner ports.TokenVerifier, c cache.Cache) *CachedVerifier {
	return &CachedVerifier{inner: inner, cache: c}
}

func (v *CachedVerifier) Verify(ctx context.Context, token string) (ports.Actor, error) {
	key := v.cache.GenerateKey("verify", token)

	if raw, found, err := v.cache.Get(ctx, key); err != nil {
		slog.WarnContext(ctx, "token cache read failed", "error", err)
	} else if found {
		var actor ports.Actor
		if err := json.Unmarshal([]byte(raw), &actor); err == nil {
			return actor, nil
		}
		// Corrupt entry: fall through to a fresh verify which overwrites it.
	}

	actor, err := v.inner.Verify(ctx, token)
	if err != nil {
		return ports.Actor{}, err
	}

	if raw, err := json.Marshal(actor); err == nil {
		if err := v.cache.Set(ctx, key, string(raw), verifyTTL); err != nil {
			slog.WarnContext(ctx, "token cache write failed", "error", err)
		}
	}
	return actor, nil
}
