// Package auth provides TokenVerifier adapters. Real credential
// verification is an external collaborator; what lives here is a static
// table for development/tests and a cache decorator for whatever verifier
// is plugged in.
package auth

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/jcmexdev/backoffice-api/internal/core/domain/fault"
	"github.com/jcmexdev/backoffice-api/internal/core/ports"
)

// Ensure StaticVerifier implements the port at compile time.
var _ ports.TokenVerifier = (*StaticVerifier)(nil)

// StaticVerifier resolves tokens from an in-memory table. Intended for
// local development and tests only; it never sees real credentials.
type StaticVerifier struct {
	mu     sync.RWMutex
	tokens map[string]ports.Actor
}

// NewStaticVerifier builds a verifier from a fixed token table. The map
// may be nil; tokens can be added later with IssueToken.
func NewStaticVerifier(tokens map[string]ports.Actor) *StaticVerifier {
	table := make(map[string]ports.Actor, len(tokens))
	for token, actor := range tokens {
		table[token] = actor
	}
	return &StaticVerifier{tokens: table}
}

// IssueToken mints a random token for the given actor and registers it.
func (v *StaticVerifier) IssueToken(actor ports.Actor) string {
	token := uuid.NewString()
	v.mu.Lock()
	v.tokens[token] = actor
	v.mu.Unlock()
	return token
}

func (v *StaticVerifier) Verify(ctx context.Context, token string) (ports.Actor, error) {
	v.mu.RLock()
	actor, ok := v.tokens[token]
	v.mu.RUnlock()
	if !ok {
		return ports.Actor{}, fault.New(fault.KindUnauthorized, "invalid token")
	}
	return actor, nil
}
