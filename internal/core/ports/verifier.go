package ports

import "context"

// Actor is the trusted identity resolved by the external token verifier.
// The core never sees raw credentials, only this.
type Actor struct {
	UID  string `json:"uid"`
	Role string `json:"role"`
}

// TokenVerifier turns an opaque token into an Actor or an Unauthorized
// fault. Implementations live at the edge (static table, Redis-cached
// decorator, real identity provider).
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (Actor, error)
}
