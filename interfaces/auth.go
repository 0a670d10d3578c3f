package interfaces

import (
	"context"
	"net/url"
)

// AuthorizationProvider supplies the authorizations granted to a subject.
// Implementations may contact an external endpoint and must honor the
// supplied context.
type AuthorizationProvider interface {
	// Authorizations returns the authorization labels granted to the
	// subject. A subject with no authorizations yields an empty slice, not
	// an error.
	Authorizations(ctx context.Context, subject string) ([]string, error)
}

// AuthorizationFactory is a pluggable authorization strategy, selected by
// exact name match against the registered factory list. When no name is
// given or no factory matches, the no-op strategy is used instead.
type AuthorizationFactory interface {
	// Name returns the identity the factory is selected by.
	Name() string

	// Create builds a provider bound to the optional authorization endpoint
	// URL. A nil URL means no endpoint was configured.
	Create(authURL *url.URL) AuthorizationProvider
}
