package auth

import (
	"context"
	"net/url"

	"github.com/gridforge/gridstore/interfaces"
)

// EmptyFactory is the fixed no-op authorization strategy: it grants no
// authorizations and never fails. It is the fallback whenever no provider
// name is configured or the configured name matches no registered factory.
type EmptyFactory struct{}

// Name returns the identity the factory is selected by.
func (EmptyFactory) Name() string { return "empty" }

// Create returns the no-op provider. The authorization URL is ignored.
func (EmptyFactory) Create(authURL *url.URL) interfaces.AuthorizationProvider {
	return emptyProvider{}
}

type emptyProvider struct{}

func (emptyProvider) Authorizations(ctx context.Context, subject string) ([]string, error) {
	return nil, nil
}
