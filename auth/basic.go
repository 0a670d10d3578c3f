package auth

import (
	"context"
	"net/url"

	"github.com/gridforge/gridstore/interfaces"
)

// BasicFactory grants each subject exactly one authorization: its own name.
// Useful when row visibility labels carry user names directly.
type BasicFactory struct{}

// Name returns the identity the factory is selected by.
func (BasicFactory) Name() string { return "basic" }

// Create returns the basic provider. The authorization URL is ignored.
func (BasicFactory) Create(authURL *url.URL) interfaces.AuthorizationProvider {
	return basicProvider{}
}

type basicProvider struct{}

func (basicProvider) Authorizations(ctx context.Context, subject string) ([]string, error) {
	if subject == "" {
		return nil, nil
	}
	return []string{subject}, nil
}
