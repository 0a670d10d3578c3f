package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"

	"github.com/gridforge/gridstore/interfaces"
)

// maxAuthDocumentSize caps how much of an authorization document is read (1MB).
const maxAuthDocumentSize = 1024 * 1024

// JSONFileFactory reads authorization sets from a JSON document at the
// configured authorization URL. The document maps subject names to their
// granted authorization labels:
//
//	{"authorizations": {"fred": ["secret", "public"], "barney": ["public"]}}
//
// The document is fetched on each lookup so grants can be rotated without
// restarting the process.
type JSONFileFactory struct{}

// Name returns the identity the factory is selected by.
func (JSONFileFactory) Name() string { return "jsonFile" }

// Create builds a provider reading from the given URL. A nil URL yields a
// provider that grants nothing.
func (JSONFileFactory) Create(authURL *url.URL) interfaces.AuthorizationProvider {
	return &jsonFileProvider{authURL: authURL, client: http.DefaultClient}
}

type jsonFileProvider struct {
	authURL *url.URL
	client  *http.Client
}

type authDocument struct {
	Authorizations map[string][]string `json:"authorizations"`
}

func (p *jsonFileProvider) Authorizations(ctx context.Context, subject string) ([]string, error) {
	if p.authURL == nil {
		return nil, nil
	}

	raw, err := p.fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading authorization document: %w", err)
	}

	var doc authDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decoding authorization document: %w", err)
	}
	return doc.Authorizations[subject], nil
}

func (p *jsonFileProvider) fetch(ctx context.Context) ([]byte, error) {
	switch p.authURL.Scheme {
	case "http", "https":
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.authURL.String(), nil)
		if err != nil {
			return nil, err
		}
		resp, err := p.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status %s", resp.Status)
		}
		return io.ReadAll(io.LimitReader(resp.Body, maxAuthDocumentSize))
	case "file":
		return os.ReadFile(p.authURL.Path)
	default:
		return nil, fmt.Errorf("unsupported authorization URL scheme %q", p.authURL.Scheme)
	}
}
