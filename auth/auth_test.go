package auth

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridforge/gridstore/interfaces"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestResolveDefaultsToEmpty(t *testing.T) {
	for _, name := range []string{"", "none-registered-xyz"} {
		t.Run("name="+name, func(t *testing.T) {
			factory := Resolve(name)
			require.NotNil(t, factory)
			assert.Equal(t, "empty", factory.Name())

			auths, err := factory.Create(nil).Authorizations(context.Background(), "fred")
			require.NoError(t, err)
			assert.Empty(t, auths)
		})
	}
}

func TestResolveByName(t *testing.T) {
	assert.Equal(t, "basic", Resolve("basic").Name())
	assert.Equal(t, "jsonFile", Resolve("jsonFile").Name())
}

func TestRegistryFirstMatchWins(t *testing.T) {
	reg := NewRegistry()
	reg.Register(namedFactory{"dup", "first"})
	reg.Register(namedFactory{"dup", "second"})

	factory := reg.Resolve("dup")
	auths, err := factory.Create(nil).Authorizations(context.Background(), "any")
	require.NoError(t, err)
	assert.Equal(t, []string{"first"}, auths)
}

// namedFactory grants a fixed label, used to observe which registration won.
type namedFactory struct {
	name  string
	grant string
}

func (f namedFactory) Name() string { return f.name }

func (f namedFactory) Create(authURL *url.URL) interfaces.AuthorizationProvider {
	return fixedProvider{f.grant}
}

type fixedProvider struct{ grant string }

func (p fixedProvider) Authorizations(ctx context.Context, subject string) ([]string, error) {
	return []string{p.grant}, nil
}

func TestBasicProvider(t *testing.T) {
	provider := BasicFactory{}.Create(nil)

	auths, err := provider.Authorizations(context.Background(), "fred")
	require.NoError(t, err)
	assert.Equal(t, []string{"fred"}, auths)

	auths, err = provider.Authorizations(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, auths)
}

func TestJSONFileProviderFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auth.json")
	doc := `{"authorizations": {"fred": ["secret", "public"], "barney": ["public"]}}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	provider := JSONFileFactory{}.Create(&url.URL{Scheme: "file", Path: path})

	auths, err := provider.Authorizations(context.Background(), "fred")
	require.NoError(t, err)
	assert.Equal(t, []string{"secret", "public"}, auths)

	auths, err = provider.Authorizations(context.Background(), "wilma")
	require.NoError(t, err)
	assert.Empty(t, auths)
}

func TestJSONFileProviderFromHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"authorizations": {"fred": ["secret"]}}`))
	}))
	defer srv.Close()

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)

	provider := JSONFileFactory{}.Create(u)
	auths, err := provider.Authorizations(context.Background(), "fred")
	require.NoError(t, err)
	assert.Equal(t, []string{"secret"}, auths)
}

func TestJSONFileProviderNoURL(t *testing.T) {
	provider := JSONFileFactory{}.Create(nil)
	auths, err := provider.Authorizations(context.Background(), "fred")
	require.NoError(t, err)
	assert.Empty(t, auths)
}

func TestParseAuthorizationURL(t *testing.T) {
	log := discardLogger()

	u := ParseAuthorizationURL("https://auth.example.com/grants", log)
	require.NotNil(t, u)
	assert.Equal(t, "auth.example.com", u.Host)

	assert.Nil(t, ParseAuthorizationURL("", log))
	assert.Nil(t, ParseAuthorizationURL("://not-a-url", log))
	assert.Nil(t, ParseAuthorizationURL("no-scheme-at-all", log))
}
