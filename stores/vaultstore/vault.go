// Package vaultstore provides a store family backed by a HashiCorp Vault
// KV v2 secrets engine. It recognizes the "vault.address" identifying
// parameter; entries are stored one secret per key under
// <mount>/data/<path>/<namespace>/<key>.
//
// Recognized parameters:
//
//	vault.address - Vault server address (identifying, required)
//	vault.token   - client token, optional (VAULT_TOKEN environment
//	                variable otherwise)
//	vault.mount   - KV v2 mount path, defaults to "secret"
//	vault.path    - path prefix within the mount, defaults to "gridstore"
package vaultstore

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	vault "github.com/hashicorp/vault/api"

	"github.com/gridforge/gridstore/interfaces"
	"github.com/gridforge/gridstore/stores/kvstore"
	"github.com/gridforge/gridstore/storefamily"
)

// Recognized parameters.
const (
	ParamAddress = "vault.address"
	ParamToken   = "vault.token"
	ParamMount   = "vault.mount"
	ParamPath    = "vault.path"
)

const (
	defaultMount = "secret"
	defaultPath  = "gridstore"
)

// Family is the registered vault store family.
var Family = kvstore.NewFamily("vault", ParamAddress, open)

func init() {
	storefamily.Register(Family)
}

func open(ctx context.Context, params map[string]string, log *slog.Logger) (kvstore.KV, error) {
	address := params[ParamAddress]
	if address == "" {
		return nil, fmt.Errorf("parameter %q must not be empty", ParamAddress)
	}

	cfg := vault.DefaultConfig()
	cfg.Address = address

	client, err := vault.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: creating Vault client: %v", interfaces.ErrStoreUnavailable, err)
	}
	if token := params[ParamToken]; token != "" {
		client.SetToken(token)
	}

	mount := strings.Trim(params[ParamMount], "/")
	if mount == "" {
		mount = defaultMount
	}
	path := strings.Trim(params[ParamPath], "/")
	if path == "" {
		path = defaultPath
	}

	log.Debug("Opened vault store",
		slog.String("address", address),
		slog.String("mount", mount),
		slog.String("path", path))

	return &vaultKV{client: client, mount: mount, path: path}, nil
}

type vaultKV struct {
	client *vault.Client
	mount  string
	path   string
}

func (b *vaultKV) Put(ctx context.Context, ns kvstore.Namespace, key string, value []byte) error {
	secretData := map[string]interface{}{
		"data": map[string]interface{}{
			"value": base64.StdEncoding.EncodeToString(value),
		},
	}
	_, err := b.client.Logical().WriteWithContext(ctx, b.dataPath(ns, key), secretData)
	if err != nil {
		return fmt.Errorf("%w: writing to Vault: %v", interfaces.ErrStoreUnavailable, err)
	}
	return nil
}

func (b *vaultKV) Get(ctx context.Context, ns kvstore.Namespace, key string) ([]byte, error) {
	secret, err := b.client.Logical().ReadWithContext(ctx, b.dataPath(ns, key))
	if err != nil {
		return nil, fmt.Errorf("%w: reading from Vault: %v", interfaces.ErrStoreUnavailable, err)
	}
	if secret == nil || secret.Data == nil {
		return nil, interfaces.ErrEntryNotFound
	}

	// KV v2 wraps the payload in a "data" map.
	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		return nil, interfaces.ErrEntryNotFound
	}
	encoded, ok := data["value"].(string)
	if !ok {
		return nil, fmt.Errorf("invalid value format in Vault secret")
	}
	value, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decoding Vault secret value: %w", err)
	}
	return value, nil
}

func (b *vaultKV) Delete(ctx context.Context, ns kvstore.Namespace, key string) error {
	// Deleting the metadata removes every version of the secret.
	_, err := b.client.Logical().DeleteWithContext(ctx, b.metadataPath(ns)+"/"+url.PathEscape(key))
	if err != nil {
		return fmt.Errorf("%w: deleting from Vault: %v", interfaces.ErrStoreUnavailable, err)
	}
	return nil
}

func (b *vaultKV) List(ctx context.Context, ns kvstore.Namespace) ([]string, error) {
	secret, err := b.client.Logical().ListWithContext(ctx, b.metadataPath(ns))
	if err != nil {
		return nil, fmt.Errorf("%w: listing Vault secrets: %v", interfaces.ErrStoreUnavailable, err)
	}
	if secret == nil || secret.Data == nil {
		return nil, nil
	}

	raw, ok := secret.Data["keys"].([]interface{})
	if !ok {
		return nil, nil
	}
	keys := make([]string, 0, len(raw))
	for _, item := range raw {
		escaped, ok := item.(string)
		if !ok {
			continue
		}
		key, err := url.PathUnescape(escaped)
		if err != nil {
			continue
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func (b *vaultKV) Close() error {
	return nil
}

func (b *vaultKV) dataPath(ns kvstore.Namespace, key string) string {
	return fmt.Sprintf("%s/data/%s/%s/%s", b.mount, b.path, ns, url.PathEscape(key))
}

func (b *vaultKV) metadataPath(ns kvstore.Namespace) string {
	return fmt.Sprintf("%s/metadata/%s/%s", b.mount, b.path, ns)
}
