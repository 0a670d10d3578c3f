package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gridforge/gridstore/auth"
	"github.com/gridforge/gridstore/params"
	"github.com/gridforge/gridstore/storeconfig"
	"github.com/gridforge/gridstore/storefamily"
)

// maxBodySize is the maximum allowed request body size (1MB).
const maxBodySize = 1024 * 1024

// Handler serves the configuration inspection API. It exposes the resolved
// configurations of the cache, the registered backend families and the
// registered authorization providers. Resolution through the API populates
// the same cache the embedding process uses.
type Handler struct {
	cache    *storeconfig.Cache
	families *storefamily.Registry
	auth     *auth.Registry
	log      *slog.Logger
}

// NewHandler creates an inspection handler over the given cache and
// registries.
func NewHandler(cache *storeconfig.Cache, families *storefamily.Registry, authReg *auth.Registry, log *slog.Logger) *Handler {
	return &Handler{
		cache:    cache,
		families: families,
		auth:     authReg,
		log:      log,
	}
}

// configView is the JSON shape of a resolved configuration. Parameter
// values for credential-looking keys are redacted.
type configView struct {
	Descriptor   string            `json:"descriptor"`
	Family       string            `json:"family"`
	Params       map[string]string `json:"params"`
	Overrides    map[string]any    `json:"overrides"`
	AuthProvider string            `json:"auth_provider"`
	AuthURL      string            `json:"auth_url,omitempty"`
}

func viewOf(cfg *storeconfig.Config) configView {
	view := configView{
		Descriptor:   cfg.Descriptor(),
		Family:       cfg.Family().Name(),
		Params:       redactParams(cfg.StoreParams()),
		Overrides:    map[string]any{},
		AuthProvider: cfg.AuthorizationFactory().Name(),
	}
	if u := cfg.AuthorizationURL(); u != nil {
		view.AuthURL = u.String()
	}
	if cfg.IsInterpolationOverrideSet() {
		v, _ := cfg.InterpolationOverride()
		view.Overrides[storeconfig.KeyInterpolationOverride] = v
	}
	if cfg.IsScaleTo8BitSet() {
		v, _ := cfg.ScaleTo8Bit()
		view.Overrides[storeconfig.KeyScaleTo8Bit] = v
	}
	if cfg.IsEqualizeHistogramOverrideSet() {
		v, _ := cfg.EqualizeHistogramOverride()
		view.Overrides[storeconfig.KeyEqualizeHistogramOverride] = v
	}
	return view
}

func redactParams(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for key, value := range in {
		lower := strings.ToLower(key)
		if strings.Contains(lower, "secret") || strings.Contains(lower, "password") || strings.Contains(lower, "token") {
			out[key] = "[redacted]"
			continue
		}
		out[key] = value
	}
	return out
}

// HandleListConfigs returns the descriptors of all resolved configurations.
//
// Endpoint: GET /api/v1/configs
func (h *Handler) HandleListConfigs(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, map[string]any{
		"configs": h.cache.Descriptors(),
		"count":   h.cache.Len(),
	})
}

// HandleGetConfig returns the view of one resolved configuration, looked up
// by its verbatim descriptor passed as the "descriptor" query parameter.
//
// Endpoint: GET /api/v1/configs/show?descriptor=...
func (h *Handler) HandleGetConfig(w http.ResponseWriter, r *http.Request) {
	descriptor := r.URL.Query().Get("descriptor")
	if descriptor == "" {
		http.Error(w, "Missing descriptor query parameter", http.StatusBadRequest)
		return
	}

	cfg, ok := h.cache.Get(descriptor)
	if !ok {
		http.Error(w, "Unknown descriptor", http.StatusNotFound)
		return
	}
	h.writeJSON(w, viewOf(cfg))
}

// resolveRequest is the body of a resolve call. Exactly one of descriptor
// and locator must be set.
type resolveRequest struct {
	Descriptor string `json:"descriptor"`
	Locator    string `json:"locator"`
}

// HandleResolve resolves a descriptor (or a document locator) through the
// cache and returns the resulting configuration view.
//
// Endpoint: POST /api/v1/configs/resolve
// Body: {"descriptor": "memory.id=test;scaleTo8Bit=true"}
// or:   {"locator": "https://example.com/store.xml"}
func (h *Handler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if (req.Descriptor == "") == (req.Locator == "") {
		http.Error(w, "Exactly one of descriptor and locator must be set", http.StatusBadRequest)
		return
	}

	var cfg *storeconfig.Config
	var err error
	if req.Descriptor != "" {
		cfg, err = h.cache.Resolve(r.Context(), req.Descriptor)
	} else {
		cfg, err = h.cache.ResolveDocument(r.Context(), req.Locator)
	}
	if err != nil {
		h.log.Error("Resolution failed", "err", err,
			"descriptor", req.Descriptor, "locator", req.Locator)
		http.Error(w, err.Error(), resolveStatus(err))
		return
	}

	h.writeJSON(w, viewOf(cfg))
}

// resolveStatus maps resolution failures to HTTP status codes. Client
// mistakes in the descriptor are 400s, a missing backend family is a 422,
// everything else is a 500.
func resolveStatus(err error) int {
	switch {
	case errors.Is(err, params.ErrMalformedDescriptor),
		errors.Is(err, params.ErrDocumentParse),
		errors.Is(err, storeconfig.ErrInvalidOverrideValue):
		return http.StatusBadRequest
	case errors.Is(err, storefamily.ErrNoMatchingBackend):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// HandleListFamilies returns the names of the registered backend families
// in registration order.
//
// Endpoint: GET /api/v1/families
func (h *Handler) HandleListFamilies(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, map[string]any{"families": h.families.Names()})
}

// HandleListAuthProviders returns the names of the registered authorization
// provider factories.
//
// Endpoint: GET /api/v1/authorization/providers
func (h *Handler) HandleListAuthProviders(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, map[string]any{"providers": h.auth.Names()})
}

func (h *Handler) writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.log.Error("Failed to encode response", "err", err)
	}
}
