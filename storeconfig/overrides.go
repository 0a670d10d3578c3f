package storeconfig

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Reserved override parameter keys, extracted from the descriptor before
// backend family resolution. The backend never sees these keys.
const (
	KeyInterpolationOverride     = "interpolationOverride"
	KeyScaleTo8Bit               = "scaleTo8Bit"
	KeyEqualizeHistogramOverride = "equalizeHistogramOverride"
	KeyAuthorizationProvider     = "authorizationProvider"
	KeyAuthorizationURL          = "authorizationUrl"
)

var (
	// ErrInvalidOverrideValue is returned when a typed override carries a
	// value that does not parse. The whole resolution attempt fails.
	ErrInvalidOverrideValue = errors.New("invalid override value")

	// ErrOverrideNotSet is returned when an override value is read without
	// first checking its presence. Callers must query IsXSet before reading.
	ErrOverrideNotSet = errors.New("override is not set")
)

// optionalBool is a tri-state boolean: absent, or present with a value.
type optionalBool struct {
	set   bool
	value bool
}

// optionalInt is a tri-state integer: absent, or present with a value.
type optionalInt struct {
	set   bool
	value int
}

// Overrides holds the well-known optional tuning values extracted from a
// descriptor. The boolean and integer overrides are tri-state; the
// query-then-read protocol is mandatory.
type Overrides struct {
	interpolation     optionalInt
	scaleTo8Bit       optionalBool
	equalizeHistogram optionalBool

	authProviderName string
	authURLRaw       string
}

// ExtractOverrides removes the five reserved keys from the parameter
// mapping and parses them into an Overrides value. The returned mapping is
// a copy containing only the backend-specific parameters; the input mapping
// is not modified.
func ExtractOverrides(params map[string]string) (Overrides, map[string]string, error) {
	storeParams := make(map[string]string, len(params))
	for key, value := range params {
		storeParams[key] = value
	}

	var o Overrides

	if raw, ok := storeParams[KeyInterpolationOverride]; ok {
		delete(storeParams, KeyInterpolationOverride)
		value, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return Overrides{}, nil, fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidOverrideValue, KeyInterpolationOverride, raw)
		}
		o.interpolation = optionalInt{set: true, value: value}
	}

	if raw, ok := storeParams[KeyScaleTo8Bit]; ok {
		delete(storeParams, KeyScaleTo8Bit)
		o.scaleTo8Bit = optionalBool{set: true, value: parseBool(raw)}
	}

	if raw, ok := storeParams[KeyEqualizeHistogramOverride]; ok {
		delete(storeParams, KeyEqualizeHistogramOverride)
		o.equalizeHistogram = optionalBool{set: true, value: parseBool(raw)}
	}

	o.authProviderName = storeParams[KeyAuthorizationProvider]
	delete(storeParams, KeyAuthorizationProvider)

	o.authURLRaw = storeParams[KeyAuthorizationURL]
	delete(storeParams, KeyAuthorizationURL)

	return o, storeParams, nil
}

// parseBool treats the trimmed, case-insensitive string "true" as true and
// any other present value as false.
func parseBool(raw string) bool {
	return strings.EqualFold(strings.TrimSpace(raw), "true")
}

// IsInterpolationOverrideSet reports whether the interpolation override is
// present.
func (o Overrides) IsInterpolationOverrideSet() bool {
	return o.interpolation.set
}

// InterpolationOverride returns the interpolation code override. Fails with
// ErrOverrideNotSet when the override is absent.
func (o Overrides) InterpolationOverride() (int, error) {
	if !o.interpolation.set {
		return 0, fmt.Errorf("%w: %s", ErrOverrideNotSet, KeyInterpolationOverride)
	}
	return o.interpolation.value, nil
}

// IsScaleTo8BitSet reports whether the scale-to-8-bit override is present.
func (o Overrides) IsScaleTo8BitSet() bool {
	return o.scaleTo8Bit.set
}

// ScaleTo8Bit returns the scale-to-8-bit override. Fails with
// ErrOverrideNotSet when the override is absent.
func (o Overrides) ScaleTo8Bit() (bool, error) {
	if !o.scaleTo8Bit.set {
		return false, fmt.Errorf("%w: %s", ErrOverrideNotSet, KeyScaleTo8Bit)
	}
	return o.scaleTo8Bit.value, nil
}

// IsEqualizeHistogramOverrideSet reports whether the equalize-histogram
// override is present.
func (o Overrides) IsEqualizeHistogramOverrideSet() bool {
	return o.equalizeHistogram.set
}

// EqualizeHistogramOverride returns the equalize-histogram override. Fails
// with ErrOverrideNotSet when the override is absent.
func (o Overrides) EqualizeHistogramOverride() (bool, error) {
	if !o.equalizeHistogram.set {
		return false, fmt.Errorf("%w: %s", ErrOverrideNotSet, KeyEqualizeHistogramOverride)
	}
	return o.equalizeHistogram.value, nil
}

// AuthorizationProviderName returns the configured provider name, empty
// when none was given.
func (o Overrides) AuthorizationProviderName() string {
	return o.authProviderName
}
