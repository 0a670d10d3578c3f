package storeconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractOverridesSeparatesReservedKeys(t *testing.T) {
	overrides, storeParams, err := ExtractOverrides(map[string]string{
		"memory.id":                  "test",
		"region":                     "eu-west-1",
		KeyInterpolationOverride:     "3",
		KeyScaleTo8Bit:               "true",
		KeyEqualizeHistogramOverride: "false",
		KeyAuthorizationProvider:     "jsonFile",
		KeyAuthorizationURL:          "https://auth.example.com/roles.json",
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"memory.id": "test",
		"region":    "eu-west-1",
	}, storeParams)

	require.True(t, overrides.IsInterpolationOverrideSet())
	interpolation, err := overrides.InterpolationOverride()
	require.NoError(t, err)
	assert.Equal(t, 3, interpolation)

	require.True(t, overrides.IsScaleTo8BitSet())
	scale, err := overrides.ScaleTo8Bit()
	require.NoError(t, err)
	assert.True(t, scale)

	require.True(t, overrides.IsEqualizeHistogramOverrideSet())
	equalize, err := overrides.EqualizeHistogramOverride()
	require.NoError(t, err)
	assert.False(t, equalize)

	assert.Equal(t, "jsonFile", overrides.AuthorizationProviderName())
}

func TestExtractOverridesDoesNotMutateInput(t *testing.T) {
	in := map[string]string{
		"memory.id":    "test",
		KeyScaleTo8Bit: "true",
	}
	_, storeParams, err := ExtractOverrides(in)
	require.NoError(t, err)

	assert.Equal(t, "true", in[KeyScaleTo8Bit])
	assert.NotContains(t, storeParams, KeyScaleTo8Bit)
}

func TestOverridesUnsetAccessorsFail(t *testing.T) {
	overrides, _, err := ExtractOverrides(map[string]string{"memory.id": "test"})
	require.NoError(t, err)

	assert.False(t, overrides.IsInterpolationOverrideSet())
	assert.False(t, overrides.IsScaleTo8BitSet())
	assert.False(t, overrides.IsEqualizeHistogramOverrideSet())

	_, err = overrides.InterpolationOverride()
	assert.ErrorIs(t, err, ErrOverrideNotSet)
	_, err = overrides.ScaleTo8Bit()
	assert.ErrorIs(t, err, ErrOverrideNotSet)
	_, err = overrides.EqualizeHistogramOverride()
	assert.ErrorIs(t, err, ErrOverrideNotSet)
}

func TestBooleanOverrideParsing(t *testing.T) {
	cases := []struct {
		raw  string
		want bool
	}{
		{"true", true},
		{"TRUE", true},
		{"True", true},
		{" true ", true},
		{"false", false},
		{"yes", false},
		{"1", false},
		{"", false},
	}
	for _, tc := range cases {
		overrides, _, err := ExtractOverrides(map[string]string{
			"memory.id":    "test",
			KeyScaleTo8Bit: tc.raw,
		})
		require.NoError(t, err, "value %q", tc.raw)
		require.True(t, overrides.IsScaleTo8BitSet(), "value %q", tc.raw)
		got, err := overrides.ScaleTo8Bit()
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "value %q", tc.raw)
	}
}

func TestInterpolationOverrideRejectsNonInteger(t *testing.T) {
	_, _, err := ExtractOverrides(map[string]string{
		"memory.id":              "test",
		KeyInterpolationOverride: "bilinear",
	})
	assert.ErrorIs(t, err, ErrInvalidOverrideValue)
}

func TestInterpolationOverrideAcceptsPaddedInteger(t *testing.T) {
	overrides, _, err := ExtractOverrides(map[string]string{
		"memory.id":              "test",
		KeyInterpolationOverride: " 2 ",
	})
	require.NoError(t, err)
	got, err := overrides.InterpolationOverride()
	require.NoError(t, err)
	assert.Equal(t, 2, got)
}
