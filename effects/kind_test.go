package effects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		expect    Kind
		expectErr bool
	}{
		{"display_label", "Fade In", FadeIn, false},
		{"snake_case", "volume_ramp_down", VolumeRampDown, false},
		{"upper_kebab", "PITCH-SHIFT-UP", PitchShiftUp, false},
		{"reverb", "reverb", Reverb, false},
		{"unknown", "Flanger", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k, err := ParseKind(tt.input)
			if tt.expectErr {
				assert.ErrorIs(t, err, ErrUnknownEffect)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expect, k)
		})
	}
}

func TestKindStringRoundTrip(t *testing.T) {
	for _, k := range AllKinds() {
		parsed, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}
	assert.Equal(t, "Kind(42)", Kind(42).String())
}

func TestSetIsIdempotent(t *testing.T) {
	once, err := ParseSet([]string{"Echo"})
	require.NoError(t, err)
	twice, err := ParseSet([]string{"Echo", "echo", "ECHO"})
	require.NoError(t, err)

	assert.Equal(t, once, twice)
	assert.Equal(t, []Kind{Echo}, twice.Kinds())
}

func TestSetKindsInPipelineOrder(t *testing.T) {
	set, err := ParseSet([]string{"Fade Out", "Reverse", "Pitch Shift Down"})
	require.NoError(t, err)
	assert.Equal(t, []Kind{PitchShiftDown, Reverse, FadeOut}, set.Kinds())
	assert.Equal(t, "Pitch Shift Down, Reverse, Fade Out", set.String())
}

func TestParseSetRejectsUnknown(t *testing.T) {
	_, err := ParseSet([]string{"Echo", "Chorus"})
	assert.ErrorIs(t, err, ErrUnknownEffect)
}

func TestNewSetRejectsInvalidKind(t *testing.T) {
	_, err := NewSet(Echo, Kind(99))
	assert.ErrorIs(t, err, ErrUnknownEffect)

	set, err := NewSet(FadeIn, Echo)
	require.NoError(t, err)
	assert.True(t, set.Has(FadeIn))
	assert.False(t, set.Has(Kind(-1)))
}
