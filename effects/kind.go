package effects

import (
	"fmt"
	"strings"
)

// Kind is one selectable effect.
type Kind int

// Supported effects, in pipeline order.
const (
	PitchShiftUp Kind = iota
	PitchShiftDown
	Reverse
	VolumeRampUp
	VolumeRampDown
	Echo
	Reverb
	FadeIn
	FadeOut

	kindCount
)

var kindNames = [kindCount]string{
	PitchShiftUp:   "Pitch Shift Up",
	PitchShiftDown: "Pitch Shift Down",
	Reverse:        "Reverse",
	VolumeRampUp:   "Volume Ramp Up",
	VolumeRampDown: "Volume Ramp Down",
	Echo:           "Echo",
	Reverb:         "Reverb",
	FadeIn:         "Fade In",
	FadeOut:        "Fade Out",
}

// AllKinds returns every supported effect in pipeline order.
func AllKinds() []Kind {
	kinds := make([]Kind, 0, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// Valid reports whether k is part of the vocabulary.
func (k Kind) Valid() bool {
	return k >= 0 && k < kindCount
}

// String returns the display label, e.g. "Fade In".
func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

func normalizeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '_', '-', '\t':
			return -1
		}
		return r
	}, strings.ToLower(name))
}

// ParseKind resolves a label such as "Fade In", "fade_in" or "FADE-IN".
func ParseKind(name string) (Kind, error) {
	key := normalizeName(name)
	for k, label := range kindNames {
		if normalizeName(label) == key {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownEffect, name)
}

// Set is an unordered collection of effects. Adding an effect twice has no
// further effect.
type Set uint16

// NewSet builds a set from kinds, rejecting values outside the vocabulary.
func NewSet(kinds ...Kind) (Set, error) {
	var s Set
	for _, k := range kinds {
		if !k.Valid() {
			return 0, fmt.Errorf("%w: %s", ErrUnknownEffect, k)
		}
		s = s.With(k)
	}
	return s, nil
}

// ParseSet parses effect labels into a set. The first unknown label fails
// the whole set.
func ParseSet(names []string) (Set, error) {
	var s Set
	for _, name := range names {
		k, err := ParseKind(name)
		if err != nil {
			return 0, err
		}
		s = s.With(k)
	}
	return s, nil
}

// With returns the set including k.
func (s Set) With(k Kind) Set {
	return s | 1<<uint(k)
}

// Has reports whether k is in the set.
func (s Set) Has(k Kind) bool {
	return k.Valid() && s&(1<<uint(k)) != 0
}

// Empty reports whether no effect is selected.
func (s Set) Empty() bool {
	return s == 0
}

// Kinds lists the members in pipeline order.
func (s Set) Kinds() []Kind {
	var kinds []Kind
	for _, k := range AllKinds() {
		if s.Has(k) {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// String joins the member labels.
func (s Set) String() string {
	kinds := s.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return strings.Join(names, ", ")
}

func (s Set) valid() bool {
	return s>>uint(kindCount) == 0
}
