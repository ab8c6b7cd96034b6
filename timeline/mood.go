package timeline

import (
	"fmt"
	"strings"
)

// SubMood is a fine-grained mood label. The zero value means "none".
type SubMood int

// Sub-moods grouped by their parent mood.
const (
	NoSubMood SubMood = iota

	// Happy
	Joyful
	Celebratory
	Upbeat
	Elated
	Cheerful

	// Sad
	Melancholic
	Heartbreak
	Reflective
	Grieving
	Lonely

	// Energetic
	Intense
	Powerful
	Adrenaline
	Motivated
	Amped

	// Calm
	Peaceful
	Meditative
	Dreamy
	Soothing
	Serene

	// Neutral
	Ambient
	Instrumental
	Background
	Cinematic

	// Angry
	Furious
	Aggressive
	Heavy
	Explosive

	// Romantic
	Loving
	Sensual
	Passionate
	Flirty

	// Anxious
	Tense
	Nervous
	Uncertain

	// Hopeful
	Inspirational
	Uplifting
	Faithful

	// Surprised
	Shocked
	Amazed
	Excited

	subMoodCount
)

type subMoodInfo struct {
	name string
	mood string
}

var subMoods = [subMoodCount]subMoodInfo{
	NoSubMood:     {"", ""},
	Joyful:        {"joyful", "Happy"},
	Celebratory:   {"celebratory", "Happy"},
	Upbeat:        {"upbeat", "Happy"},
	Elated:        {"elated", "Happy"},
	Cheerful:      {"cheerful", "Happy"},
	Melancholic:   {"melancholic", "Sad"},
	Heartbreak:    {"heartbreak", "Sad"},
	Reflective:    {"reflective", "Sad"},
	Grieving:      {"grieving", "Sad"},
	Lonely:        {"lonely", "Sad"},
	Intense:       {"intense", "Energetic"},
	Powerful:      {"powerful", "Energetic"},
	Adrenaline:    {"adrenaline", "Energetic"},
	Motivated:     {"motivated", "Energetic"},
	Amped:         {"amped", "Energetic"},
	Peaceful:      {"peaceful", "Calm"},
	Meditative:    {"meditative", "Calm"},
	Dreamy:        {"dreamy", "Calm"},
	Soothing:      {"soothing", "Calm"},
	Serene:        {"serene", "Calm"},
	Ambient:       {"ambient", "Neutral"},
	Instrumental:  {"instrumental", "Neutral"},
	Background:    {"background", "Neutral"},
	Cinematic:     {"cinematic", "Neutral"},
	Furious:       {"furious", "Angry"},
	Aggressive:    {"aggressive", "Angry"},
	Heavy:         {"heavy", "Angry"},
	Explosive:     {"explosive", "Angry"},
	Loving:        {"loving", "Romantic"},
	Sensual:       {"sensual", "Romantic"},
	Passionate:    {"passionate", "Romantic"},
	Flirty:        {"flirty", "Romantic"},
	Tense:         {"tense", "Anxious"},
	Nervous:       {"nervous", "Anxious"},
	Uncertain:     {"uncertain", "Anxious"},
	Inspirational: {"inspirational", "Hopeful"},
	Uplifting:     {"uplifting", "Hopeful"},
	Faithful:      {"faithful", "Hopeful"},
	Shocked:       {"shocked", "Surprised"},
	Amazed:        {"amazed", "Surprised"},
	Excited:       {"excited", "Surprised"},
}

// AllSubMoods lists every sub-mood except NoSubMood.
func AllSubMoods() []SubMood {
	out := make([]SubMood, 0, subMoodCount-1)
	for m := Joyful; m < subMoodCount; m++ {
		out = append(out, m)
	}
	return out
}

// Valid reports whether m is a real sub-mood.
func (m SubMood) Valid() bool {
	return m > NoSubMood && m < subMoodCount
}

// String returns the lowercase label, e.g. "joyful".
func (m SubMood) String() string {
	if m == NoSubMood {
		return "none"
	}
	if !m.Valid() {
		return fmt.Sprintf("SubMood(%d)", int(m))
	}
	return subMoods[m].name
}

// Mood returns the parent mood label, e.g. "Happy".
func (m SubMood) Mood() string {
	if !m.Valid() {
		return ""
	}
	return subMoods[m].mood
}

// ParseSubMood resolves an exact label. Matching is case-insensitive but
// otherwise literal; no fuzzy matching is attempted.
func ParseSubMood(name string) (SubMood, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for m := Joyful; m < subMoodCount; m++ {
		if subMoods[m].name == key {
			return m, nil
		}
	}
	return NoSubMood, fmt.Errorf("%w: %q", ErrUnknownSubMood, name)
}
