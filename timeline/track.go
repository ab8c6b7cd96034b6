package timeline

import (
	"fmt"
	"strings"
)

// SourceKind selects how a track is acquired.
type SourceKind int

const (
	// LocalFile is a path on the local filesystem.
	LocalFile SourceKind = iota
	// RemoteFetchable is fetched from the track provider.
	RemoteFetchable
	// CachedFallback is an entry of the built-in fallback table.
	CachedFallback
)

// String returns the kind name.
func (k SourceKind) String() string {
	switch k {
	case LocalFile:
		return "local"
	case RemoteFetchable:
		return "remote"
	case CachedFallback:
		return "fallback"
	default:
		return fmt.Sprintf("SourceKind(%d)", int(k))
	}
}

// ParseSourceKind accepts "local", "remote" or "fallback".
func ParseSourceKind(s string) (SourceKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "local", "file":
		return LocalFile, nil
	case "remote", "youtube", "provider":
		return RemoteFetchable, nil
	case "fallback", "cached":
		return CachedFallback, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSourceKind, s)
}

// TrackDescriptor identifies an audio source. Descriptors are immutable; use
// the constructors to build them.
type TrackDescriptor struct {
	kind     SourceKind
	location string
	name     string
	artist   string
	fallback SubMood
}

// NewLocalTrack describes a file on disk.
func NewLocalTrack(path, name, artist string) (TrackDescriptor, error) {
	if strings.TrimSpace(path) == "" {
		return TrackDescriptor{}, fmt.Errorf("%w: empty path", ErrInvalidDescriptor)
	}
	return TrackDescriptor{kind: LocalFile, location: path, name: name, artist: artist}, nil
}

// NewRemoteTrack describes a provider track. fallback may be NoSubMood; when
// set, the fallback table entry is used if the provider cannot deliver.
func NewRemoteTrack(uri, name, artist string, fallback SubMood) (TrackDescriptor, error) {
	if strings.TrimSpace(uri) == "" {
		return TrackDescriptor{}, fmt.Errorf("%w: empty uri", ErrInvalidDescriptor)
	}
	if fallback != NoSubMood && !fallback.Valid() {
		return TrackDescriptor{}, fmt.Errorf("%w: %s", ErrUnknownSubMood, fallback)
	}
	return TrackDescriptor{kind: RemoteFetchable, location: uri, name: name, artist: artist, fallback: fallback}, nil
}

// NewFallbackTrack describes the fallback table entry for mood.
func NewFallbackTrack(mood SubMood) (TrackDescriptor, error) {
	if !mood.Valid() {
		return TrackDescriptor{}, fmt.Errorf("%w: %s", ErrUnknownSubMood, mood)
	}
	return TrackDescriptor{
		kind:     CachedFallback,
		location: mood.String(),
		name:     "Fallback: " + mood.String(),
		artist:   mood.Mood(),
		fallback: mood,
	}, nil
}

// Kind returns the acquisition strategy.
func (d TrackDescriptor) Kind() SourceKind { return d.kind }

// Location returns the path or URI.
func (d TrackDescriptor) Location() string { return d.location }

// Name returns the display name.
func (d TrackDescriptor) Name() string { return d.name }

// Artist returns the display artist.
func (d TrackDescriptor) Artist() string { return d.artist }

// Fallback returns the sub-mood used for fallback, or NoSubMood.
func (d TrackDescriptor) Fallback() SubMood { return d.fallback }

// String renders "name - artist (kind)" for logs.
func (d TrackDescriptor) String() string {
	label := d.name
	if label == "" {
		label = d.location
	}
	if d.artist != "" {
		label += " - " + d.artist
	}
	return fmt.Sprintf("%s (%s)", label, d.kind)
}
