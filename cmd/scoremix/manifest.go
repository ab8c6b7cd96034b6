package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/opd-ai/scoremix/audio"
	"github.com/opd-ai/scoremix/effects"
	"github.com/opd-ai/scoremix/job"
	"github.com/opd-ai/scoremix/timeline"
	"github.com/pelletier/go-toml/v2"
)

// manifest is the TOML job description read by the compose command.
//
//	video_duration = 12.0
//	original_audio = "camera.wav"
//
//	[[segment]]
//	start = 0.0
//	end = 5.0
//	music_start = 30.0
//	music_end = 45.0
//	effects = ["Fade In", "Echo"]
//	[segment.track]
//	source = "remote"
//	location = "https://cdn.example/previews/123.ogg"
//	name = "Song"
//	artist = "Band"
//	fallback = "peaceful"
type manifest struct {
	VideoDuration float64           `toml:"video_duration"`
	OriginalAudio string            `toml:"original_audio"`
	Segments      []manifestSegment `toml:"segment"`
}

type manifestSegment struct {
	Start      float64       `toml:"start"`
	End        float64       `toml:"end"`
	MusicStart *float64      `toml:"music_start"`
	MusicEnd   *float64      `toml:"music_end"`
	Effects    []string      `toml:"effects"`
	Track      manifestTrack `toml:"track"`
}

type manifestTrack struct {
	Source   string `toml:"source"`
	Location string `toml:"location"`
	Name     string `toml:"name"`
	Artist   string `toml:"artist"`
	Fallback string `toml:"fallback"`
}

func loadManifest(path string) (*manifest, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer file.Close()

	var m manifest
	decoder := toml.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, nil
}

// request converts the manifest to a job request. Relative local paths are
// resolved against baseDir.
func (m *manifest) request(ctx context.Context, baseDir string, decoder *audio.Decoder) (job.Request, error) {
	req := job.Request{VideoDuration: m.VideoDuration}
	for i, s := range m.Segments {
		seg, err := s.assignment(baseDir)
		if err != nil {
			return job.Request{}, fmt.Errorf("segment %d: %w", i, err)
		}
		req.Segments = append(req.Segments, seg)
	}

	if m.OriginalAudio != "" {
		original, err := decoder.DecodeFile(ctx, resolvePath(baseDir, m.OriginalAudio))
		if err != nil {
			return job.Request{}, fmt.Errorf("original audio: %w", err)
		}
		req.Original = original
	}
	return req, nil
}

func (s manifestSegment) assignment(baseDir string) (timeline.SegmentAssignment, error) {
	set, err := effects.ParseSet(s.Effects)
	if err != nil {
		return timeline.SegmentAssignment{}, err
	}
	track, err := s.Track.descriptor(baseDir)
	if err != nil {
		return timeline.SegmentAssignment{}, err
	}

	seg := timeline.SegmentAssignment{VideoStart: s.Start, VideoEnd: s.End, Effects: set, Track: track}
	if s.MusicStart != nil || s.MusicEnd != nil {
		r := &timeline.MusicRange{}
		if s.MusicStart != nil {
			r.Start = *s.MusicStart
		}
		if s.MusicEnd != nil {
			r.End = *s.MusicEnd
		} else {
			r.End = r.Start + seg.Duration()
		}
		seg.Music = r
	}
	return seg, seg.Validate()
}

func (t manifestTrack) descriptor(baseDir string) (timeline.TrackDescriptor, error) {
	kind, err := timeline.ParseSourceKind(t.Source)
	if err != nil {
		return timeline.TrackDescriptor{}, err
	}

	fallback := timeline.NoSubMood
	if t.Fallback != "" {
		if fallback, err = timeline.ParseSubMood(t.Fallback); err != nil {
			return timeline.TrackDescriptor{}, err
		}
	}

	switch kind {
	case timeline.LocalFile:
		return timeline.NewLocalTrack(resolvePath(baseDir, t.Location), t.Name, t.Artist)
	case timeline.RemoteFetchable:
		return timeline.NewRemoteTrack(t.Location, t.Name, t.Artist, fallback)
	default:
		if fallback == timeline.NoSubMood && t.Location != "" {
			if fallback, err = timeline.ParseSubMood(t.Location); err != nil {
				return timeline.TrackDescriptor{}, err
			}
		}
		return timeline.NewFallbackTrack(fallback)
	}
}

func resolvePath(baseDir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(baseDir, p)
}
